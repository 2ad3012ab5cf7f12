// Package numeral renders a framed payload as one unsigned integer in decimal
// (or hexadecimal) text, and parses such text back.
//
// The integer is the big-endian interpretation of the framed buffer, so any
// leading zero bytes of that buffer are lost on the way back. Every filename
// shorter than 16 MiB puts a zero byte first, which means ordinary encodings
// decode through frame.LegacyRaw.
package numeral

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"xdao.co/transcode/codec"
	"xdao.co/transcode/frame"
)

const (
	// DefaultMaxPayloadBytes caps the payload accepted by Encode.
	DefaultMaxPayloadBytes = 1 << 20
	// DefaultMaxTextLength caps the text accepted by Decode. It covers the
	// decimal rendering of a DefaultMaxPayloadBytes payload plus its header.
	DefaultMaxTextLength = 3 << 20
)

// Options bounds resource use. Zero values select defaults.
type Options struct {
	// MaxPayloadBytes caps Encode input.
	MaxPayloadBytes int
	// MaxTextLength caps Decode input, measured after trimming whitespace.
	MaxTextLength int
	// MaxDecimalDigits switches Encode to base 16 when the decimal rendering
	// would be longer. Zero means unlimited.
	MaxDecimalDigits int
}

func (o Options) maxPayload() int {
	if o.MaxPayloadBytes > 0 {
		return o.MaxPayloadBytes
	}
	return DefaultMaxPayloadBytes
}

func (o Options) maxText() int {
	if o.MaxTextLength > 0 {
		return o.MaxTextLength
	}
	return DefaultMaxTextLength
}

// Encoding is the text form of a framed payload.
type Encoding struct {
	Text string
	// Base is 10 or 16.
	Base int
}

// Encode frames payload with filename and renders the framed buffer.
func Encode(payload []byte, filename string, opts Options) (Encoding, error) {
	if len(payload) > opts.maxPayload() {
		return Encoding{}, codec.New(codec.KindPayloadTooLarge, codec.RuleNumeralPayload,
			fmt.Sprintf("payload of %d bytes exceeds %d byte limit", len(payload), opts.maxPayload()))
	}
	return Render(frame.Frame(payload, filename), opts), nil
}

// Render interprets buf as a big-endian unsigned integer and renders it.
func Render(buf []byte, opts Options) Encoding {
	n := new(big.Int).SetBytes(buf)
	if opts.MaxDecimalDigits > 0 && decimalDigits(n) > opts.MaxDecimalDigits {
		return Encoding{Text: n.Text(16), Base: 16}
	}
	return Encoding{Text: n.Text(10), Base: 10}
}

// Decode parses text and unframes the resulting buffer.
func Decode(text string, opts Options) (frame.Result, error) {
	buf, err := Parse(text, opts)
	if err != nil {
		return frame.Result{}, err
	}
	return frame.Unframe(buf), nil
}

// Parse converts text to the minimal big-endian byte form of its value.
// Base 10 is tried first; base 16 only when base 10 fails outright, so text
// that is valid in both bases is always read as decimal.
func Parse(text string, opts Options) ([]byte, error) {
	s := strings.TrimSpace(text)
	if len(s) > opts.maxText() {
		return nil, codec.New(codec.KindPayloadTooLarge, codec.RuleNumeralTextLength,
			fmt.Sprintf("numeral of %d characters exceeds %d character limit", len(s), opts.maxText()))
	}
	n, ok := parseUnsigned(s, 10)
	if !ok {
		n, ok = parseUnsigned(s, 16)
	}
	if !ok {
		return nil, codec.New(codec.KindInvalidEncoding, codec.RuleNumeralSyntax, "not a base-10 or base-16 numeral")
	}
	return n.Bytes(), nil
}

// parseUnsigned accepts an optional leading '+'; negatives are rejected.
func parseUnsigned(s string, base int) (*big.Int, bool) {
	if s == "" || s[0] == '-' {
		return nil, false
	}
	return new(big.Int).SetString(s, base)
}

// decimalDigits returns the length of n rendered in base 10. The bit-length
// estimate is exact or one too large; the power of ten settles it.
func decimalDigits(n *big.Int) int {
	bits := n.BitLen()
	if bits == 0 {
		return 1
	}
	est := int(float64(bits)*math.Log10(2)) + 1
	if est > 1 {
		floor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(est-1)), nil)
		if n.Cmp(floor) < 0 {
			est--
		}
	}
	return est
}
