package qr

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"xdao.co/transcode/codec"
	"xdao.co/transcode/digest"
	"xdao.co/transcode/frame"
)

// Record is the structured text embedded in a symbol.
type Record struct {
	Filename string `json:"filename"`
	Hash     string `json:"hash"`
	// Alg is omitted for sha256.
	Alg  string `json:"alg,omitempty"`
	Data string `json:"data"`
}

// wireRecord distinguishes absent fields from empty ones on decode.
type wireRecord struct {
	Filename *string `json:"filename"`
	Hash     *string `json:"hash"`
	Alg      string  `json:"alg"`
	Data     *string `json:"data"`
}

// MarshalRecord renders r as compact JSON with every non-ASCII character
// escaped, so the symbol content is plain ASCII.
func MarshalRecord(r Record) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return asciiEscape(b), nil
}

// ParseRecord parses record text. Missing filename and hash take their
// defaults; a missing data field is an error.
func ParseRecord(text string) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return Record{}, codec.Wrap(codec.KindMalformedCarrier, codec.RuleQRRecord, "invalid record format", err)
	}
	if w.Data == nil {
		return Record{}, codec.New(codec.KindMalformedCarrier, codec.RuleQRData, "record has no data field")
	}
	if w.Alg != "" && !digest.Supported(w.Alg) {
		return Record{}, codec.New(codec.KindMalformedCarrier, codec.RuleQRRecord, fmt.Sprintf("record names unsupported digest %q", w.Alg))
	}
	r := Record{Filename: frame.LegacyFilename, Alg: w.Alg, Data: *w.Data}
	if w.Filename != nil {
		r.Filename = *w.Filename
	}
	if w.Hash != nil {
		r.Hash = *w.Hash
	}
	return r, nil
}

func asciiEscape(b []byte) []byte {
	if isASCII(b) {
		return b
	}
	var sb strings.Builder
	sb.Grow(len(b) + 16)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		switch {
		case r < utf8.RuneSelf:
			sb.WriteByte(byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&sb, `\u%04x\u%04x`, hi, lo)
		default:
			fmt.Fprintf(&sb, `\u%04x`, r)
		}
	}
	return []byte(sb.String())
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
