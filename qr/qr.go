// Package qr embeds a payload, its filename and its digest in a QR symbol and
// recovers them from a scanned image.
package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"unicode/utf8"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/encoding/charmap"

	"xdao.co/transcode/codec"
	"xdao.co/transcode/digest"
)

const (
	// DefaultMaxPayloadBytes is the hard ceiling on raw payload size,
	// independent of symbol capacity.
	DefaultMaxPayloadBytes = 500 * 1024
	// DefaultModulePixels is the rendered size of one module.
	DefaultModulePixels = 10
)

// Options controls rendering. Zero values select defaults.
type Options struct {
	MaxPayloadBytes int
	ModulePixels    int
	// Digest names the digest algorithm embedded in the record.
	Digest string
}

func (o Options) maxPayload() int {
	if o.MaxPayloadBytes > 0 {
		return o.MaxPayloadBytes
	}
	return DefaultMaxPayloadBytes
}

func (o Options) modulePixels() int {
	if o.ModulePixels > 0 {
		return o.ModulePixels
	}
	return DefaultModulePixels
}

// Image is a rendered symbol.
type Image struct {
	PNG []byte
	// Version is the symbol version (1-40).
	Version int
	Hash    string
	Alg     string
}

// Decoded is the content recovered from a symbol.
type Decoded struct {
	Payload  []byte
	Filename string
	// Hash is recomputed over Payload; EmbeddedHash is what the record carried.
	Hash         string
	EmbeddedHash string
	Alg          string
}

// Intact reports whether the recomputed digest matches the embedded one.
func (d *Decoded) Intact() bool { return digest.Equal(d.Hash, d.EmbeddedHash) }

// Encode renders payload into a PNG symbol using the smallest version at
// recovery level L, with a four-module quiet zone.
func Encode(payload []byte, filename string, opts Options) (*Image, error) {
	if len(payload) > opts.maxPayload() {
		return nil, codec.New(codec.KindPayloadTooLarge, codec.RuleQRPayload,
			fmt.Sprintf("payload of %d bytes exceeds %d byte limit", len(payload), opts.maxPayload()))
	}
	alg := opts.Digest
	if alg == digest.SHA256 {
		alg = ""
	}
	sum, err := digest.SumAlg(alg, payload)
	if err != nil {
		return nil, err
	}
	text, err := MarshalRecord(Record{
		Filename: filename,
		Hash:     sum,
		Alg:      alg,
		Data:     base64.StdEncoding.EncodeToString(payload),
	})
	if err != nil {
		return nil, codec.Wrap(codec.KindInternal, codec.RuleQRRecord, "marshal record", err)
	}

	q, err := qrcode.New(string(text), qrcode.Low)
	if err != nil {
		return nil, codec.Wrap(codec.KindPayloadTooLarge, codec.RuleQRCapacity, "record does not fit in a symbol", err)
	}
	png, err := q.PNG(-opts.modulePixels())
	if err != nil {
		return nil, codec.Wrap(codec.KindInternal, codec.RuleQRImage, "render symbol", err)
	}
	if alg == "" {
		alg = digest.SHA256
	}
	return &Image{PNG: png, Version: q.VersionNumber, Hash: sum, Alg: alg}, nil
}

// Decode scans img for a symbol and recovers the record it carries. A digest
// mismatch is reported through Decoded, never as an error.
func Decode(img []byte) (*Decoded, error) {
	raw, err := scan(img)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}
	rec, err := ParseRecord(text)
	if err != nil {
		return nil, err
	}
	payload, err := base64.StdEncoding.DecodeString(rec.Data)
	if err != nil {
		return nil, codec.Wrap(codec.KindMalformedCarrier, codec.RuleQRData, "record data is not base64", err)
	}
	sum, err := digest.SumAlg(rec.Alg, payload)
	if err != nil {
		return nil, err
	}
	alg := rec.Alg
	if alg == "" {
		alg = digest.SHA256
	}
	return &Decoded{
		Payload:      payload,
		Filename:     rec.Filename,
		Hash:         sum,
		EmbeddedHash: rec.Hash,
		Alg:          alg,
	}, nil
}

// scan returns the raw bytes of the first symbol found in img.
func scan(img []byte) ([]byte, error) {
	m, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, codec.Wrap(codec.KindMalformedCarrier, codec.RuleQRImage, "could not decode image", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(m)
	if err != nil {
		return nil, codec.Wrap(codec.KindMalformedCarrier, codec.RuleQRImage, "could not binarize image", err)
	}

	// Byte segments are read as ISO-8859-1 so every byte maps to one rune
	// and the symbol bytes can be recovered exactly.
	attempts := []map[gozxing.DecodeHintType]interface{}{
		{gozxing.DecodeHintType_CHARACTER_SET: "ISO-8859-1", gozxing.DecodeHintType_PURE_BARCODE: true},
		{gozxing.DecodeHintType_CHARACTER_SET: "ISO-8859-1", gozxing.DecodeHintType_TRY_HARDER: true},
	}
	reader := zxqr.NewQRCodeReader()
	var lastErr error
	for _, hints := range attempts {
		res, err := reader.Decode(bmp, hints)
		if err == nil {
			return latin1Bytes(res.GetText()), nil
		}
		lastErr = err
	}
	return nil, codec.Wrap(codec.KindMalformedCarrier, codec.RuleQRNoSymbol, "no QR code found in image", lastErr)
}

// decodeText tries UTF-8 first and ISO-8859-1 second.
func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", codec.Wrap(codec.KindUndecodableText, codec.RuleQRCharset, "could not decode symbol text", err)
	}
	return string(out), nil
}

// latin1Bytes maps each rune of s back to one byte. Text that carries runes
// outside ISO-8859-1 (ECI or kanji segments) is returned as its UTF-8 bytes.
func latin1Bytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return []byte(s)
		}
		out = append(out, byte(r))
	}
	return out
}
