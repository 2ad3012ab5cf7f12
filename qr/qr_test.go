package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/skip2/go-qrcode"

	"xdao.co/transcode/codec"
	"xdao.co/transcode/digest"
	"xdao.co/transcode/frame"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("hello, carrier\x00\x01\x02\xff")
	img, err := Encode(payload, "greeting.bin", Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if img.Version < 1 || img.Version > 40 {
		t.Fatalf("version = %d", img.Version)
	}
	if img.Alg != digest.SHA256 || img.Hash != digest.Sum(payload) {
		t.Fatalf("image digest = %s %s", img.Alg, img.Hash)
	}
	if !bytes.HasPrefix(img.PNG, []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}

	got, err := Decode(img.PNG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Fatalf("payload mismatch: %x", got.Payload)
	}
	if got.Filename != "greeting.bin" {
		t.Fatalf("filename = %q", got.Filename)
	}
	if !got.Intact() || got.EmbeddedHash != img.Hash {
		t.Fatalf("hash %s embedded %s", got.Hash, got.EmbeddedHash)
	}
}

func TestEncodeAlternateDigest(t *testing.T) {
	payload := []byte("blake3 record")
	img, err := Encode(payload, "b.txt", Options{Digest: digest.BLAKE3, ModulePixels: 6})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(img.PNG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Alg != digest.BLAKE3 || !got.Intact() {
		t.Fatalf("decoded alg %s intact=%v", got.Alg, got.Intact())
	}
}

func TestEncodeNonASCIIFilename(t *testing.T) {
	img, err := Encode([]byte("x"), "résumé 📄.txt", Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(img.PNG)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Filename != "résumé 📄.txt" {
		t.Fatalf("filename = %q", got.Filename)
	}
}

func TestEncodePayloadCeiling(t *testing.T) {
	_, err := Encode(make([]byte, 600*1024), "big.bin", Options{})
	if !codec.IsKind(err, codec.KindPayloadTooLarge) || codec.RuleID(err) != codec.RuleQRPayload {
		t.Fatalf("err = %v", err)
	}
}

func TestEncodeCapacity(t *testing.T) {
	// Under the ceiling but well past what version 40 holds.
	_, err := Encode(make([]byte, 8*1024), "big.bin", Options{})
	if !codec.IsKind(err, codec.KindPayloadTooLarge) || codec.RuleID(err) != codec.RuleQRCapacity {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeMismatchedHashIsNotAnError(t *testing.T) {
	text := `{"filename":"a.bin","hash":"` + strings.Repeat("0", 64) + `","data":"aGk="}`
	img := renderText(t, text)

	got, err := Decode(img)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got.Payload) != "hi" {
		t.Fatalf("payload = %q", got.Payload)
	}
	if got.Intact() {
		t.Fatalf("expected digest mismatch")
	}
	if got.Hash != digest.Sum([]byte("hi")) {
		t.Fatalf("recomputed hash = %s", got.Hash)
	}
}

func TestDecodeDefaults(t *testing.T) {
	got, err := Decode(renderText(t, `{"data":"aGk="}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Filename != frame.LegacyFilename || got.EmbeddedHash != "" {
		t.Fatalf("got filename %q hash %q", got.Filename, got.EmbeddedHash)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		img  []byte
		kind codec.Kind
		rule string
	}{
		{"not an image", []byte("plain text"), codec.KindMalformedCarrier, codec.RuleQRImage},
		{"blank image", blankPNG(t), codec.KindMalformedCarrier, codec.RuleQRNoSymbol},
		{"not json", renderText(t, "just words"), codec.KindMalformedCarrier, codec.RuleQRRecord},
		{"missing data", renderText(t, `{"filename":"a"}`), codec.KindMalformedCarrier, codec.RuleQRData},
		{"bad base64", renderText(t, `{"data":"!!!"}`), codec.KindMalformedCarrier, codec.RuleQRData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.img)
			if !codec.IsKind(err, tc.kind) || codec.RuleID(err) != tc.rule {
				t.Fatalf("err = %v (rule %s), want %s", err, codec.RuleID(err), tc.rule)
			}
		})
	}
}

func TestMarshalRecordEscapesNonASCII(t *testing.T) {
	b, err := MarshalRecord(Record{Filename: "é😀", Hash: "h", Data: "d"})
	if err != nil {
		t.Fatalf("MarshalRecord: %v", err)
	}
	want := `{"filename":"\u00e9\ud83d\ude00","hash":"h","data":"d"}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
	r, err := ParseRecord(string(b))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if diff := cmp.Diff(Record{Filename: "é😀", Hash: "h", Data: "d"}, r); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecordUnsupportedAlg(t *testing.T) {
	_, err := ParseRecord(`{"data":"","alg":"md5"}`)
	if codec.RuleID(err) != codec.RuleQRRecord {
		t.Fatalf("err = %v", err)
	}
}

func TestDecodeTextFallsBackToLatin1(t *testing.T) {
	got, err := decodeText([]byte{'c', 'a', 'f', 0xe9})
	if err != nil {
		t.Fatalf("decodeText: %v", err)
	}
	if got != "café" {
		t.Fatalf("got %q", got)
	}
	got, err = decodeText([]byte("caf\xc3\xa9"))
	if err != nil || got != "café" {
		t.Fatalf("utf-8 path: %q %v", got, err)
	}
}

func TestLatin1Bytes(t *testing.T) {
	if got := latin1Bytes("café"); !bytes.Equal(got, []byte{'c', 'a', 'f', 0xe9}) {
		t.Fatalf("got %x", got)
	}
	if got := latin1Bytes("漢"); string(got) != "漢" {
		t.Fatalf("got %x", got)
	}
}

func renderText(t *testing.T, text string) []byte {
	t.Helper()
	q, err := qrcode.New(text, qrcode.Low)
	if err != nil {
		t.Fatalf("qrcode.New: %v", err)
	}
	b, err := q.PNG(-8)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	return b
}

func blankPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 120, 120))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}
