package numeral

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"xdao.co/transcode/codec"
	"xdao.co/transcode/frame"
)

func TestRender_Decimal(t *testing.T) {
	cases := []struct {
		buf  []byte
		want string
	}{
		{nil, "0"},
		{[]byte{0xff}, "255"},
		{[]byte{0x01, 0x00}, "256"},
		{[]byte{0x00, 0x01, 0x00}, "256"},
	}
	for _, tc := range cases {
		got := Render(tc.buf, Options{})
		if got.Base != 10 || got.Text != tc.want {
			t.Fatalf("Render(%x): got %+v want %s", tc.buf, got, tc.want)
		}
	}
}

func TestParse_ExactWhenLeadingByteNonZero(t *testing.T) {
	bufs := [][]byte{
		{0x01},
		{0xff, 0x00, 0x00},
		{0x80, 0x01, 0x02, 0x03, 0x00},
		bytes.Repeat([]byte{0xa5}, 4096),
	}
	for _, buf := range bufs {
		enc := Render(buf, Options{})
		got, err := Parse(enc.Text, Options{})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if !bytes.Equal(got, buf) {
			t.Fatalf("round trip mismatch for %x", buf[:1])
		}
	}
}

func TestParse_LeadingZerosAreLost(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x07, 0x08}
	got, err := Parse(Render(buf, Options{}).Text, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(got, []byte{0x07, 0x08}) {
		t.Fatalf("expected minimal big-endian form, got %x", got)
	}
}

func TestEncodeDecode_OrdinaryFilenameTakesLegacyBranch(t *testing.T) {
	payload := []byte("abc")
	enc, err := Encode(payload, "a.txt", Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if enc.Base != 10 {
		t.Fatalf("expected base 10, got %d", enc.Base)
	}
	res, err := Decode(enc.Text, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	framed := frame.Frame(payload, "a.txt")
	if res.Layout != frame.LegacyRaw || res.Filename != frame.LegacyFilename {
		t.Fatalf("expected legacy result, got %s %q", res.Layout, res.Filename)
	}
	if !bytes.Equal(res.Payload, framed[3:]) {
		t.Fatalf("expected framed buffer without leading zero bytes, got %x", res.Payload)
	}
}

func TestDecode_UnframedLegacyTextIsExact(t *testing.T) {
	legacy := []byte("\x89PNG legacy blob")
	res, err := Decode(Render(legacy, Options{}).Text, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Layout != frame.LegacyRaw || !bytes.Equal(res.Payload, legacy) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestDecode_Zero(t *testing.T) {
	res, err := Decode("0", Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Layout != frame.LegacyRaw || len(res.Payload) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRender_HexFallback(t *testing.T) {
	buf := []byte{0xab, 0xcd, 0xef}
	enc := Render(buf, Options{MaxDecimalDigits: 3})
	if enc.Base != 16 || enc.Text != "abcdef" {
		t.Fatalf("expected hex fallback, got %+v", enc)
	}
	got, err := Parse(enc.Text, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(got, buf) {
		t.Fatalf("hex round trip mismatch: %x", got)
	}
}

func TestParse_DecimalWinsForAmbiguousText(t *testing.T) {
	enc := Render([]byte{0x12, 0x34}, Options{MaxDecimalDigits: 1})
	if enc.Text != "1234" || enc.Base != 16 {
		t.Fatalf("unexpected encoding %+v", enc)
	}
	got, err := Parse(enc.Text, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// 1234 decimal = 0x04d2.
	if !bytes.Equal(got, []byte{0x04, 0xd2}) {
		t.Fatalf("expected decimal interpretation, got %x", got)
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	got, err := Parse("  256\n", Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x00}) {
		t.Fatalf("unexpected bytes %x", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "12z", "-5", "+", "+-5", "0x10", "1 2"} {
		_, err := Parse(s, Options{})
		if !codec.IsKind(err, codec.KindInvalidEncoding) {
			t.Fatalf("Parse(%q): expected KindInvalidEncoding, got %v", s, err)
		}
	}
}

func TestLimits(t *testing.T) {
	_, err := Parse(strings.Repeat("9", 11), Options{MaxTextLength: 10})
	if !codec.IsKind(err, codec.KindPayloadTooLarge) || codec.RuleID(err) != codec.RuleNumeralTextLength {
		t.Fatalf("expected text length rejection, got %v", err)
	}
	_, err = Encode(make([]byte, 11), "f", Options{MaxPayloadBytes: 10})
	if !codec.IsKind(err, codec.KindPayloadTooLarge) || codec.RuleID(err) != codec.RuleNumeralPayload {
		t.Fatalf("expected payload rejection, got %v", err)
	}
}

func TestDecimalDigits_Exact(t *testing.T) {
	bufs := [][]byte{{0x00}, {0x01}, {0x09}, {0x0a}, {0x40}, {0x63}, {0x64}, {0x03, 0xe8}, {0xff, 0xff}, bytes.Repeat([]byte{0xff}, 64)}
	for i := 0; i < 256; i++ {
		bufs = append(bufs, []byte{byte(i)}, []byte{byte(i), 0xff})
	}
	for _, buf := range bufs {
		n := new(big.Int).SetBytes(buf)
		if got, want := decimalDigits(n), len(n.Text(10)); got != want {
			t.Fatalf("decimalDigits(%s) = %d, want %d", n, got, want)
		}
	}
}

func TestRender_StaysDecimalAtDigitLimit(t *testing.T) {
	// 64 has two decimal digits; its hex form "40" would parse back as forty.
	enc := Render([]byte{64}, Options{MaxDecimalDigits: 2})
	if enc.Base != 10 || enc.Text != "64" {
		t.Fatalf("Render = %+v, want decimal 64", enc)
	}
	got, err := Parse(enc.Text, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(got, []byte{64}) {
		t.Fatalf("Parse = %x", got)
	}
	if enc := Render([]byte{0x03, 0xe8}, Options{MaxDecimalDigits: 3}); enc.Base != 16 {
		t.Fatalf("1000 should exceed three digits: %+v", enc)
	}
}

func TestParse_LeadingPlus(t *testing.T) {
	for s, want := range map[string][]byte{"+5": {0x05}, "+ff": {0xff}, " +256 ": {0x01, 0x00}} {
		got, err := Parse(s, Options{})
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Parse(%q) = %x, want %x", s, got, want)
		}
	}
}
