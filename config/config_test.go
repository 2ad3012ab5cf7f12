package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"xdao.co/transcode/digest"
	"xdao.co/transcode/notes"
	"xdao.co/transcode/numeral"
	"xdao.co/transcode/qr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate: %v", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "transcode.yaml", `
listen: 0.0.0.0:9000
log_level: debug
digest: blake3
numeral:
  max_decimal_digits: 4096
qr:
  module_pixels: 6
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := Default()
	want.Listen = "0.0.0.0:9000"
	want.LogLevel = "debug"
	want.Digest = digest.BLAKE3
	want.Numeral.MaxDecimalDigits = 4096
	want.QR.ModulePixels = 6
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	lvl, err := cfg.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Fatalf("SlogLevel = %v, %v", lvl, err)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeFile(t, "transcode.jsonc", `{
  // daemon address
  "listen": "127.0.0.1:1234",
  "notes": {"ticks_per_beat": 960, "step_ticks": 60,},
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listen != "127.0.0.1:1234" || cfg.Notes.TicksPerBeat != 960 || cfg.Notes.StepTicks != 60 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Digest != digest.Default {
		t.Fatalf("digest default lost: %q", cfg.Digest)
	}
}

func TestLoadFileErrors(t *testing.T) {
	cases := []struct {
		name, file, content, want string
	}{
		{"bad digest", "c.yaml", "digest: md5\n", "unsupported digest"},
		{"bad level", "c.yaml", "log_level: loud\n", "invalid log_level"},
		{"negative", "c.yaml", "qr:\n  module_pixels: -1\n", "qr.module_pixels"},
		{"qr ceiling", "c.yaml", "qr:\n  max_payload_bytes: 600000\n", "qr.max_payload_bytes"},
		{"ticks range", "c.json", `{"notes":{"ticks_per_beat":40000}}`, "ticks_per_beat"},
		{"empty listen", "c.yaml", "listen: \"\"\n", "listen"},
		{"syntax", "c.json", `{"listen":`, "parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tc.file, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load()
	if err != nil || cfg.Listen != DefaultListen {
		t.Fatalf("Load without env = %+v, %v", cfg, err)
	}

	t.Setenv(EnvPath, writeFile(t, "env.yml", "listen: 10.0.0.1:1\n"))
	cfg, err = Load()
	if err != nil || cfg.Listen != "10.0.0.1:1" {
		t.Fatalf("Load with env = %+v, %v", cfg, err)
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Digest = digest.SHA3256
	cfg.Numeral.MaxDecimalDigits = 10
	got := cfg.Options()

	if got.Digest != digest.SHA3256 || got.QR.Digest != digest.SHA3256 {
		t.Fatalf("digest not propagated: %+v", got)
	}
	if diff := cmp.Diff(numeral.Options{
		MaxPayloadBytes:  numeral.DefaultMaxPayloadBytes,
		MaxTextLength:    numeral.DefaultMaxTextLength,
		MaxDecimalDigits: 10,
	}, got.Numeral); diff != "" {
		t.Fatalf("numeral options (-want +got):\n%s", diff)
	}
	if got.QR.ModulePixels != qr.DefaultModulePixels || got.Notes.TicksPerBeat != notes.DefaultTicksPerBeat {
		t.Fatalf("options = %+v", got)
	}
}
