// Package config loads daemon and CLI settings from a single file.
//
// Files ending in .json or .jsonc are read as JSON with comments and trailing
// commas allowed; anything else is read as YAML. Keys absent from the file
// keep their Default values. There is no discovery: the path comes from a
// flag or TRANSCODE_CONFIG.
//
// Example:
//
//	listen: 127.0.0.1:7878
//	log_level: debug
//	digest: blake3
//	numeral:
//	  max_text_length: 1048576
//	qr:
//	  module_pixels: 8
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"xdao.co/transcode/digest"
	"xdao.co/transcode/model"
	"xdao.co/transcode/notes"
	"xdao.co/transcode/numeral"
	"xdao.co/transcode/qr"
)

// EnvPath names the environment variable holding the config path.
const EnvPath = "TRANSCODE_CONFIG"

const DefaultListen = "127.0.0.1:7878"

type Config struct {
	Listen   string `yaml:"listen" json:"listen"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	Digest   string `yaml:"digest" json:"digest"`

	Numeral NumeralConfig `yaml:"numeral" json:"numeral"`
	QR      QRConfig      `yaml:"qr" json:"qr"`
	Notes   NotesConfig   `yaml:"notes" json:"notes"`
	GRPC    GRPCConfig    `yaml:"grpc" json:"grpc"`
}

type NumeralConfig struct {
	MaxPayloadBytes int `yaml:"max_payload_bytes" json:"max_payload_bytes"`
	MaxTextLength   int `yaml:"max_text_length" json:"max_text_length"`
	// MaxDecimalDigits switches encode output to hex past this many digits.
	// Zero means never.
	MaxDecimalDigits int `yaml:"max_decimal_digits" json:"max_decimal_digits"`
}

type QRConfig struct {
	MaxPayloadBytes int `yaml:"max_payload_bytes" json:"max_payload_bytes"`
	ModulePixels    int `yaml:"module_pixels" json:"module_pixels"`
}

type NotesConfig struct {
	TicksPerBeat int `yaml:"ticks_per_beat" json:"ticks_per_beat"`
	StepTicks    int `yaml:"step_ticks" json:"step_ticks"`
}

type GRPCConfig struct {
	MaxMsgBytes int `yaml:"max_msg_bytes" json:"max_msg_bytes"`
}

func Default() *Config {
	return &Config{
		Listen:   DefaultListen,
		LogLevel: "info",
		Digest:   digest.Default,
		Numeral: NumeralConfig{
			MaxPayloadBytes: numeral.DefaultMaxPayloadBytes,
			MaxTextLength:   numeral.DefaultMaxTextLength,
		},
		QR: QRConfig{
			MaxPayloadBytes: qr.DefaultMaxPayloadBytes,
			ModulePixels:    qr.DefaultModulePixels,
		},
		Notes: NotesConfig{
			TicksPerBeat: notes.DefaultTicksPerBeat,
			StepTicks:    notes.DefaultStepTicks,
		},
		GRPC: GRPCConfig{MaxMsgBytes: 16 << 20},
	}
}

// Load reads the file named by TRANSCODE_CONFIG, or returns Default when the
// variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty config path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("config: listen address is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if !digest.Supported(c.Digest) {
		return fmt.Errorf("config: unsupported digest %q (want one of %s)", c.Digest, strings.Join(digest.Algorithms(), ", "))
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"numeral.max_payload_bytes", c.Numeral.MaxPayloadBytes},
		{"numeral.max_text_length", c.Numeral.MaxTextLength},
		{"numeral.max_decimal_digits", c.Numeral.MaxDecimalDigits},
		{"qr.max_payload_bytes", c.QR.MaxPayloadBytes},
		{"qr.module_pixels", c.QR.ModulePixels},
		{"notes.step_ticks", c.Notes.StepTicks},
		{"grpc.max_msg_bytes", c.GRPC.MaxMsgBytes},
	} {
		if f.v < 0 {
			return fmt.Errorf("config: %s must not be negative", f.name)
		}
	}
	if c.Notes.TicksPerBeat < 0 || c.Notes.TicksPerBeat > 0x7fff {
		return fmt.Errorf("config: notes.ticks_per_beat %d out of range", c.Notes.TicksPerBeat)
	}
	if c.QR.MaxPayloadBytes > qr.DefaultMaxPayloadBytes {
		return fmt.Errorf("config: qr.max_payload_bytes %d exceeds the %d byte ceiling", c.QR.MaxPayloadBytes, qr.DefaultMaxPayloadBytes)
	}
	return nil
}

// SlogLevel parses LogLevel. An empty level is info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// Options converts the codec sections into service options.
func (c *Config) Options() model.Options {
	return model.Options{
		Digest: c.Digest,
		Numeral: numeral.Options{
			MaxPayloadBytes:  c.Numeral.MaxPayloadBytes,
			MaxTextLength:    c.Numeral.MaxTextLength,
			MaxDecimalDigits: c.Numeral.MaxDecimalDigits,
		},
		QR: qr.Options{
			MaxPayloadBytes: c.QR.MaxPayloadBytes,
			ModulePixels:    c.QR.ModulePixels,
			Digest:          c.Digest,
		},
		Notes: notes.Options{
			TicksPerBeat: uint16(c.Notes.TicksPerBeat),
			StepTicks:    uint32(c.Notes.StepTicks),
		},
	}
}
