// Package digest computes the content digests carried as integrity metadata
// by every codec.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	"xdao.co/transcode/codec"
)

// Supported digest algorithms. Each produces a 256-bit digest.
const (
	SHA256  = "sha256"
	SHA3256 = "sha3-256"
	BLAKE3  = "blake3"
)

// Default is the algorithm used when none is named.
const Default = SHA256

// HexLength is the length of a well-formed hex digest.
const HexLength = 64

// Algorithms lists the supported algorithm names in a fixed order.
func Algorithms() []string { return []string{SHA256, SHA3256, BLAKE3} }

// Sum returns the lowercase hex sha256 digest of data.
func Sum(data []byte) string {
	s := sha256.Sum256(data)
	return hex.EncodeToString(s[:])
}

// SumAlg returns the lowercase hex digest of data under alg.
// An empty alg selects Default.
func SumAlg(alg string, data []byte) (string, error) {
	raw, err := digestFor(alg, data)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Supported reports whether alg names a known algorithm. "" is accepted.
func Supported(alg string) bool {
	_, err := digestFor(alg, nil)
	return err == nil
}

// WellFormed reports whether s has the length of a hex digest.
// The character set is not inspected.
func WellFormed(s string) bool { return len(s) == HexLength }

// Equal reports whether two hex digests match case-insensitively.
func Equal(a, b string) bool { return strings.EqualFold(a, b) }

func digestFor(alg string, data []byte) ([]byte, error) {
	switch alg {
	case "", SHA256:
		s := sha256.Sum256(data)
		return s[:], nil
	case SHA3256:
		s := sha3.Sum256(data)
		return s[:], nil
	case BLAKE3:
		s := blake3.Sum256(data)
		return s[:], nil
	default:
		return nil, codec.New(codec.KindInvalidEncoding, codec.RuleDigestAlg, fmt.Sprintf("unsupported digest algorithm: %q", alg))
	}
}

func hexString(b []byte) string { return hex.EncodeToString(b) }
