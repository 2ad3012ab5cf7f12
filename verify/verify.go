// Package verify compares an original digest with the digest of decoded
// content.
package verify

import "xdao.co/transcode/digest"

// Result reports digest agreement. Match and Verified are independent: two
// identical malformed strings match without being verified.
type Result struct {
	// Verified is true when both inputs are well-formed digests.
	Verified bool `json:"verified"`
	// Match is true when the inputs are equal ignoring case.
	Match bool `json:"match"`
}

// OK reports whether the pair is both well-formed and equal.
func (r Result) OK() bool { return r.Verified && r.Match }

// Verify compares two hex digests, typically the one computed before encoding
// and the one recomputed after decoding.
func Verify(original, decoded string) Result {
	return Result{
		Verified: digest.WellFormed(original) && digest.WellFormed(decoded),
		Match:    digest.Equal(original, decoded),
	}
}
