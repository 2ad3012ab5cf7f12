package verify

import (
	"strings"
	"testing"
)

func TestVerify(t *testing.T) {
	cases := []struct {
		name   string
		a, b   string
		want   Result
		wantOK bool
	}{
		{"case insensitive", strings.Repeat("A", 64), strings.Repeat("a", 64), Result{Verified: true, Match: true}, true},
		{"equal but short", strings.Repeat("A", 63), strings.Repeat("A", 63), Result{Verified: false, Match: true}, false},
		{"different", strings.Repeat("A", 64), strings.Repeat("B", 64), Result{Verified: true, Match: false}, false},
		{"one malformed", strings.Repeat("a", 64), strings.Repeat("a", 65), Result{}, false},
		{"both empty", "", "", Result{Match: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Verify(tc.a, tc.b)
			if got != tc.want {
				t.Fatalf("Verify = %+v, want %+v", got, tc.want)
			}
			if got.OK() != tc.wantOK {
				t.Fatalf("OK = %v", got.OK())
			}
		})
	}
}
