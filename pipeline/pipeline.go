// Package pipeline sequences codec operations. Steps are echoed back as
// completed; no step transforms data yet.
package pipeline

import (
	"sort"
	"strings"
)

// Operation names a codec step.
type Operation string

const (
	EncodeNotes   Operation = "encode_notes"
	DecodeNotes   Operation = "decode_notes"
	EncodeNumeral Operation = "encode_numeral"
	DecodeNumeral Operation = "decode_numeral"
	EncodeQR      Operation = "encode_qr"
	DecodeQR      Operation = "decode_qr"
)

// aliases accepts the operation names older clients send.
var aliases = map[string]Operation{
	"encode_midi":  EncodeNotes,
	"decode_midi":  DecodeNotes,
	"encode_prime": EncodeNumeral,
	"decode_prime": DecodeNumeral,
}

var known = map[Operation]bool{
	EncodeNotes: true, DecodeNotes: true,
	EncodeNumeral: true, DecodeNumeral: true,
	EncodeQR: true, DecodeQR: true,
}

const StatusCompleted = "completed"

type Step struct {
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type StepResult struct {
	Operation  string         `json:"operation"`
	Status     string         `json:"status"`
	Parameters map[string]any `json:"parameters"`
}

type Result struct {
	Steps  []StepResult `json:"steps"`
	Status string       `json:"status"`
	// Stub is set while steps are echoed rather than executed.
	Stub bool `json:"stub"`
}

// Canonical resolves name, including legacy aliases.
func Canonical(name string) (Operation, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if op, ok := aliases[n]; ok {
		return op, true
	}
	op := Operation(n)
	return op, known[op]
}

// Operations lists the canonical operation names in sorted order.
func Operations() []string {
	out := make([]string, 0, len(known))
	for op := range known {
		out = append(out, string(op))
	}
	sort.Strings(out)
	return out
}

// Run reports every step as completed, names included verbatim. Callers that
// want to reject unknown operations check Canonical first.
func Run(steps []Step) *Result {
	out := &Result{Steps: make([]StepResult, 0, len(steps)), Status: StatusCompleted, Stub: true}
	for _, s := range steps {
		params := s.Parameters
		if params == nil {
			params = map[string]any{}
		}
		out.Steps = append(out.Steps, StepResult{Operation: s.Operation, Status: StatusCompleted, Parameters: params})
	}
	return out
}
