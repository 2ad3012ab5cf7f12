// Package codec holds the error taxonomy shared by the carrier codecs.
package codec

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindEmptyInput       Kind = "EmptyInput"
	KindInvalidEncoding  Kind = "InvalidEncoding"
	KindMalformedCarrier Kind = "MalformedCarrier"
	KindPayloadTooLarge  Kind = "PayloadTooLarge"
	KindUndecodableText  Kind = "UndecodableText"
	KindInternal         Kind = "Internal"
)

// Stable rule identifiers. RuleID names the violated constraint within a Kind.
const (
	RuleEmptyInput        = "TC-INPUT-001"
	RuleNumeralSyntax     = "TC-NUM-001"
	RuleNumeralTextLength = "TC-NUM-002"
	RuleNumeralPayload    = "TC-NUM-003"
	RuleNotesNoTracks     = "TC-NOTES-001"
	RuleNotesContainer    = "TC-NOTES-002"
	RuleNotesMode         = "TC-NOTES-003"
	RuleQRPayload         = "TC-QR-001"
	RuleQRCapacity        = "TC-QR-002"
	RuleQRNoSymbol        = "TC-QR-003"
	RuleQRImage           = "TC-QR-004"
	RuleQRCharset         = "TC-QR-005"
	RuleQRRecord          = "TC-QR-006"
	RuleQRData            = "TC-QR-007"
	RuleDigestAlg         = "TC-DIGEST-001"
)

// Error is the engine's structured error type.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a structured error without a cause.
func New(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// Wrap returns a structured error carrying cause. A nil cause behaves like New.
func Wrap(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return New(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
