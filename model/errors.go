package model

import (
	"context"
	"errors"
	"fmt"

	"xdao.co/transcode/codec"
)

type ErrorCode string

const (
	ErrEmptyInput       ErrorCode = "EMPTY_INPUT"
	ErrInvalidEncoding  ErrorCode = "INVALID_ENCODING"
	ErrMalformedCarrier ErrorCode = "MALFORMED_CARRIER"
	ErrPayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrUndecodableText  ErrorCode = "UNDECODABLE_TEXT"
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCanceled         ErrorCode = "CANCELED"
	ErrInternal         ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human message.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// RuleID is the codec rule that failed, when one applies.
	RuleID string `json:"ruleID,omitempty"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// CodeOf returns the code carried by err, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrInternal
}

// FromError maps engine errors onto coded errors. Coded errors pass through.
func FromError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewError(ErrCanceled, err.Error())
	}
	var code ErrorCode
	switch codec.KindOf(err) {
	case codec.KindEmptyInput:
		code = ErrEmptyInput
	case codec.KindInvalidEncoding:
		code = ErrInvalidEncoding
	case codec.KindMalformedCarrier:
		code = ErrMalformedCarrier
	case codec.KindPayloadTooLarge:
		code = ErrPayloadTooLarge
	case codec.KindUndecodableText:
		code = ErrUndecodableText
	default:
		code = ErrInternal
	}
	return &CodedError{Code: code, Message: err.Error(), RuleID: codec.RuleID(err)}
}
