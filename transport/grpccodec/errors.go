package grpccodec

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/transcode/model"
)

// mapErr converts a service error to a status. The coded error travels in
// the status details as two StringValues: code, then rule ID.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	ce := model.FromError(err)
	st := status.New(statusCode(ce.Code), ce.Message)
	if withDetails, derr := st.WithDetails(wrapperspb.String(string(ce.Code)), wrapperspb.String(ce.RuleID)); derr == nil {
		st = withDetails
	}
	return st.Err()
}

func statusCode(code model.ErrorCode) codes.Code {
	switch code {
	case model.ErrEmptyInput, model.ErrInvalidEncoding, model.ErrMalformedCarrier,
		model.ErrUndecodableText, model.ErrInvalidRequest:
		return codes.InvalidArgument
	case model.ErrPayloadTooLarge:
		return codes.ResourceExhausted
	case model.ErrCanceled:
		return codes.Canceled
	default:
		return codes.Internal
	}
}

// mapRPC recovers the coded error sent by mapErr. Statuses from other
// servers are mapped by code alone.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	ce := &model.CodedError{Message: st.Message()}
	var fields []string
	for _, d := range st.Details() {
		if sv, ok := d.(*wrapperspb.StringValue); ok {
			fields = append(fields, sv.GetValue())
		}
	}
	if len(fields) > 0 && fields[0] != "" {
		ce.Code = model.ErrorCode(fields[0])
		if len(fields) > 1 {
			ce.RuleID = fields[1]
		}
		return ce
	}

	switch st.Code() {
	case codes.InvalidArgument:
		ce.Code = model.ErrInvalidRequest
	case codes.ResourceExhausted:
		ce.Code = model.ErrPayloadTooLarge
	case codes.Canceled, codes.DeadlineExceeded:
		ce.Code = model.ErrCanceled
	default:
		ce.Code = model.ErrInternal
	}
	return ce
}
