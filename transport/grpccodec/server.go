package grpccodec

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/transcode/internal/wire"
	"xdao.co/transcode/model"
)

// Server exposes a model.Service over the Codec gRPC service.
type Server struct {
	UnimplementedCodecServer
	Service model.Service
}

func (s *Server) EncodeNotes(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.EncodeNotes)
}

func (s *Server) DecodeNotes(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.DecodeNotes)
}

func (s *Server) EncodeNumeral(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.EncodeNumeral)
}

func (s *Server) DecodeNumeral(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.DecodeNumeral)
}

func (s *Server) EncodeQR(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.EncodeQR)
}

func (s *Server) DecodeQR(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.DecodeQR)
}

func (s *Server) Verify(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.Verify)
}

func (s *Server) Pipeline(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	return serve(ctx, in, s.Service.Pipeline)
}

func (s *Server) Health(ctx context.Context, _ *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Service == nil {
		return nil, errMissingService
	}
	resp, err := s.Service.Health(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return reply(resp)
}

var errMissingService = status.Error(codes.FailedPrecondition, "missing service")

// serve decodes the request, runs fn, and encodes its response.
func serve[Req, Resp any](ctx context.Context, in *wrapperspb.BytesValue, fn func(context.Context, *Req) (*Resp, error)) (*wrapperspb.BytesValue, error) {
	req := new(Req)
	if err := wire.Unmarshal(in.GetValue(), req); err != nil {
		return nil, mapErr(model.NewError(model.ErrInvalidRequest, "malformed request: "+err.Error()))
	}
	resp, err := fn(ctx, req)
	if err != nil {
		return nil, mapErr(err)
	}
	return reply(resp)
}

func reply(v any) (*wrapperspb.BytesValue, error) {
	b, err := wire.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response: "+err.Error())
	}
	return wrapperspb.Bytes(b), nil
}
