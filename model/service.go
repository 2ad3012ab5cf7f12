package model

import "context"

// Service is the codec surface exposed to transports. Local implements it
// in-process; transport clients implement it remotely.
type Service interface {
	EncodeNotes(ctx context.Context, req *EncodeNotesRequest) (*EncodeNotesResponse, error)
	DecodeNotes(ctx context.Context, req *DecodeNotesRequest) (*DecodeResponse, error)
	EncodeNumeral(ctx context.Context, req *EncodeNumeralRequest) (*EncodeNumeralResponse, error)
	DecodeNumeral(ctx context.Context, req *DecodeNumeralRequest) (*DecodeResponse, error)
	EncodeQR(ctx context.Context, req *EncodeQRRequest) (*EncodeQRResponse, error)
	DecodeQR(ctx context.Context, req *DecodeQRRequest) (*DecodeResponse, error)
	Verify(ctx context.Context, req *VerifyRequest) (*VerifyResponse, error)
	Pipeline(ctx context.Context, req *PipelineRequest) (*PipelineResponse, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

const ServiceName = "TransCode API"
