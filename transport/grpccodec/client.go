package grpccodec

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/transcode/internal/wire"
	"xdao.co/transcode/model"
)

// Client implements model.Service over a Codec gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client CodecClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ model.Service = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection. The caller keeps ownership of cc
// unless it calls Close.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewCodecClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) EncodeNotes(ctx context.Context, req *model.EncodeNotesRequest) (*model.EncodeNotesResponse, error) {
	return call[model.EncodeNotesResponse](ctx, c, "EncodeNotes", req)
}

func (c *Client) DecodeNotes(ctx context.Context, req *model.DecodeNotesRequest) (*model.DecodeResponse, error) {
	return call[model.DecodeResponse](ctx, c, "DecodeNotes", req)
}

func (c *Client) EncodeNumeral(ctx context.Context, req *model.EncodeNumeralRequest) (*model.EncodeNumeralResponse, error) {
	return call[model.EncodeNumeralResponse](ctx, c, "EncodeNumeral", req)
}

func (c *Client) DecodeNumeral(ctx context.Context, req *model.DecodeNumeralRequest) (*model.DecodeResponse, error) {
	return call[model.DecodeResponse](ctx, c, "DecodeNumeral", req)
}

func (c *Client) EncodeQR(ctx context.Context, req *model.EncodeQRRequest) (*model.EncodeQRResponse, error) {
	return call[model.EncodeQRResponse](ctx, c, "EncodeQR", req)
}

func (c *Client) DecodeQR(ctx context.Context, req *model.DecodeQRRequest) (*model.DecodeResponse, error) {
	return call[model.DecodeResponse](ctx, c, "DecodeQR", req)
}

func (c *Client) Verify(ctx context.Context, req *model.VerifyRequest) (*model.VerifyResponse, error) {
	return call[model.VerifyResponse](ctx, c, "Verify", req)
}

func (c *Client) Pipeline(ctx context.Context, req *model.PipelineRequest) (*model.PipelineResponse, error) {
	return call[model.PipelineResponse](ctx, c, "Pipeline", req)
}

func (c *Client) Health(ctx context.Context) (*model.HealthResponse, error) {
	return call[model.HealthResponse](ctx, c, "Health", struct{}{})
}

func call[Resp any](ctx context.Context, c *Client, method string, req any) (*Resp, error) {
	if c == nil || c.client == nil {
		return nil, model.NewError(model.ErrInternal, "client not connected")
	}
	b, err := wire.Marshal(req)
	if err != nil {
		return nil, model.NewError(model.ErrInvalidRequest, "encode request: "+err.Error())
	}

	ctx, cancel := c.ctx(ctx)
	defer cancel()

	reply, err := c.client.Invoke(ctx, method, wrapperspb.Bytes(b))
	if err != nil {
		return nil, mapRPC(err)
	}
	out := new(Resp)
	if err := wire.Unmarshal(reply.GetValue(), out); err != nil {
		return nil, model.NewError(model.ErrInternal, "decode response: "+err.Error())
	}
	return out, nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
