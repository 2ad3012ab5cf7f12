package grpccodec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "xdao.transcode.v1.Codec"

// CodecServer is the server API for the Codec gRPC service.
//
// Every method takes and returns a BytesValue holding a CBOR-encoded model
// message, so this package needs no protoc/codegen toolchain.
type CodecServer interface {
	EncodeNotes(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	DecodeNotes(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	EncodeNumeral(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	DecodeNumeral(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	EncodeQR(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	DecodeQR(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Verify(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Pipeline(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Health(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

type unaryMethod func(CodecServer, context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)

// methods lists the RPCs in ServiceDesc order.
var methods = []struct {
	name string
	call unaryMethod
}{
	{"EncodeNotes", CodecServer.EncodeNotes},
	{"DecodeNotes", CodecServer.DecodeNotes},
	{"EncodeNumeral", CodecServer.EncodeNumeral},
	{"DecodeNumeral", CodecServer.DecodeNumeral},
	{"EncodeQR", CodecServer.EncodeQR},
	{"DecodeQR", CodecServer.DecodeQR},
	{"Verify", CodecServer.Verify},
	{"Pipeline", CodecServer.Pipeline},
	{"Health", CodecServer.Health},
}

// UnimplementedCodecServer can be embedded to have forward compatible implementations.
type UnimplementedCodecServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedCodecServer) EncodeNotes(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("EncodeNotes")
}
func (UnimplementedCodecServer) DecodeNotes(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("DecodeNotes")
}
func (UnimplementedCodecServer) EncodeNumeral(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("EncodeNumeral")
}
func (UnimplementedCodecServer) DecodeNumeral(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("DecodeNumeral")
}
func (UnimplementedCodecServer) EncodeQR(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("EncodeQR")
}
func (UnimplementedCodecServer) DecodeQR(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("DecodeQR")
}
func (UnimplementedCodecServer) Verify(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("Verify")
}
func (UnimplementedCodecServer) Pipeline(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("Pipeline")
}
func (UnimplementedCodecServer) Health(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, unimplemented("Health")
}

// RegisterCodecServer registers the Codec service on a gRPC server.
func RegisterCodecServer(s grpc.ServiceRegistrar, srv CodecServer) {
	s.RegisterService(&Codec_ServiceDesc, srv)
}

// CodecClient is the client API for the Codec gRPC service. Method names
// match CodecServer.
type CodecClient interface {
	Invoke(ctx context.Context, method string, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type codecClient struct{ cc grpc.ClientConnInterface }

func NewCodecClient(cc grpc.ClientConnInterface) CodecClient { return &codecClient{cc: cc} }

func (c *codecClient) Invoke(ctx context.Context, method string, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

func handler(name string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.BytesValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CodecServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CodecServer), ctx, req.(*wrapperspb.BytesValue))
		}
		return interceptor(ctx, in, info, h)
	}
}

func methodDescs() []grpc.MethodDesc {
	out := make([]grpc.MethodDesc, 0, len(methods))
	for _, m := range methods {
		out = append(out, grpc.MethodDesc{MethodName: m.name, Handler: handler(m.name, m.call)})
	}
	return out
}

// Codec_ServiceDesc is the grpc.ServiceDesc for Codec service.
var Codec_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CodecServer)(nil),
	Methods:     methodDescs(),
	Streams:     []grpc.StreamDesc{},
	Metadata:    "codec.proto",
}
