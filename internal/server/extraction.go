package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/report"
)

// ExtractMethod is the full gRPC method name.
const ExtractMethod = "/soilreport.v1.ExtractionService/Extract"

// ExtractionServer takes the raw document bytes and answers with the
// {"nutrients": [...]} body as a Struct.
type ExtractionServer interface {
	Extract(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
}

type ExtractionService struct {
	x extractor
}

func NewExtractionService(proc Processor, timeout time.Duration, logger *slog.Logger) *ExtractionService {
	return &ExtractionService{x: newExtractor(proc, timeout, logger)}
}

func (s *ExtractionService) Extract(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	resp, err := s.x.extract(ctx, "", req.GetValue())
	if err != nil {
		return nil, common.GRPCStatus(err)
	}
	m, err := report.ToMap(resp)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

func RegisterExtractionServer(s grpc.ServiceRegistrar, srv ExtractionServer) {
	s.RegisterService(&ExtractionServiceDesc, srv)
}

func extractHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtractionServer).Extract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ExtractMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ExtractionServer).Extract(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ExtractionServiceDesc is written by hand: the service only uses
// well-known request and response types.
var ExtractionServiceDesc = grpc.ServiceDesc{
	ServiceName: "soilreport.v1.ExtractionService",
	HandlerType: (*ExtractionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: extractHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "soilreport/v1/extraction.proto",
}

// ExtractionClient calls a remote ExtractionService.
type ExtractionClient struct {
	cc grpc.ClientConnInterface
}

func NewExtractionClient(cc grpc.ClientConnInterface) *ExtractionClient {
	return &ExtractionClient{cc: cc}
}

func (c *ExtractionClient) Extract(ctx context.Context, doc []byte, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ExtractMethod, wrapperspb.Bytes(doc), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
