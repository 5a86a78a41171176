package server

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ec429/hbuilder/internal/hangar"
)

// CalculatorServer is the hbuilder.Calculator gRPC service. Requests are
// {"record": <design record>, "parent": <stored design name>}; responses
// are the JSON form of Result.
type CalculatorServer interface {
	Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

const calculateMethod = "/hbuilder.Calculator/Calculate"

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: "hbuilder.Calculator",
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Calculate", Handler: calculateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hbuilder/calculator.proto",
}

func calculateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Calculate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: calculateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalculatorServer).Calculate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

// CalculatorClient calls a remote hbuilder.Calculator.
type CalculatorClient struct {
	cc grpc.ClientConnInterface
}

func NewCalculatorClient(cc grpc.ClientConnInterface) *CalculatorClient {
	return &CalculatorClient{cc: cc}
}

func (c *CalculatorClient) Calculate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, calculateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// grpcCalculator adapts Server to CalculatorServer.
type grpcCalculator struct {
	s *Server
}

func (g grpcCalculator) Calculate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	text := fields["record"].GetStringValue()
	if text == "" {
		return nil, status.Error(codes.InvalidArgument, "record is required")
	}
	b, err := g.s.Evaluate(ctx, text, fields["parent"].GetStringValue())
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(NewResult(b))
}

// RegisterGRPC registers the calculator service on gs.
func (s *Server) RegisterGRPC(gs grpc.ServiceRegistrar) {
	RegisterCalculatorServer(gs, grpcCalculator{s: s})
}

func grpcError(err error) error {
	switch {
	case isBadInput(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, hangar.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case isUnprocessable(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}
