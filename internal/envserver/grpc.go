package envserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/env"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jetpack.v1.EnvService"

// EnvServiceServer is the gRPC surface. Payloads are google.protobuf.Struct
// values carrying the same JSON documents as the HTTP API.
type EnvServiceServer interface {
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Step(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Close(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// EnvServiceDesc describes the service for grpc.Server.RegisterService.
var EnvServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EnvServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: unaryHandler("Create", EnvServiceServer.Create)},
		{MethodName: "Reset", Handler: unaryHandler("Reset", EnvServiceServer.Reset)},
		{MethodName: "Step", Handler: unaryHandler("Step", EnvServiceServer.Step)},
		{MethodName: "Close", Handler: unaryHandler("Close", EnvServiceServer.Close)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jetpack/v1/env.proto",
}

type unaryMethod func(EnvServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EnvServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EnvServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterEnvService attaches the manager to a gRPC server.
func RegisterEnvService(s grpc.ServiceRegistrar, m *Manager) {
	s.RegisterService(&EnvServiceDesc, &grpcService{manager: m})
}

type grpcService struct {
	manager *Manager
}

// sessionRef names the target session in reset, step and close requests.
type sessionRef struct {
	ID string `json:"id"`
}

func (g *grpcService) Create(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	_, resp, err := g.manager.Create(req)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(resp)
}

func (g *grpcService) Reset(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		sessionRef
		ResetRequest
	}
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	s, err := g.manager.Get(req.ID)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(s.Reset(req.ResetRequest))
}

func (g *grpcService) Step(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		sessionRef
		StepRequest
	}
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	s, err := g.manager.Get(req.ID)
	if err != nil {
		return nil, grpcError(err)
	}
	t, err := s.Step(req.StepRequest)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(t)
}

func (g *grpcService) Close(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRef
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if err := g.manager.Close(req.ID); err != nil {
		return nil, grpcError(err)
	}
	return &structpb.Struct{}, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, core.ErrInvalidAction):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrTooManySessions):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct converts a JSON-serializable value into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

// fromStruct decodes a Struct into v through its JSON form.
func fromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("invalid request: %v", err))
	}
	return nil
}

// EnvClient is a thin client for the gRPC service.
type EnvClient struct {
	cc grpc.ClientConnInterface
}

// NewEnvClient wraps a connection.
func NewEnvClient(cc grpc.ClientConnInterface) *EnvClient {
	return &EnvClient{cc: cc}
}

func (c *EnvClient) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return fromStruct(out, resp)
}

// Create opens a session.
func (c *EnvClient) Create(ctx context.Context, req CreateRequest) (ResetResponse, error) {
	var resp ResetResponse
	err := c.invoke(ctx, "Create", req, &resp)
	return resp, err
}

// Reset starts a new episode in a session.
func (c *EnvClient) Reset(ctx context.Context, id string, req ResetRequest) (ResetResponse, error) {
	var resp ResetResponse
	err := c.invoke(ctx, "Reset", struct {
		sessionRef
		ResetRequest
	}{sessionRef{id}, req}, &resp)
	return resp, err
}

// Step applies one action.
func (c *EnvClient) Step(ctx context.Context, id string, action []float64) (env.Transition, error) {
	var resp env.Transition
	err := c.invoke(ctx, "Step", struct {
		sessionRef
		StepRequest
	}{sessionRef{id}, StepRequest{Action: action}}, &resp)
	return resp, err
}

// Close ends a session.
func (c *EnvClient) Close(ctx context.Context, id string) error {
	return c.invoke(ctx, "Close", sessionRef{id}, nil)
}
