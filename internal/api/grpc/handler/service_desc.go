package handler

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AuthServiceName = "auth.v1.Auth"
	MetaServiceName = "auth.v1.Meta"

	AuthRegisterFullMethod = "/" + AuthServiceName + "/Register"
	AuthLoginFullMethod    = "/" + AuthServiceName + "/Login"
	AuthRefreshFullMethod  = "/" + AuthServiceName + "/Refresh"
	AuthLogoutFullMethod   = "/" + AuthServiceName + "/Logout"
	AuthMeFullMethod       = "/" + AuthServiceName + "/Me"

	MetaVersionFullMethod = "/" + MetaServiceName + "/Version"
	MetaStatusFullMethod  = "/" + MetaServiceName + "/Status"
)

// AuthServer is the server API for the auth.v1.Auth service.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*TokenPairResponse, error)
	Login(context.Context, *LoginRequest) (*TokenPairResponse, error)
	Refresh(context.Context, *RefreshTokenRequest) (*TokenPairResponse, error)
	Logout(context.Context, *RefreshTokenRequest) (*Empty, error)
	Me(context.Context, *Empty) (*MeResponse, error)
}

// MetaServer is the server API for the auth.v1.Meta service.
type MetaServer interface {
	Version(context.Context, *Empty) (*VersionResponse, error)
	Status(context.Context, *Empty) (*StatusResponse, error)
}

// AuthServiceDesc describes auth.v1.Auth for grpc.Server.RegisterService.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(AuthRegisterFullMethod, AuthServer.Register)},
		{MethodName: "Login", Handler: unary(AuthLoginFullMethod, AuthServer.Login)},
		{MethodName: "Refresh", Handler: unary(AuthRefreshFullMethod, AuthServer.Refresh)},
		{MethodName: "Logout", Handler: unary(AuthLogoutFullMethod, AuthServer.Logout)},
		{MethodName: "Me", Handler: unary(AuthMeFullMethod, AuthServer.Me)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auth/v1/auth",
}

// MetaServiceDesc describes auth.v1.Meta for grpc.Server.RegisterService.
var MetaServiceDesc = grpc.ServiceDesc{
	ServiceName: MetaServiceName,
	HandlerType: (*MetaServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Version", Handler: unary(MetaVersionFullMethod, MetaServer.Version)},
		{MethodName: "Status", Handler: unary(MetaStatusFullMethod, MetaServer.Status)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auth/v1/meta",
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

func RegisterMetaServer(s grpc.ServiceRegistrar, srv MetaServer) {
	s.RegisterService(&MetaServiceDesc, srv)
}

// unary adapts a typed method into a grpc.MethodHandler, decoding the
// request and running it through the server's interceptor chain.
func unary[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
