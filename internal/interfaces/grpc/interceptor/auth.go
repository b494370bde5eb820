package interceptor

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/interfaces/grpc/permissions"
	"github.com/tdex-network/tdex-escrow/pkg/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func unaryAuthHandler(secret []byte) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		ctx, err := authenticate(ctx, secret, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

func streamAuthHandler(secret []byte) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if _, err := authenticate(ss.Context(), secret, info.FullMethod); err != nil {
			return err
		}
		return handler(srv, ss)
	}
}

// authenticate verifies the bearer token of restricted methods and returns a
// context carrying the caller. Whitelisted methods carry the caller only if a
// valid token is given.
func authenticate(
	ctx context.Context, secret []byte, method string,
) (context.Context, error) {
	isWhitelisted := permissions.IsWhitelisted(method)
	if !isWhitelisted {
		if _, ok := permissions.AllPermissionsByMethod()[method]; !ok {
			return nil, status.Errorf(
				codes.PermissionDenied,
				"%s: unknown permissions required for method", method,
			)
		}
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(auth.MetadataKey); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := auth.TokenFromHeader(header)
	if err != nil {
		if isWhitelisted {
			return ctx, nil
		}
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	account, err := auth.ParseToken(secret, token)
	if err != nil {
		if isWhitelisted {
			return ctx, nil
		}
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return auth.WithCaller(ctx, account), nil
}
