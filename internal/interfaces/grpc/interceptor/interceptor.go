package interceptor

import (
	middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
)

// UnaryInterceptor returns the unary interceptor chain of the escrow
// service: logging, panic recovery, then bearer token authentication.
func UnaryInterceptor(authSecret []byte) grpc.ServerOption {
	return grpc.UnaryInterceptor(
		middleware.ChainUnaryServer(
			unaryLogger,
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
			unaryAuthHandler(authSecret),
		),
	)
}

// StreamInterceptor returns the stream interceptor with a logrus log
func StreamInterceptor(authSecret []byte) grpc.ServerOption {
	return grpc.StreamInterceptor(
		middleware.ChainStreamServer(
			streamLogger,
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
			streamAuthHandler(authSecret),
		),
	)
}
