package interceptor

import (
	"runtime/debug"

	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var recoveryOpts = []grpc_recovery.Option{
	grpc_recovery.WithRecoveryHandler(recoveryHandler),
}

// recoveryHandler turns a panic raised while serving a request into an
// Internal error so that it never takes down the daemon.
func recoveryHandler(p interface{}) error {
	log.WithField("stack", string(debug.Stack())).Errorf("recovered from panic: %v", p)
	return status.Error(codes.Internal, "internal error")
}
