package grpcinterface

import (
	"fmt"
	"net"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application"
	interfaces "github.com/tdex-network/tdex-escrow/internal/interfaces"
	grpchandler "github.com/tdex-network/tdex-escrow/internal/interfaces/grpc/handler"
	"github.com/tdex-network/tdex-escrow/internal/interfaces/grpc/interceptor"
	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
	"google.golang.org/grpc"
)

var _ interfaces.Service = (*Service)(nil)

type ServiceOpts struct {
	Address    string
	AuthSecret []byte
	EscrowSvc  application.EscrowService
}

func (o ServiceOpts) validate() error {
	if !isValidAddress(o.Address) {
		return fmt.Errorf("invalid listening address %s", o.Address)
	}
	if len(o.AuthSecret) <= 0 {
		return fmt.Errorf("missing auth secret")
	}
	if o.EscrowSvc == nil {
		return fmt.Errorf("escrow app service must not be null")
	}
	return nil
}

// Service serves the escrow gRPC service.
type Service struct {
	opts     ServiceOpts
	server   *grpc.Server
	listener net.Listener
}

func NewService(opts ServiceOpts) (*Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &Service{opts: opts}, nil
}

func (s *Service) Start() error {
	unaryInterceptor := interceptor.UnaryInterceptor(s.opts.AuthSecret)
	streamInterceptor := interceptor.StreamInterceptor(s.opts.AuthSecret)

	escrowHandler := grpchandler.NewEscrowHandler(s.opts.EscrowSvc)

	server := grpc.NewServer(
		unaryInterceptor,
		streamInterceptor,
	)
	escrowrpc.RegisterEscrowServiceServer(server, escrowHandler)

	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := server.Serve(listener); err != nil {
			log.WithError(err).Warn("grpc server stopped")
		}
	}()

	s.server = server
	s.listener = listener
	log.Infof("escrow interface is listening on %s", listener.Addr())
	return nil
}

func (s *Service) Stop() {
	if s.server == nil {
		return
	}
	s.server.GracefulStop()
	log.Debug("disabled escrow interface")
}

// Addr returns the address the service is actually listening on.
func (s *Service) Addr() string {
	if s.listener == nil {
		return s.opts.Address
	}
	return s.listener.Addr().String()
}

func isValidAddress(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if _, err := strconv.Atoi(port); err != nil {
		return false
	}
	if host != "" && host != "localhost" {
		return net.ParseIP(host) != nil
	}
	return true
}
