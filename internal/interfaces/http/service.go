package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application"
	interfaces "github.com/tdex-network/tdex-escrow/internal/interfaces"
	grpchandler "github.com/tdex-network/tdex-escrow/internal/interfaces/grpc/handler"
	"github.com/tdex-network/tdex-escrow/pkg/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ interfaces.Service = (*Service)(nil)

type ServiceOpts struct {
	Address        string
	AuthSecret     []byte
	AllowedOrigins []string
	EscrowSvc      application.EscrowService
	// EventsHandler serves the websocket event stream, optional.
	EventsHandler http.Handler
	// Gatherer exposes the metrics at /metrics, optional.
	Gatherer prometheus.Gatherer
}

func (o ServiceOpts) validate() error {
	if _, _, err := net.SplitHostPort(o.Address); err != nil {
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

// Service serves the REST version of the escrow service, the websocket event
// stream and the Prometheus metrics.
type Service struct {
	opts     ServiceOpts
	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

func NewService(opts ServiceOpts) (*Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	svc := &Service{opts: opts}
	svc.handler = svc.newHandler()
	return svc, nil
}

// Handler returns the root http handler of the service.
func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Warn("http server stopped")
		}
	}()

	s.server = server
	s.listener = listener
	log.Infof("rest interface is listening on %s", listener.Addr())
	return nil
}

func (s *Service) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop rest interface")
	}
	log.Debug("disabled rest interface")
}

// Addr returns the address the service is actually listening on.
func (s *Service) Addr() string {
	if s.listener == nil {
		return s.opts.Address
	}
	return s.listener.Addr().String()
}

func (s *Service) newHandler() http.Handler {
	h := restHandler{grpchandler.NewEscrowHandler(s.opts.EscrowSvc)}

	router := mux.NewRouter()
	router.Use(recoveryMiddleware)
	router.HandleFunc("/health", health).Methods(http.MethodGet)
	if s.opts.Gatherer != nil {
		router.Handle(
			"/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}),
		).Methods(http.MethodGet)
	}
	if s.opts.EventsHandler != nil {
		router.Handle("/v1/events", s.opts.EventsHandler)
	}

	api := router.PathPrefix("/v1").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/deposit", h.deposit).Methods(http.MethodPost)
	api.HandleFunc("/withdraw", h.withdraw).Methods(http.MethodPost)

	api.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/execute", h.executeOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/cancel", h.cancelOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/fail", h.failOrder).Methods(http.MethodPost)

	api.HandleFunc("/solvers", h.listSolvers).Methods(http.MethodGet)
	api.HandleFunc("/solvers", h.addSolver).Methods(http.MethodPost)
	api.HandleFunc("/solvers/{id}", h.removeSolver).Methods(http.MethodDelete)

	api.HandleFunc("/accounts/{account}/authorized", h.isAuthorized).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{account}/balance", h.getBalance).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{account}/balances", h.getBalances).Methods(http.MethodGet)

	api.HandleFunc("/total-deposits", h.getTotalDeposits).Methods(http.MethodGet)
	api.HandleFunc("/transfers", h.listTransfers).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.getStats).Methods(http.MethodGet)

	allowedOrigins := s.opts.AllowedOrigins
	if len(allowedOrigins) <= 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(router)
}

// recoveryMiddleware responds with an internal error instead of dropping the
// connection if serving the request panics.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"stack":  string(debug.Stack()),
				}).Errorf("recovered from panic: %v", p)
				respondError(w, status.Error(codes.Internal, "internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware adds the caller identified by the bearer token, if any, to
// the request context. Requests with an invalid token are rejected.
func (s *Service) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(auth.MetadataKey)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := auth.TokenFromHeader(header)
		if err != nil {
			respondError(w, status.Error(codes.Unauthenticated, err.Error()))
			return
		}
		account, err := auth.ParseToken(s.opts.AuthSecret, token)
		if err != nil {
			respondError(w, status.Error(codes.Unauthenticated, err.Error()))
			return
		}

		ctx := auth.WithCaller(r.Context(), account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
