package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/config"
	"github.com/tdex-network/tdex-escrow/internal/core/application"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/pubsub"
	kafkatransfer "github.com/tdex-network/tdex-escrow/internal/infrastructure/transfer/kafka"
	logtransfer "github.com/tdex-network/tdex-escrow/internal/infrastructure/transfer/log"
	webhooktransfer "github.com/tdex-network/tdex-escrow/internal/infrastructure/transfer/webhook"
	"github.com/tdex-network/tdex-escrow/internal/interfaces"
	grpcinterface "github.com/tdex-network/tdex-escrow/internal/interfaces/grpc"
	httpinterface "github.com/tdex-network/tdex-escrow/internal/interfaces/http"
	"github.com/tdex-network/tdex-escrow/pkg/stats"
	"golang.org/x/sync/errgroup"
)

const collectorTimeout = 5 * time.Second

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to initialize config")
	}

	var (
		logLevel       = config.GetInt(config.LogLevelKey)
		datadir        = config.GetDatadir()
		dbType         = config.GetString(config.DBTypeKey)
		ownerId        = config.GetString(config.OwnerIdKey)
		solvers        = config.GetStringSlice(config.SolversKey)
		authSecret     = config.GetAuthSecret()
		allowedOrigins = config.GetStringSlice(config.CORSAllowedOriginsKey)
		grpcAddr       = fmt.Sprintf(":%d", config.GetInt(config.GRPCListeningPortKey))
		httpAddr       = fmt.Sprintf(":%d", config.GetInt(config.HTTPListeningPortKey))
		relayInterval  = config.GetDuration(config.RelayIntervalKey)
		relayRateLimit = config.GetInt(config.RelayRateLimitKey)
		statsInterval  = config.GetDuration(config.StatsIntervalKey)
		profilerOn     = config.GetBool(config.EnableProfilerKey)
	)

	log.SetLevel(log.Level(logLevel))

	if profilerOn {
		stopProfiler, err := startProfiler(filepath.Join(datadir, config.ProfilerLocation))
		if err != nil {
			log.WithError(err).Fatal("failed to start profiler")
		}
		defer stopProfiler()
	}

	sink, err := newTransferSink()
	if err != nil {
		log.WithError(err).Fatal("failed to initialize transfer sink")
	}

	hub := pubsub.NewHub(allowedOrigins)
	defer hub.Close()

	appConfig := &application.Config{
		DBType:         dbType,
		DBConfig:       config.GetDbDir(),
		OwnerId:        ownerId,
		Solvers:        solvers,
		TransferSink:   sink,
		Publisher:      hub,
		RelayInterval:  relayInterval,
		RelayRateLimit: relayRateLimit,
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	repoManager := appConfig.RepoManager()
	relaySvc := appConfig.RelayService()
	escrowSvc := appConfig.EscrowService()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		stats.NewCollector(statsSource(escrowSvc), collectorTimeout),
	)

	grpcSvc, err := grpcinterface.NewService(grpcinterface.ServiceOpts{
		Address:    grpcAddr,
		AuthSecret: authSecret,
		EscrowSvc:  escrowSvc,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize grpc interface")
	}
	httpSvc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:        httpAddr,
		AuthSecret:     authSecret,
		AllowedOrigins: allowedOrigins,
		EscrowSvc:      escrowSvc,
		EventsHandler:  hub,
		Gatherer:       registry,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize rest interface")
	}
	services := []interfaces.Service{grpcSvc, httpSvc}

	relaySvc.Start()
	// Deliver what was left undelivered by a previous run.
	if _, err := relaySvc.Flush(context.Background()); err != nil {
		log.WithError(err).Warn("failed to flush transfer outbox at startup")
	}

	eg := &errgroup.Group{}
	for _, svc := range services {
		svc := svc
		eg.Go(svc.Start)
	}
	if err := eg.Wait(); err != nil {
		stop(services, relaySvc, repoManager)
		log.WithError(err).Fatal("failed to start interfaces")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stats.EnableStatistics(ctx, statsInterval, statsSource(escrowSvc))

	log.Infof(
		"escrow daemon started with owner %s, %d configured solvers and %s db",
		ownerId, len(solvers), dbType,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
	cancel()
	stop(services, relaySvc, repoManager)
	log.Info("exiting")
}

func newTransferSink() (ports.TransferSink, error) {
	switch config.GetString(config.TransferSinkKey) {
	case config.SinkWebhook:
		return webhooktransfer.NewTransferSink(
			config.GetString(config.TransferWebhookURLKey),
			config.GetString(config.TransferWebhookSecretKey),
			webhooktransfer.DefaultRequestTimeout,
		)
	case config.SinkKafka:
		return kafkatransfer.NewTransferSink(
			config.GetStringSlice(config.KafkaBrokersKey),
			config.GetString(config.KafkaTopicKey),
		)
	default:
		return logtransfer.NewTransferSink(log.StandardLogger()), nil
	}
}

// stop tears down the interfaces before the relay, which in turn closes the
// transfer sink, and finally the db.
func stop(
	services []interfaces.Service,
	relaySvc application.RelayService,
	repoManager ports.RepoManager,
) {
	for _, svc := range services {
		svc.Stop()
	}
	relaySvc.Stop()
	repoManager.Close()
}

func statsSource(escrowSvc application.EscrowService) stats.Source {
	return func(ctx context.Context) (*stats.Snapshot, error) {
		st, err := escrowSvc.GetStats(ctx)
		if err != nil {
			return nil, err
		}
		ordersByStatus := make(map[string]int, len(st.OrdersByStatus))
		for status, count := range st.OrdersByStatus {
			ordersByStatus[status.String()] = count
		}
		return &stats.Snapshot{
			TotalDeposits:    st.TotalDeposits.InexactFloat64(),
			NumOfAccounts:    st.NumOfAccounts,
			OrdersByStatus:   ordersByStatus,
			PendingTransfers: st.PendingTransfers,
		}, nil
	}
}

// startProfiler writes a cpu profile for the whole lifetime of the daemon
// and a heap profile at shutdown into the given directory.
func startProfiler(dir string) (func(), error) {
	cpuFile, err := os.Create(filepath.Join(dir, "cpu.pprof"))
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		cpuFile.Close()
		return nil, err
	}
	log.Infof("profiler enabled, writing profiles to %s", dir)

	return func() {
		pprof.StopCPUProfile()
		cpuFile.Close()

		heapFile, err := os.Create(filepath.Join(dir, "heap.pprof"))
		if err != nil {
			log.WithError(err).Warn("failed to create heap profile")
			return
		}
		defer heapFile.Close()
		if err := pprof.WriteHeapProfile(heapFile); err != nil {
			log.WithError(err).Warn("failed to write heap profile")
		}
	}, nil
}
