package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application"
)

func TestConfig(t *testing.T) {
	t.Run("inmemory", func(t *testing.T) {
		testConfig(t, application.DBInmemory, nil)
	})
	t.Run("badger", func(t *testing.T) {
		testConfig(t, application.DBBadger, t.TempDir())
	})
	t.Run("pebble", func(t *testing.T) {
		testConfig(t, application.DBPebble, t.TempDir())
	})
}

func TestFailingConfig(t *testing.T) {
	sink := &mockTransferSink{}

	tests := []struct {
		name   string
		config application.Config
	}{
		{
			name: "unsupported_db",
			config: application.Config{
				DBType: "postgres", OwnerId: "owner", TransferSink: sink,
			},
		},
		{
			name: "missing_datadir",
			config: application.Config{
				DBType: application.DBBadger, OwnerId: "owner", TransferSink: sink,
			},
		},
		{
			name: "missing_owner",
			config: application.Config{
				DBType: application.DBInmemory, TransferSink: sink,
			},
		},
		{
			name: "missing_sink",
			config: application.Config{
				DBType: application.DBInmemory, OwnerId: "owner",
			},
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.config.Validate())
		})
	}
}

func testConfig(t *testing.T, dbType string, datadir interface{}) {
	delivered := make(chan string, 1)
	sink := &mockTransferSink{}
	sink.On("SendTransfer", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			delivered <- args.String(1)
		}).
		Return(nil)
	sink.On("Close").Return()

	cfg := &application.Config{
		DBType:         dbType,
		DBConfig:       datadir,
		OwnerId:        "owner",
		Solvers:        []string{"solver"},
		TransferSink:   sink,
		RelayInterval:  time.Hour,
		RelayRateLimit: 100,
	}
	require.NoError(t, cfg.Validate())

	relaySvc := cfg.RelayService()
	relaySvc.Start()
	defer func() {
		relaySvc.Stop()
		cfg.RepoManager().Close()
	}()

	svc := cfg.EscrowService()
	require.Equal(t, "owner", svc.Owner())

	ctx := context.Background()
	_, err := svc.Deposit(ctx, "alice", decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, "alice", decimal.NewFromInt(7))
	require.NoError(t, err)

	select {
	case amount := <-delivered:
		require.Equal(t, "7", amount)
	case <-time.After(5 * time.Second):
		t.Fatal("withdrawal not relayed to the sink")
	}

	ok, err := svc.IsAuthorized(ctx, "solver")
	require.NoError(t, err)
	require.True(t, ok)
}
