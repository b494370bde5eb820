package relay_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/relay"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-escrow/pkg/circuitbreaker"
)

var ctx = context.Background()

func TestNewService(t *testing.T) {
	_, err := relay.NewService(nil, &mockTransferSink{}, nil, 0, 0)
	require.Error(t, err)

	_, err = relay.NewService(inmemory.NewRepoManager(), nil, nil, 0, 0)
	require.Error(t, err)
}

func TestFlush(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	transfers := addTransfers(t, repoManager, "alice", "bob", "carol")

	sink := &mockTransferSink{}
	sink.On("SendTransfer", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	svc, err := relay.NewService(repoManager, sink, clock.NewMock(), 0, 100)
	require.NoError(t, err)

	count, err := svc.Flush(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	sink.AssertNumberOfCalls(t, "SendTransfer", 3)
	sink.AssertCalled(t, "SendTransfer", transfers[0].Id, "alice", "10")

	requested, err := repoManager.TransferRepository().ListRequestedTransfers(ctx)
	require.NoError(t, err)
	require.Empty(t, requested)

	for _, tr := range transfers {
		got, err := repoManager.TransferRepository().GetTransfer(ctx, tr.Id)
		require.NoError(t, err)
		require.True(t, got.IsDispatched())
		require.Equal(t, 1, got.Attempts)
	}

	// Dispatched transfers are not delivered again.
	count, err = svc.Flush(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	sink.AssertNumberOfCalls(t, "SendTransfer", 3)
}

func TestFlushStopsAtFirstFailure(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	transfers := addTransfers(t, repoManager, "alice", "bob", "carol")

	sink := &mockTransferSink{}
	sink.On("SendTransfer", transfers[0].Id, mock.Anything, mock.Anything).
		Return(nil)
	sink.On("SendTransfer", transfers[1].Id, mock.Anything, mock.Anything).
		Return(errors.New("sink unavailable")).Once()
	sink.On("SendTransfer", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	svc, err := relay.NewService(repoManager, sink, clock.NewMock(), 0, 100)
	require.NoError(t, err)

	count, err := svc.Flush(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	failed, err := repoManager.TransferRepository().GetTransfer(ctx, transfers[1].Id)
	require.NoError(t, err)
	require.False(t, failed.IsDispatched())
	require.Equal(t, 1, failed.Attempts)
	require.Equal(t, "sink unavailable", failed.LastError)

	// Retried, in order, at the next flush.
	count, err = svc.Flush(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	retried, err := repoManager.TransferRepository().GetTransfer(ctx, transfers[1].Id)
	require.NoError(t, err)
	require.True(t, retried.IsDispatched())
	require.Equal(t, 2, retried.Attempts)
	require.Empty(t, retried.LastError)
}

func TestFlushWithOpenCircuit(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	sink := &mockTransferSink{}
	sink.On("SendTransfer", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("sink unavailable"))

	svc, err := relay.NewService(repoManager, sink, clock.NewMock(), 0, 1000)
	require.NoError(t, err)

	transfers := addTransfers(t, repoManager, "alice")
	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		count, err := svc.Flush(ctx)
		require.NoError(t, err)
		require.Zero(t, count)
	}
	sink.AssertNumberOfCalls(
		t, "SendTransfer", circuitbreaker.MaxNumOfFailingRequests+1,
	)

	// The sink is not called while the circuit is open.
	count, err := svc.Flush(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
	sink.AssertNumberOfCalls(
		t, "SendTransfer", circuitbreaker.MaxNumOfFailingRequests+1,
	)

	transfer, err := repoManager.TransferRepository().GetTransfer(
		ctx, transfers[0].Id,
	)
	require.NoError(t, err)
	require.False(t, transfer.IsDispatched())
	require.Equal(t, circuitbreaker.MaxNumOfFailingRequests+1, transfer.Attempts)
}

func TestStartStop(t *testing.T) {
	repoManager := inmemory.NewRepoManager()
	clk := clock.NewMock()

	delivered := make(chan string, 10)
	sink := &mockTransferSink{}
	sink.On("SendTransfer", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			delivered <- args.String(0)
		}).
		Return(nil)
	sink.On("Close").Return()

	svc, err := relay.NewService(repoManager, sink, clk, time.Minute, 100)
	require.NoError(t, err)

	svc.Start()
	svc.Start()

	// Transfers are delivered as soon as the relay is notified.
	transfers := addTransfers(t, repoManager, "alice")
	svc.NotifyTransfer(transfers[0])
	require.Equal(t, transfers[0].Id, waitForDelivery(t, delivered))

	// And at the next tick otherwise.
	transfers = addTransfers(t, repoManager, "bob")
	clk.Add(time.Minute)
	require.Equal(t, transfers[0].Id, waitForDelivery(t, delivered))

	svc.Stop()
	sink.AssertCalled(t, "Close")
}

func waitForDelivery(t *testing.T, delivered chan string) string {
	t.Helper()
	select {
	case id := <-delivered:
		return id
	case <-time.After(5 * time.Second):
		t.Fatal("transfer not delivered in time")
	}
	return ""
}

func addTransfers(
	t *testing.T, repoManager ports.RepoManager, recipients ...string,
) []domain.Transfer {
	transfers := make([]domain.Transfer, 0, len(recipients))
	for i, recipient := range recipients {
		transfer := domain.NewWithdrawalTransfer(
			recipient, decimal.NewFromInt(int64(10*(i+1))),
			time.Now().UnixNano()+int64(i),
		)
		_, err := repoManager.RunTransaction(
			ctx, false, func(ctx context.Context) (interface{}, error) {
				return nil, repoManager.TransferRepository().AddTransfer(
					ctx, transfer,
				)
			},
		)
		require.NoError(t, err)
		transfers = append(transfers, *transfer)
	}
	return transfers
}
