package application

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/tdex-network/tdex-escrow/internal/core/application/relay"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

// RelayService delivers the requested transfers to the transfer sink.
type RelayService interface {
	Start()
	Stop()
	Flush(ctx context.Context) (int, error)
	NotifyTransfer(transfer domain.Transfer)
}

func NewRelayService(
	repoManager ports.RepoManager,
	sink ports.TransferSink,
	clk clock.Clock,
	interval time.Duration,
	rateLimit int,
) (RelayService, error) {
	return relay.NewService(repoManager, sink, clk, interval, rateLimit)
}
