package ports

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// RepoManager interface defines the methods for accounts, orders, transfers,
// solvers and stats repositories.
type RepoManager interface {
	AccountRepository() domain.AccountRepository
	OrderRepository() domain.OrderRepository
	TransferRepository() domain.TransferRepository
	SolverRepository() domain.SolverRepository
	StatsRepository() domain.StatsRepository

	Close()

	// RunTransaction executes the handler within a single storage
	// transaction that is committed if the handler does not error and
	// discarded otherwise. Repositories must be called with the context
	// passed to the handler.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)
}
