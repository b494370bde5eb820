package application

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

type EscrowService interface {
	Owner() string

	Deposit(
		ctx context.Context, caller string, amount decimal.Decimal,
	) (decimal.Decimal, error)
	Withdraw(
		ctx context.Context, caller string, amount decimal.Decimal,
	) (*domain.Transfer, error)

	CreateOrder(
		ctx context.Context, caller, orderId string, amount decimal.Decimal,
	) (*domain.Order, error)
	ExecuteOrder(
		ctx context.Context, caller, orderId, taker string,
		amount decimal.Decimal,
	) (*domain.Order, *domain.Transfer, error)
	CancelOrder(ctx context.Context, caller, orderId string) (*domain.Order, error)
	FailOrder(
		ctx context.Context, caller, orderId, reason string,
	) (*domain.Order, error)

	AddSolver(ctx context.Context, caller, id string) error
	RemoveSolver(ctx context.Context, caller, id string) error
	ListSolvers(ctx context.Context) ([]domain.Solver, error)
	IsAuthorized(ctx context.Context, caller string) (bool, error)

	GetBalance(ctx context.Context, account string) (decimal.Decimal, error)
	GetBalances(
		ctx context.Context, account string,
	) ([]domain.TokenBalance, error)
	GetOrder(ctx context.Context, orderId string) (*domain.Order, error)
	ListOrders(
		ctx context.Context, filter domain.OrderFilter, page *domain.Page,
	) ([]domain.Order, error)
	GetTotalDeposits(ctx context.Context) (decimal.Decimal, error)
	ListTransfers(
		ctx context.Context, page *domain.Page,
	) ([]domain.Transfer, error)
	GetStats(ctx context.Context) (*escrow.Stats, error)
}

func NewEscrowService(
	repoManager ports.RepoManager,
	publisher ports.Publisher,
	relaySvc RelayService,
	clk clock.Clock,
	owner string,
	solvers []string,
) (EscrowService, error) {
	var notifier escrow.TransferNotifier
	if relaySvc != nil {
		notifier = relaySvc
	}
	return escrow.NewService(
		repoManager, publisher, notifier, clk, owner, solvers,
	)
}
