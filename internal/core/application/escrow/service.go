package escrow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

var (
	ErrMissingOwner = errors.New("missing owner account id")
)

// Service is the escrow engine. It keeps the ledger balances and the order
// book consistent: every mutating operation is serialized and either fully
// committed or rejected before any write.
type Service struct {
	repoManager ports.RepoManager
	publisher   ports.Publisher
	notifier    TransferNotifier
	clock       clock.Clock
	owner       string

	lock *sync.Mutex
}

// NewService returns the engine owned by the given account. The configured
// solvers are added to the persisted registry. Publisher and notifier are
// optional.
func NewService(
	repoManager ports.RepoManager,
	publisher ports.Publisher,
	notifier TransferNotifier,
	clk clock.Clock,
	owner string,
	solvers []string,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if owner == "" {
		return nil, ErrMissingOwner
	}
	if clk == nil {
		clk = clock.New()
	}

	svc := &Service{
		repoManager: repoManager,
		publisher:   publisher,
		notifier:    notifier,
		clock:       clk,
		owner:       owner,
		lock:        &sync.Mutex{},
	}

	if len(solvers) > 0 {
		if _, err := repoManager.RunTransaction(
			context.Background(), false,
			func(ctx context.Context) (interface{}, error) {
				for _, id := range solvers {
					solver, err := domain.NewSolver(id, svc.now())
					if err != nil {
						return nil, err
					}
					if err := repoManager.SolverRepository().AddSolver(
						ctx, solver,
					); err != nil {
						return nil, err
					}
				}
				return nil, nil
			},
		); err != nil {
			return nil, fmt.Errorf("failed to add configured solvers: %w", err)
		}
	}

	return svc, nil
}

// Owner returns the account id of the escrow owner.
func (s *Service) Owner() string {
	return s.owner
}

// Deposit credits the caller with the given positive amount and returns the
// new balance.
func (s *Service) Deposit(
	ctx context.Context, caller string, amount decimal.Decimal,
) (decimal.Decimal, error) {
	if caller == "" {
		return decimal.Zero, domain.ErrInvalidAccount
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var balance decimal.Decimal
			if err := s.repoManager.AccountRepository().UpdateAccount(
				ctx, caller, func(a *domain.Account) (*domain.Account, error) {
					if err := a.Credit(amount); err != nil {
						return nil, err
					}
					balance = a.Balance
					return a, nil
				},
			); err != nil {
				return nil, err
			}

			if err := s.repoManager.StatsRepository().UpdateStats(
				ctx, func(st *domain.LedgerStats) (*domain.LedgerStats, error) {
					st.RecordDeposit(amount)
					return st, nil
				},
			); err != nil {
				return nil, err
			}
			return balance, nil
		},
	)
	if err != nil {
		return decimal.Zero, err
	}
	balance := res.(decimal.Decimal)

	log.Debugf("deposit: credited %s to account %s", amount, caller)
	s.publish(event{Event: domain.Event{
		Type:      domain.EventDeposit,
		Account:   caller,
		Amount:    amount,
		Balance:   balance,
		Timestamp: s.now(),
	}})
	return balance, nil
}

// Withdraw debits the caller of the given amount and requests the transfer of
// the funds to it. The request is nil for zero withdrawals.
func (s *Service) Withdraw(
	ctx context.Context, caller string, amount decimal.Decimal,
) (*domain.Transfer, error) {
	if caller == "" {
		return nil, domain.ErrInvalidAccount
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	var balance decimal.Decimal
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			accountRepo := s.repoManager.AccountRepository()

			currentBalance, err := accountRepo.GetBalance(ctx, caller)
			if err != nil {
				return nil, err
			}
			if currentBalance.LessThan(amount) {
				return nil, domain.ErrInsufficientBalance
			}

			now := s.now()
			if err := accountRepo.UpdateAccount(
				ctx, caller, func(a *domain.Account) (*domain.Account, error) {
					if err := a.Debit(amount); err != nil {
						return nil, err
					}
					balance = a.Balance
					return a, nil
				},
			); err != nil {
				return nil, err
			}

			if err := s.repoManager.StatsRepository().UpdateStats(
				ctx, func(st *domain.LedgerStats) (*domain.LedgerStats, error) {
					st.RecordWithdrawal(amount)
					return st, nil
				},
			); err != nil {
				return nil, err
			}

			if amount.IsZero() {
				return (*domain.Transfer)(nil), nil
			}
			transfer := domain.NewWithdrawalTransfer(caller, amount, now)
			if err := s.repoManager.TransferRepository().AddTransfer(
				ctx, transfer,
			); err != nil {
				return nil, err
			}
			return transfer, nil
		},
	)
	if err != nil {
		return nil, err
	}
	transfer := res.(*domain.Transfer)

	log.Debugf("withdrawal: debited %s from account %s", amount, caller)
	s.publish(event{
		Event: domain.Event{
			Type:      domain.EventWithdrawal,
			Account:   caller,
			Amount:    amount,
			Balance:   balance,
			Timestamp: s.now(),
		},
		transfer: transfer,
	})
	return transfer, nil
}

// CreateOrder stores a Pending order posted by the caller. The maker's funds
// are checked but not reserved. An order with the same id is replaced.
func (s *Service) CreateOrder(
	ctx context.Context, caller, orderId string, amount decimal.Decimal,
) (*domain.Order, error) {
	if caller == "" {
		return nil, domain.ErrInvalidAccount
	}
	if orderId == "" {
		return nil, domain.ErrInvalidOrderId
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			balance, err := s.repoManager.AccountRepository().GetBalance(
				ctx, caller,
			)
			if err != nil {
				return nil, err
			}
			if balance.LessThan(amount) {
				return nil, domain.ErrInsufficientBalance
			}

			order, err := domain.NewOrder(orderId, caller, amount, s.now())
			if err != nil {
				return nil, err
			}
			if err := s.repoManager.OrderRepository().AddOrder(
				ctx, order,
			); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
	if err != nil {
		return nil, err
	}
	order := res.(*domain.Order)

	log.Debugf("order %s: created by %s for %s", order.Id, caller, amount)
	s.publish(event{Event: domain.Event{
		Type:      domain.EventOrderCreated,
		Account:   caller,
		Amount:    amount,
		OrderId:   order.Id,
		Timestamp: order.CreatedAt,
	}})
	return order, nil
}

// ExecuteOrder fills a Pending order on behalf of its maker: the maker is
// debited and the transfer of the amount to the taker is requested. Only the
// owner and the registered solvers are allowed to execute orders.
func (s *Service) ExecuteOrder(
	ctx context.Context, caller, orderId, taker string, amount decimal.Decimal,
) (*domain.Order, *domain.Transfer, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var transfer *domain.Transfer
	var balance decimal.Decimal
	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			transfer = nil

			// An unknown order is reported before any malformed argument.
			order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
			if err != nil {
				return nil, err
			}
			if taker == "" {
				return nil, domain.ErrInvalidAccount
			}
			if err := domain.ValidateAmount(amount); err != nil {
				return nil, err
			}
			if err := order.ValidateExecution(amount); err != nil {
				return nil, err
			}
			ok, err := s.isAuthorized(ctx, caller)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, domain.ErrUnauthorized
			}
			makerBalance, err := s.repoManager.AccountRepository().GetBalance(
				ctx, order.Maker,
			)
			if err != nil {
				return nil, err
			}
			if makerBalance.LessThan(amount) {
				return nil, domain.ErrInsufficientBalance
			}

			now := s.now()
			if err := s.repoManager.OrderRepository().UpdateOrder(
				ctx, orderId, func(o *domain.Order) (*domain.Order, error) {
					if err := o.Execute(taker, amount, now); err != nil {
						return nil, err
					}
					order = o
					return o, nil
				},
			); err != nil {
				return nil, err
			}

			if err := s.repoManager.AccountRepository().UpdateAccount(
				ctx, order.Maker,
				func(a *domain.Account) (*domain.Account, error) {
					if err := a.Debit(amount); err != nil {
						return nil, err
					}
					balance = a.Balance
					return a, nil
				},
			); err != nil {
				return nil, err
			}

			if amount.IsPositive() {
				transfer = domain.NewOrderTransfer(*order)
				if err := s.repoManager.TransferRepository().AddTransfer(
					ctx, transfer,
				); err != nil {
					return nil, err
				}
			}
			return order, nil
		},
	)
	if err != nil {
		return nil, nil, err
	}
	order := res.(*domain.Order)

	log.Debugf(
		"order %s: executed by %s, %s moved from %s to %s",
		order.Id, caller, amount, order.Maker, taker,
	)
	s.publish(event{
		Event: domain.Event{
			Type:      domain.EventOrderExecuted,
			Account:   order.Maker,
			Amount:    amount,
			Balance:   balance,
			OrderId:   order.Id,
			Taker:     taker,
			Timestamp: order.ExecutedAt,
		},
		transfer: transfer,
	})
	return order, transfer, nil
}

// CancelOrder brings a Pending order to the Cancelled status. Only the maker
// of the order is allowed to cancel it.
func (s *Service) CancelOrder(
	ctx context.Context, caller, orderId string,
) (*domain.Order, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			order, err := s.repoManager.OrderRepository().GetOrder(ctx, orderId)
			if err != nil {
				return nil, err
			}
			if err := order.ValidateCancellation(caller); err != nil {
				return nil, err
			}

			if err := s.repoManager.OrderRepository().UpdateOrder(
				ctx, orderId, func(o *domain.Order) (*domain.Order, error) {
					if err := o.Cancel(caller); err != nil {
						return nil, err
					}
					order = o
					return o, nil
				},
			); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
	if err != nil {
		return nil, err
	}
	order := res.(*domain.Order)

	log.Debugf("order %s: cancelled by maker", order.Id)
	s.publish(event{Event: domain.Event{
		Type:      domain.EventOrderCancelled,
		Account:   order.Maker,
		Amount:    order.Amount,
		OrderId:   order.Id,
		Timestamp: s.now(),
	}})
	return order, nil
}

// FailOrder brings a Pending order to the Failed status. It's meant for the
// settlement side to report orders it could not settle, hence only the owner
// is allowed to call it.
func (s *Service) FailOrder(
	ctx context.Context, caller, orderId, reason string,
) (*domain.Order, error) {
	if caller != s.owner {
		return nil, domain.ErrUnauthorized
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			var order *domain.Order
			if err := s.repoManager.OrderRepository().UpdateOrder(
				ctx, orderId, func(o *domain.Order) (*domain.Order, error) {
					if err := o.Fail(reason); err != nil {
						return nil, err
					}
					order = o
					return o, nil
				},
			); err != nil {
				return nil, err
			}
			return order, nil
		},
	)
	if err != nil {
		return nil, err
	}
	order := res.(*domain.Order)

	log.Debugf("order %s: marked as failed: %s", order.Id, reason)
	s.publish(event{Event: domain.Event{
		Type:      domain.EventOrderFailed,
		Account:   order.Maker,
		Amount:    order.Amount,
		OrderId:   order.Id,
		Reason:    reason,
		Timestamp: s.now(),
	}})
	return order, nil
}

// AddSolver grants the given principal the right to execute orders.
func (s *Service) AddSolver(ctx context.Context, caller, id string) error {
	if caller != s.owner {
		return domain.ErrUnauthorized
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	solver, err := domain.NewSolver(id, s.now())
	if err != nil {
		return err
	}
	_, err = s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.SolverRepository().AddSolver(ctx, solver)
		},
	)
	if err != nil {
		return err
	}
	log.Infof("solver %s added to registry", id)
	return nil
}

// RemoveSolver revokes the right to execute orders from the given principal.
func (s *Service) RemoveSolver(ctx context.Context, caller, id string) error {
	if caller != s.owner {
		return domain.ErrUnauthorized
	}
	if id == "" {
		return domain.ErrInvalidSolver
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.SolverRepository().RemoveSolver(ctx, id)
		},
	)
	if err != nil {
		return err
	}
	log.Infof("solver %s removed from registry", id)
	return nil
}

// ListSolvers returns the accounts registered as solvers.
func (s *Service) ListSolvers(ctx context.Context) ([]domain.Solver, error) {
	return s.repoManager.SolverRepository().ListSolvers(ctx)
}

// IsAuthorized returns whether the caller is allowed to execute orders.
func (s *Service) IsAuthorized(ctx context.Context, caller string) (bool, error) {
	return s.isAuthorized(ctx, caller)
}

// GetBalance returns the balance of the account, zero if unknown.
func (s *Service) GetBalance(
	ctx context.Context, account string,
) (decimal.Decimal, error) {
	return s.repoManager.AccountRepository().GetBalance(ctx, account)
}

// GetBalances returns the balance of the account for every supported token.
func (s *Service) GetBalances(
	ctx context.Context, account string,
) ([]domain.TokenBalance, error) {
	balance, err := s.GetBalance(ctx, account)
	if err != nil {
		return nil, err
	}
	return []domain.TokenBalance{
		{Token: domain.NativeToken, Amount: balance},
	}, nil
}

// GetOrder returns the order with the given id.
func (s *Service) GetOrder(
	ctx context.Context, orderId string,
) (*domain.Order, error) {
	return s.repoManager.OrderRepository().GetOrder(ctx, orderId)
}

// ListOrders returns the orders matching the filter, newest first.
func (s *Service) ListOrders(
	ctx context.Context, filter domain.OrderFilter, page *domain.Page,
) ([]domain.Order, error) {
	return s.repoManager.OrderRepository().ListOrders(ctx, filter, page)
}

// GetTotalDeposits returns the sum of all account balances.
func (s *Service) GetTotalDeposits(ctx context.Context) (decimal.Decimal, error) {
	stats, err := s.repoManager.StatsRepository().GetStats(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return stats.TotalDeposits, nil
}

// ListTransfers returns the transfer requests, newest first.
func (s *Service) ListTransfers(
	ctx context.Context, page *domain.Page,
) ([]domain.Transfer, error) {
	return s.repoManager.TransferRepository().ListTransfers(ctx, page)
}

// GetStats returns a snapshot of the ledger counters.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			ledgerStats, err := s.repoManager.StatsRepository().GetStats(ctx)
			if err != nil {
				return nil, err
			}
			numOfAccounts, err := s.repoManager.AccountRepository().
				CountAccounts(ctx)
			if err != nil {
				return nil, err
			}
			ordersByStatus, err := s.repoManager.OrderRepository().
				CountOrdersByStatus(ctx)
			if err != nil {
				return nil, err
			}
			pendingTransfers, err := s.repoManager.TransferRepository().
				ListRequestedTransfers(ctx)
			if err != nil {
				return nil, err
			}
			return &Stats{
				TotalDeposits:    ledgerStats.TotalDeposits,
				NumOfAccounts:    numOfAccounts,
				OrdersByStatus:   ordersByStatus,
				PendingTransfers: len(pendingTransfers),
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*Stats), nil
}

func (s *Service) isAuthorized(ctx context.Context, caller string) (bool, error) {
	if caller == "" {
		return false, nil
	}
	if caller == s.owner {
		return true, nil
	}
	return s.repoManager.SolverRepository().IsSolver(ctx, caller)
}

func (s *Service) now() int64 {
	return s.clock.Now().UnixNano()
}

// publish notifies the collaborators of a committed mutation. Failures are
// only logged, the mutation is not rolled back.
func (s *Service) publish(e event) {
	if e.transfer != nil && s.notifier != nil {
		s.notifier.NotifyTransfer(*e.transfer)
	}

	if s.publisher == nil {
		return
	}
	message, err := json.Marshal(e.Event)
	if err != nil {
		log.WithError(err).Warnf("failed to serialize %s event", e.Type)
		return
	}
	if err := s.publisher.Publish(string(e.Type), string(message)); err != nil {
		log.WithError(err).Warnf("failed to publish %s event", e.Type)
	}
}
