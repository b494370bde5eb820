package escrow_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
)

var ctx = context.Background()

func TestNewService(t *testing.T) {
	_, err := escrow.NewService(inmemory.NewRepoManager(), nil, nil, nil, "", nil)
	require.ErrorIs(t, err, escrow.ErrMissingOwner)

	_, err = escrow.NewService(nil, nil, nil, nil, owner, nil)
	require.Error(t, err)

	_, err = escrow.NewService(
		inmemory.NewRepoManager(), nil, nil, nil, owner, []string{""},
	)
	require.ErrorIs(t, err, domain.ErrInvalidSolver)

	svc, err := escrow.NewService(
		inmemory.NewRepoManager(), nil, nil, nil, owner, []string{solver},
	)
	require.NoError(t, err)
	require.Equal(t, owner, svc.Owner())

	// Works without publisher and notifier.
	_, err = svc.Deposit(ctx, alice, amount(10))
	require.NoError(t, err)
	transfer, err := svc.Withdraw(ctx, alice, amount(10))
	require.NoError(t, err)
	require.NotNil(t, transfer)
}

func TestDeposit(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		balance, err := e.Deposit(ctx, alice, amount(100))
		require.NoError(t, err)
		require.True(t, amount(100).Equal(balance))

		balance, err = e.Deposit(ctx, alice, amount(50))
		require.NoError(t, err)
		require.True(t, amount(150).Equal(balance))

		requireBalance(t, e, alice, 150)
		requireTotalDeposits(t, e, 150)

		e.publisher.AssertCalled(
			t, "Publish", string(domain.EventDeposit), mock.Anything,
		)
	})
}

func TestFailingDeposit(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		_, err := e.Deposit(ctx, alice, decimal.Zero)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
		require.True(t, domain.IsInvalidInput(err))

		_, err = e.Deposit(ctx, alice, amount(-1))
		require.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = e.Deposit(ctx, "", amount(1))
		require.ErrorIs(t, err, domain.ErrInvalidAccount)

		requireBalance(t, e, alice, 0)
		requireTotalDeposits(t, e, 0)
		e.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestWithdraw(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)

		transfer, err := e.Withdraw(ctx, alice, amount(30))
		require.NoError(t, err)
		require.NotNil(t, transfer)
		require.Equal(t, domain.TransferKindWithdrawal, transfer.Kind)
		require.Equal(t, alice, transfer.Recipient)
		require.True(t, amount(30).Equal(transfer.Amount))
		require.False(t, transfer.IsDispatched())

		requireBalance(t, e, alice, 70)
		requireTotalDeposits(t, e, 70)

		notified := e.notifier.notified()
		require.Len(t, notified, 1)
		require.Equal(t, transfer.Id, notified[0].Id)

		transfers, err := e.ListTransfers(ctx, nil)
		require.NoError(t, err)
		require.Len(t, transfers, 1)
		require.Equal(t, transfer.Id, transfers[0].Id)

		// Full drain leaves a zero balance.
		_, err = e.Withdraw(ctx, alice, amount(70))
		require.NoError(t, err)
		requireBalance(t, e, alice, 0)
		requireTotalDeposits(t, e, 0)
	})
}

func TestWithdrawZero(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		transfer, err := e.Withdraw(ctx, alice, decimal.Zero)
		require.NoError(t, err)
		require.Nil(t, transfer)

		transfers, err := e.ListTransfers(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, transfers)
		require.Empty(t, e.notifier.notified())
		requireBalance(t, e, alice, 0)
	})
}

func TestFailingWithdraw(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)

		_, err := e.Withdraw(ctx, alice, amount(101))
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		_, err = e.Withdraw(ctx, bob, amount(1))
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		_, err = e.Withdraw(ctx, alice, amount(-1))
		require.ErrorIs(t, err, domain.ErrInvalidAmount)

		requireBalance(t, e, alice, 100)
		requireTotalDeposits(t, e, 100)
		require.Empty(t, e.notifier.notified())
	})
}

// total_deposits only tracks deposits and withdrawals, executions leave it
// untouched.
func TestTotalDepositsIgnoresExecutions(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(100))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, owner, "o1", bob, amount(100))
		require.NoError(t, err)
		requireTotalDeposits(t, e, 100)

		deposit(t, e, bob, 50)
		_, err = e.Withdraw(ctx, bob, amount(50))
		require.NoError(t, err)
		requireTotalDeposits(t, e, 100)

		deposit(t, e, carol, 10)
		_, err = e.Withdraw(ctx, alice, decimal.Zero)
		require.NoError(t, err)
		requireTotalDeposits(t, e, 110)

		_, err = e.Withdraw(ctx, carol, amount(10))
		require.NoError(t, err)
		requireTotalDeposits(t, e, 100)
	})
}

func TestCreateOrder(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)

		order, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)
		require.Equal(t, "o1", order.Id)
		require.Equal(t, alice, order.Maker)
		require.Empty(t, order.Taker)
		require.True(t, order.IsPending())
		require.Equal(t, e.clock.Now().UnixNano(), order.CreatedAt)
		require.Zero(t, order.ExecutedAt)

		// Funds are not reserved.
		requireBalance(t, e, alice, 100)

		got, err := e.GetOrder(ctx, "o1")
		require.NoError(t, err)
		require.Equal(t, order.Id, got.Id)
		require.True(t, order.Amount.Equal(got.Amount))

		// Zero amount orders are allowed.
		_, err = e.CreateOrder(ctx, bob, "o2", decimal.Zero)
		require.NoError(t, err)
	})
}

func TestFailingCreateOrder(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)

		_, err := e.CreateOrder(ctx, alice, "o1", amount(101))
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		_, err = e.CreateOrder(ctx, alice, "", amount(1))
		require.ErrorIs(t, err, domain.ErrInvalidOrderId)

		_, err = e.CreateOrder(ctx, alice, "o1", amount(-1))
		require.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = e.GetOrder(ctx, "o1")
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestCreateOrderOverwrites(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		deposit(t, e, bob, 100)

		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.NoError(t, err)

		e.clock.Add(time.Second)
		_, err = e.CreateOrder(ctx, bob, "o1", amount(10))
		require.NoError(t, err)

		order, err := e.GetOrder(ctx, "o1")
		require.NoError(t, err)
		require.Equal(t, bob, order.Maker)
		require.True(t, order.IsPending())
		require.Empty(t, order.Taker)
		require.True(t, amount(10).Equal(order.Amount))
	})
}

// Scenario: deposit 100, create 40, solver executes, the maker is debited
// and the taker payout is requested.
func TestExecuteOrder(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)

		e.clock.Add(time.Minute)
		order, transfer, err := e.ExecuteOrder(ctx, solver, "o1", carol, amount(40))
		require.NoError(t, err)
		require.True(t, order.IsExecuted())
		require.Equal(t, carol, order.Taker)
		require.Equal(t, e.clock.Now().UnixNano(), order.ExecutedAt)

		require.NotNil(t, transfer)
		require.Equal(t, domain.TransferKindOrderExecution, transfer.Kind)
		require.Equal(t, carol, transfer.Recipient)
		require.Equal(t, "o1", transfer.OrderId)
		require.True(t, amount(40).Equal(transfer.Amount))

		requireBalance(t, e, alice, 60)
		// The taker is paid out through the transfer, not the ledger.
		requireBalance(t, e, carol, 0)
		requireTotalDeposits(t, e, 100)

		got, err := e.GetOrder(ctx, "o1")
		require.NoError(t, err)
		require.True(t, got.IsExecuted())
		require.Equal(t, carol, got.Taker)

		notified := e.notifier.notified()
		require.Len(t, notified, 1)
		require.Equal(t, transfer.Id, notified[0].Id)
	})
}

func TestFailingExecuteOrder(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)

		tests := []struct {
			name          string
			caller        string
			orderId       string
			taker         string
			amount        int64
			expectedError error
		}{
			{"order_not_found", owner, "missing", carol, 40, domain.ErrOrderNotFound},
			{"amount_mismatch", owner, "o1", carol, 39, domain.ErrOrderAmountMismatch},
			{"not_authorized", bob, "o1", carol, 40, domain.ErrUnauthorized},
			{"maker_not_authorized", alice, "o1", carol, 40, domain.ErrUnauthorized},
			{"missing_taker", owner, "o1", "", 40, domain.ErrInvalidAccount},
			{"negative_amount", owner, "o1", carol, -40, domain.ErrInvalidAmount},
			// Checks are made in order: the order lookup first, then the
			// arguments, then the amount before authorization.
			{"not_found_before_taker", owner, "missing", "", 40, domain.ErrOrderNotFound},
			{"not_found_before_amount", owner, "missing", carol, -1, domain.ErrOrderNotFound},
			{"mismatch_before_auth", bob, "o1", carol, 1, domain.ErrOrderAmountMismatch},
		}
		for _, tt := range tests {
			_, _, err := e.ExecuteOrder(ctx, tt.caller, tt.orderId, tt.taker, amount(tt.amount))
			require.ErrorIs(t, err, tt.expectedError, tt.name)
		}

		order, err := e.GetOrder(ctx, "o1")
		require.NoError(t, err)
		require.True(t, order.IsPending())
		requireBalance(t, e, alice, 100)
		require.Empty(t, e.notifier.notified())
	})
}

// Scenario: the maker spends the funds before execution. The execution is
// rejected and nothing changes.
func TestExecuteOrderInsufficientMakerBalance(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 50)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)
		_, err = e.Withdraw(ctx, alice, amount(30))
		require.NoError(t, err)

		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		order, err := e.GetOrder(ctx, "o1")
		require.NoError(t, err)
		require.True(t, order.IsPending())
		require.Empty(t, order.Taker)
		require.Zero(t, order.ExecutedAt)
		requireBalance(t, e, alice, 20)

		transfers, err := e.ListTransfers(ctx, nil)
		require.NoError(t, err)
		require.Len(t, transfers, 1)
		require.Equal(t, domain.TransferKindWithdrawal, transfers[0].Kind)
	})
}

// Scenario: two orders against the same funds, only the first execution
// succeeds.
func TestExecuteOrdersOverCommitted(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(80))
		require.NoError(t, err)
		_, err = e.CreateOrder(ctx, alice, "o2", amount(80))
		require.NoError(t, err)

		_, _, err = e.ExecuteOrder(ctx, owner, "o1", bob, amount(80))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, owner, "o2", bob, amount(80))
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		requireBalance(t, e, alice, 20)
		o2, err := e.GetOrder(ctx, "o2")
		require.NoError(t, err)
		require.True(t, o2.IsPending())
	})
}

func TestExecuteOrderTwice(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)

		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.ErrorIs(t, err, domain.ErrOrderNotPending)

		requireBalance(t, e, alice, 60)
		require.Len(t, e.notifier.notified(), 1)
	})
}

// Scenario: cancel by the maker, then execution is rejected.
func TestCancelOrder(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)

		_, err = e.CancelOrder(ctx, bob, "o1")
		require.ErrorIs(t, err, domain.ErrUnauthorized)

		order, err := e.CancelOrder(ctx, alice, "o1")
		require.NoError(t, err)
		require.True(t, order.IsCancelled())
		requireBalance(t, e, alice, 100)

		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.ErrorIs(t, err, domain.ErrOrderNotPending)

		_, err = e.CancelOrder(ctx, alice, "o1")
		require.ErrorIs(t, err, domain.ErrOrderNotPending)

		_, err = e.CancelOrder(ctx, alice, "missing")
		require.ErrorIs(t, err, domain.ErrOrderNotFound)

		requireBalance(t, e, alice, 100)
	})
}

func TestCancelExecutedOrder(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.NoError(t, err)

		_, err = e.CancelOrder(ctx, alice, "o1")
		require.ErrorIs(t, err, domain.ErrOrderNotPending)
		// Authorization is checked before the status.
		_, err = e.CancelOrder(ctx, bob, "o1")
		require.ErrorIs(t, err, domain.ErrUnauthorized)

		order, err := e.GetOrder(ctx, "o1")
		require.NoError(t, err)
		require.True(t, order.IsExecuted())
	})
}

func TestFailOrder(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)

		_, err = e.FailOrder(ctx, solver, "o1", "timeout")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = e.FailOrder(ctx, owner, "missing", "timeout")
		require.ErrorIs(t, err, domain.ErrOrderNotFound)

		order, err := e.FailOrder(ctx, owner, "o1", "timeout")
		require.NoError(t, err)
		require.True(t, order.IsFailed())
		require.Equal(t, "timeout", order.FailReason)
		requireBalance(t, e, alice, 100)

		_, err = e.FailOrder(ctx, owner, "o1", "again")
		require.ErrorIs(t, err, domain.ErrOrderNotPending)
		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.ErrorIs(t, err, domain.ErrOrderNotPending)
		_, err = e.CancelOrder(ctx, alice, "o1")
		require.ErrorIs(t, err, domain.ErrOrderNotPending)
	})
}

func TestSolverRegistry(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		ok, err := e.IsAuthorized(ctx, owner)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = e.IsAuthorized(ctx, solver)
		require.NoError(t, err)
		require.True(t, ok)

		// Names merely containing "solver" are not trusted.
		ok, err = e.IsAuthorized(ctx, "fake-solver")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = e.IsAuthorized(ctx, "")
		require.NoError(t, err)
		require.False(t, ok)

		require.ErrorIs(t, e.AddSolver(ctx, solver, bob), domain.ErrUnauthorized)
		require.ErrorIs(t, e.RemoveSolver(ctx, bob, solver), domain.ErrUnauthorized)
		require.ErrorIs(t, e.AddSolver(ctx, owner, ""), domain.ErrInvalidSolver)

		require.NoError(t, e.AddSolver(ctx, owner, bob))
		ok, err = e.IsAuthorized(ctx, bob)
		require.NoError(t, err)
		require.True(t, ok)

		solvers, err := e.ListSolvers(ctx)
		require.NoError(t, err)
		require.Len(t, solvers, 2)
		require.Equal(t, bob, solvers[0].Id)
		require.Equal(t, solver, solvers[1].Id)

		require.NoError(t, e.RemoveSolver(ctx, owner, solver))
		ok, err = e.IsAuthorized(ctx, solver)
		require.NoError(t, err)
		require.False(t, ok)

		deposit(t, e, alice, 10)
		_, err = e.CreateOrder(ctx, alice, "o1", amount(10))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, solver, "o1", carol, amount(10))
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		_, _, err = e.ExecuteOrder(ctx, bob, "o1", carol, amount(10))
		require.NoError(t, err)
	})
}

func TestGetBalances(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		balances, err := e.GetBalances(ctx, alice)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		require.Equal(t, domain.NativeToken, balances[0].Token)
		require.True(t, balances[0].Amount.IsZero())

		deposit(t, e, alice, 42)
		balances, err = e.GetBalances(ctx, alice)
		require.NoError(t, err)
		require.True(t, amount(42).Equal(balances[0].Amount))
	})
}

func TestListOrders(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		deposit(t, e, bob, 100)

		for _, id := range []string{"a1", "a2", "a3"} {
			e.clock.Add(time.Second)
			_, err := e.CreateOrder(ctx, alice, id, amount(10))
			require.NoError(t, err)
		}
		e.clock.Add(time.Second)
		_, err := e.CreateOrder(ctx, bob, "b1", amount(10))
		require.NoError(t, err)
		_, err = e.CancelOrder(ctx, alice, "a1")
		require.NoError(t, err)

		orders, err := e.ListOrders(ctx, domain.OrderFilter{}, nil)
		require.NoError(t, err)
		require.Len(t, orders, 4)
		require.Equal(t, "b1", orders[0].Id)
		require.Equal(t, "a1", orders[3].Id)

		pending := domain.OrderStatusPending
		orders, err = e.ListOrders(
			ctx, domain.OrderFilter{Maker: alice, Status: &pending}, nil,
		)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		require.Equal(t, "a3", orders[0].Id)

		page := domain.NewPage(1, 2)
		orders, err = e.ListOrders(ctx, domain.OrderFilter{}, &page)
		require.NoError(t, err)
		require.Len(t, orders, 2)
	})
}

func TestGetStats(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		deposit(t, e, bob, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(10))
		require.NoError(t, err)
		_, err = e.CreateOrder(ctx, alice, "o2", amount(10))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(10))
		require.NoError(t, err)
		_, err = e.Withdraw(ctx, bob, amount(5))
		require.NoError(t, err)

		stats, err := e.GetStats(ctx)
		require.NoError(t, err)
		require.True(t, amount(195).Equal(stats.TotalDeposits))
		require.Equal(t, 2, stats.NumOfAccounts)
		require.Equal(t, 1, stats.OrdersByStatus[domain.OrderStatusPending])
		require.Equal(t, 1, stats.OrdersByStatus[domain.OrderStatusExecuted])
		require.Equal(t, 2, stats.PendingTransfers)
	})
}

func TestPublishedEvents(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 100)
		_, err := e.CreateOrder(ctx, alice, "o1", amount(40))
		require.NoError(t, err)
		_, _, err = e.ExecuteOrder(ctx, owner, "o1", carol, amount(40))
		require.NoError(t, err)

		var executed domain.Event
		for _, call := range e.publisher.Calls {
			if call.Arguments.String(0) == string(domain.EventOrderExecuted) {
				require.NoError(t, json.Unmarshal(
					[]byte(call.Arguments.String(1)), &executed,
				))
			}
		}
		require.Equal(t, domain.EventOrderExecuted, executed.Type)
		require.Equal(t, alice, executed.Account)
		require.Equal(t, carol, executed.Taker)
		require.Equal(t, "o1", executed.OrderId)
		require.True(t, amount(40).Equal(executed.Amount))
		require.True(t, amount(60).Equal(executed.Balance))
	})
}

// Conservation: the sum of the balances equals the deposits minus the
// withdrawals minus the executed order amounts.
func TestConservationOfFunds(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		accounts := []string{alice, bob, carol}
		deposited, withdrawn, executed := int64(0), int64(0), int64(0)

		for i, account := range accounts {
			value := int64(100 * (i + 1))
			deposit(t, e, account, value)
			deposited += value
		}

		for i, account := range accounts {
			orderId := account + "-order"
			_, err := e.CreateOrder(ctx, account, orderId, amount(int64(30+i)))
			require.NoError(t, err)
			if i%2 == 0 {
				_, _, err := e.ExecuteOrder(
					ctx, solver, orderId, accounts[(i+1)%3], amount(int64(30+i)),
				)
				require.NoError(t, err)
				executed += int64(30 + i)
			}
		}

		_, err := e.Withdraw(ctx, bob, amount(50))
		require.NoError(t, err)
		withdrawn += 50
		_, err = e.Withdraw(ctx, carol, amount(1000))
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		total := decimal.Zero
		for _, account := range accounts {
			balance, err := e.GetBalance(ctx, account)
			require.NoError(t, err)
			require.False(t, balance.IsNegative())
			total = total.Add(balance)
		}
		require.True(
			t, amount(deposited-withdrawn-executed).Equal(total),
			"got %s", total,
		)
	})
}

func TestConcurrentOperations(t *testing.T) {
	forEachRepoManager(t, func(t *testing.T, e *testEngine) {
		deposit(t, e, alice, 1000)
		for i := 0; i < 10; i++ {
			_, err := e.CreateOrder(ctx, alice, fmt.Sprintf("o%d", i), amount(150))
			require.NoError(t, err)
		}

		wg := &sync.WaitGroup{}
		executed := make(chan struct{}, 10)
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_, _, err := e.ExecuteOrder(
					ctx, solver, fmt.Sprintf("o%d", i), carol, amount(150),
				)
				if err == nil {
					executed <- struct{}{}
				}
			}(i)
			go func() {
				defer wg.Done()
				_, _ = e.Deposit(ctx, bob, amount(1))
			}()
		}
		wg.Wait()
		close(executed)

		// Only 6 executions of 150 fit into 1000.
		require.Len(t, executed, 6)
		requireBalance(t, e, alice, 100)
		requireBalance(t, e, bob, 10)
		requireTotalDeposits(t, e, 1010)
	})
}
