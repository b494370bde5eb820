package escrow_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	dbpebble "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pebble"
)

const (
	owner  = "owner"
	solver = "solver.near"
	alice  = "alice"
	bob    = "bob"
	carol  = "carol"
)

type testEngine struct {
	*escrow.Service
	clock     *clock.Mock
	publisher *mockPublisher
	notifier  *mockNotifier
}

type repoManagerFactory struct {
	name    string
	factory func(t *testing.T) ports.RepoManager
}

var repoManagerFactories = []repoManagerFactory{
	{
		name: "inmemory",
		factory: func(t *testing.T) ports.RepoManager {
			return inmemory.NewRepoManager()
		},
	},
	{
		name: "badger",
		factory: func(t *testing.T) ports.RepoManager {
			repoManager, err := dbbadger.NewRepoManager("", nil)
			require.NoError(t, err)
			return repoManager
		},
	},
	{
		name: "pebble",
		factory: func(t *testing.T) ports.RepoManager {
			repoManager, err := dbpebble.NewRepoManager("")
			require.NoError(t, err)
			return repoManager
		},
	},
}

// forEachRepoManager runs the given test against a fresh engine for every
// storage implementation.
func forEachRepoManager(t *testing.T, test func(t *testing.T, e *testEngine)) {
	for _, f := range repoManagerFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			test(t, newTestEngine(t, f.factory(t)))
		})
	}
}

func newTestEngine(t *testing.T, repoManager ports.RepoManager) *testEngine {
	clk := clock.NewMock()
	clk.Set(time.Unix(1700000000, 0))

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	notifier := &mockNotifier{}

	svc, err := escrow.NewService(
		repoManager, publisher, notifier, clk, owner, []string{solver},
	)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	return &testEngine{svc, clk, publisher, notifier}
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func requireBalance(t *testing.T, e *testEngine, account string, expected int64) {
	t.Helper()
	balance, err := e.GetBalance(ctx, account)
	require.NoError(t, err)
	require.True(
		t, amount(expected).Equal(balance),
		"expected balance %d for %s, got %s", expected, account, balance,
	)
}

func requireTotalDeposits(t *testing.T, e *testEngine, expected int64) {
	t.Helper()
	total, err := e.GetTotalDeposits(ctx)
	require.NoError(t, err)
	require.True(
		t, amount(expected).Equal(total),
		"expected total deposits %d, got %s", expected, total,
	)
}

func deposit(t *testing.T, e *testEngine, account string, value int64) {
	t.Helper()
	_, err := e.Deposit(ctx, account, amount(value))
	require.NoError(t, err)
}
