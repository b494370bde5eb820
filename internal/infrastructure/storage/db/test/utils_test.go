package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	dbpebble "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pebble"
)

type repoManager struct {
	Name      string
	DBManager ports.RepoManager
}

func (r repoManager) read(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), true, query)
}

func (r repoManager) write(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), false, query)
}

// createRepoManagers returns a fresh, empty, instance of every RepoManager
// implementation. Managers are closed at the end of the test.
func createRepoManagers(t *testing.T) []repoManager {
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	pebbleDBManager, err := dbpebble.NewRepoManager("")
	require.NoError(t, err)

	managers := []repoManager{
		{
			Name:      "inmemory",
			DBManager: inmemory.NewRepoManager(),
		},
		{
			Name:      "badger",
			DBManager: badgerDBManager,
		},
		{
			Name:      "pebble",
			DBManager: pebbleDBManager,
		},
	}
	t.Cleanup(func() {
		for _, m := range managers {
			m.DBManager.Close()
		}
	})
	return managers
}

func makeRandomOrder(maker string, createdAt int64) *domain.Order {
	order, _ := domain.NewOrder(
		randomHex(16), maker, randomAmount(), createdAt,
	)
	return order
}

func randomAmount() decimal.Decimal {
	return decimal.NewFromInt(int64(randomIntInRange(1, 1000000)))
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64()) + min
}
