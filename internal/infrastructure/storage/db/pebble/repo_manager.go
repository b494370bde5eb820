package dbpebble

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

type repoManager struct {
	db *pebble.DB

	accountRepository  domain.AccountRepository
	orderRepository    domain.OrderRepository
	transferRepository domain.TransferRepository
	solverRepository   domain.SolverRepository
	statsRepository    domain.StatsRepository

	// pebble batches carry no conflict detection, read-write transactions
	// are serialized instead.
	txLocker *sync.Mutex
}

// NewRepoManager opens (or creates if not exists) the pebble db in the
// given directory. An empty baseDbDir opens an in-memory db.
func NewRepoManager(baseDbDir string) (ports.RepoManager, error) {
	opts := &pebble.Options{
		Cache:        pebble.NewCache(64 << 20),
		MemTableSize: 32 << 20,
		MaxOpenFiles: 1000,
		BytesPerSync: 512 << 10,
	}
	defer opts.Cache.Unref()

	dbDir := filepath.Join(baseDbDir, "ledger")
	if len(baseDbDir) <= 0 {
		dbDir = ""
		opts.FS = vfs.NewMem()
	}

	db, err := pebble.Open(dbDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db at %s: %w", dbDir, err)
	}

	store := &kvStore{db}
	return &repoManager{
		db:                 db,
		accountRepository:  NewAccountRepositoryImpl(store),
		orderRepository:    NewOrderRepositoryImpl(store),
		transferRepository: NewTransferRepositoryImpl(store),
		solverRepository:   NewSolverRepositoryImpl(store),
		statsRepository:    NewStatsRepositoryImpl(store),
		txLocker:           &sync.Mutex{},
	}, nil
}

func (m *repoManager) AccountRepository() domain.AccountRepository {
	return m.accountRepository
}

func (m *repoManager) OrderRepository() domain.OrderRepository {
	return m.orderRepository
}

func (m *repoManager) TransferRepository() domain.TransferRepository {
	return m.transferRepository
}

func (m *repoManager) SolverRepository() domain.SolverRepository {
	return m.solverRepository
}

func (m *repoManager) StatsRepository() domain.StatsRepository {
	return m.statsRepository
}

func (m *repoManager) Close() {
	if err := m.db.Close(); err != nil {
		log.WithError(err).Warn("error while closing ledger db")
	}
}

// RunTransaction runs the handler against a db snapshot when readOnly,
// otherwise against an indexed batch committed synchronously on success.
func (m *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if readOnly {
		snapshot := m.db.NewSnapshot()
		defer snapshot.Close()

		return handler(context.WithValue(ctx, txKey{}, &tx{reader: snapshot}))
	}

	m.txLocker.Lock()
	defer m.txLocker.Unlock()

	batch := m.db.NewIndexedBatch()
	defer batch.Close()

	res, err := handler(
		context.WithValue(ctx, txKey{}, &tx{reader: batch, batch: batch}),
	)
	if err != nil {
		return nil, err
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}
	return res, nil
}
