package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	maxTxRetries = 5
	gcInterval   = 5 * time.Minute
)

type txKey struct{}

type repoManager struct {
	store *badgerhold.Store

	accountRepository  domain.AccountRepository
	orderRepository    domain.OrderRepository
	transferRepository domain.TransferRepository
	solverRepository   domain.SolverRepository
	statsRepository    domain.StatsRepository

	quit chan struct{}
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given directory. An empty baseDbDir opens an in-memory store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "ledger")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	m := &repoManager{
		store:              store,
		accountRepository:  NewAccountRepositoryImpl(store),
		orderRepository:    NewOrderRepositoryImpl(store),
		transferRepository: NewTransferRepositoryImpl(store),
		solverRepository:   NewSolverRepositoryImpl(store),
		statsRepository:    NewStatsRepositoryImpl(store),
		quit:               make(chan struct{}),
	}
	if len(dbDir) > 0 {
		go m.runValueLogGC()
	}
	return m, nil
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
	close(m.quit)
	if err := m.store.Close(); err != nil {
		log.WithError(err).Warn("error while closing ledger db")
	}
}

// RunTransaction runs the handler within a badger transaction carried by the
// context. Conflicting read-write transactions are retried.
func (m *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	for i := 0; ; i++ {
		res, err := m.runTransaction(ctx, readOnly, handler)
		if err != nil {
			if errors.Is(err, badger.ErrConflict) && i < maxTxRetries {
				log.Debugf("db: transaction conflict, retrying (%d)", i+1)
				time.Sleep(50 * time.Millisecond)
				continue
			}
			return nil, err
		}
		return res, nil
	}
}

func (m *repoManager) runTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := m.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (m *repoManager) runValueLogGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.quit:
			return
		case <-ticker.C:
			for {
				if err := m.store.Badger().RunValueLogGC(0.5); err != nil {
					break
				}
			}
		}
	}
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return tx
	}
	return nil
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
