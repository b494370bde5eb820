package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
)

type repoManager struct {
	accountRepository  domain.AccountRepository
	orderRepository    domain.OrderRepository
	transferRepository domain.TransferRepository
	solverRepository   domain.SolverRepository
	statsRepository    domain.StatsRepository

	txLocker *sync.RWMutex
}

func NewRepoManager() ports.RepoManager {
	return &repoManager{
		accountRepository:  NewAccountRepositoryImpl(),
		orderRepository:    NewOrderRepositoryImpl(),
		transferRepository: NewTransferRepositoryImpl(),
		solverRepository:   NewSolverRepositoryImpl(),
		statsRepository:    NewStatsRepositoryImpl(),
		txLocker:           &sync.RWMutex{},
	}
}

func (d *repoManager) AccountRepository() domain.AccountRepository {
	return d.accountRepository
}

func (d *repoManager) OrderRepository() domain.OrderRepository {
	return d.orderRepository
}

func (d *repoManager) TransferRepository() domain.TransferRepository {
	return d.transferRepository
}

func (d *repoManager) SolverRepository() domain.SolverRepository {
	return d.solverRepository
}

func (d *repoManager) StatsRepository() domain.StatsRepository {
	return d.statsRepository
}

func (d *repoManager) Close() {}

// RunTransaction runs the handler isolated from other transactions. Every
// write made through the handler's context is journaled and reverted if the
// handler fails.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if readOnly {
		d.txLocker.RLock()
		defer d.txLocker.RUnlock()

		return handler(ctx)
	}

	d.txLocker.Lock()
	defer d.txLocker.Unlock()

	j := &journal{}
	res, err := handler(context.WithValue(ctx, journalKey{}, j))
	if err != nil {
		j.rollback()
		return nil, err
	}
	return res, nil
}
