package inmemory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type statsRepositoryImpl struct {
	stats  domain.LedgerStats
	locker *sync.RWMutex
}

// NewStatsRepositoryImpl returns a new inmemory StatsRepository
// implementation.
func NewStatsRepositoryImpl() domain.StatsRepository {
	return &statsRepositoryImpl{
		stats:  domain.LedgerStats{TotalDeposits: decimal.Zero},
		locker: &sync.RWMutex{},
	}
}

func (r *statsRepositoryImpl) GetStats(
	_ context.Context,
) (*domain.LedgerStats, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	stats := r.stats
	return &stats, nil
}

func (r *statsRepositoryImpl) UpdateStats(
	ctx context.Context,
	updateFn func(s *domain.LedgerStats) (*domain.LedgerStats, error),
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	prev := r.stats
	current := prev
	updatedStats, err := updateFn(&current)
	if err != nil {
		return err
	}
	r.stats = *updatedStats

	recordUndo(ctx, func() {
		r.locker.Lock()
		defer r.locker.Unlock()

		r.stats = prev
	})
	return nil
}
