package dbpebble

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type statsRepositoryImpl struct {
	store *kvStore
}

func NewStatsRepositoryImpl(store *kvStore) domain.StatsRepository {
	return &statsRepositoryImpl{store}
}

func (r *statsRepositoryImpl) GetStats(
	ctx context.Context,
) (*domain.LedgerStats, error) {
	stats := domain.LedgerStats{TotalDeposits: decimal.Zero}
	if _, err := r.store.get(ctx, []byte(keyStats), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statsRepositoryImpl) UpdateStats(
	ctx context.Context,
	updateFn func(s *domain.LedgerStats) (*domain.LedgerStats, error),
) error {
	stats, err := r.GetStats(ctx)
	if err != nil {
		return err
	}

	updatedStats, err := updateFn(stats)
	if err != nil {
		return err
	}

	return r.store.set(ctx, []byte(keyStats), updatedStats)
}
