package dbbadger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const statsKey = "stats"

type statsRepositoryImpl struct {
	store *badgerhold.Store
}

func NewStatsRepositoryImpl(store *badgerhold.Store) domain.StatsRepository {
	return &statsRepositoryImpl{store}
}

func (r *statsRepositoryImpl) GetStats(
	ctx context.Context,
) (*domain.LedgerStats, error) {
	var stats domain.LedgerStats
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, statsKey, &stats)
	} else {
		err = r.store.Get(statsKey, &stats)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return &domain.LedgerStats{TotalDeposits: decimal.Zero}, nil
		}
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

	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpsert(tx, statsKey, *updatedStats)
	}
	return r.store.Upsert(statsKey, *updatedStats)
}
