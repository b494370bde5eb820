package domain

import "context"

// StatsRepository persists the ledger counters.
type StatsRepository interface {
	// GetStats returns the current counters, zeroed if never updated.
	GetStats(ctx context.Context) (*LedgerStats, error)
	UpdateStats(
		ctx context.Context,
		updateFn func(s *LedgerStats) (*LedgerStats, error),
	) error
}
