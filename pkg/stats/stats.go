package stats

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

// EnableStatistics enables a go routine that periodically logs the ledger
// counters returned by source together with the memory usage of the
// process. The routine exits once ctx is done.
func EnableStatistics(ctx context.Context, interval time.Duration, source Source) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintLedgerStatistics(ctx, source)
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// PrintLedgerStatistics logs a snapshot of the ledger counters.
func PrintLedgerStatistics(ctx context.Context, source Source) {
	if source == nil {
		return
	}
	snapshot, err := source(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to read ledger statistics")
		return
	}

	log.WithFields(log.Fields{
		"total_deposits":    snapshot.TotalDeposits,
		"accounts":          snapshot.NumOfAccounts,
		"orders_by_status":  snapshot.OrdersByStatus,
		"pending_transfers": snapshot.PendingTransfers,
	}).Info("ledger statistics")
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Debugf(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Debugf("Num of go routines: %v", runtime.NumGoroutine())
}
