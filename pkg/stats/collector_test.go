package stats_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/pkg/stats"
)

func TestCollector(t *testing.T) {
	source := func(context.Context) (*stats.Snapshot, error) {
		return &stats.Snapshot{
			TotalDeposits: 900,
			NumOfAccounts: 2,
			OrdersByStatus: map[string]int{
				"pending":  1,
				"executed": 3,
			},
			PendingTransfers: 4,
		}, nil
	}

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(stats.NewCollector(source, time.Second)))

	families, err := registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name = fmt.Sprintf("%s{%s=%s}", name, l.GetName(), l.GetValue())
			}
			values[name] = m.GetGauge().GetValue()
		}
	}

	require.Equal(t, map[string]float64{
		"escrow_stats_up":                1,
		"escrow_total_deposits":          900,
		"escrow_accounts":                2,
		"escrow_orders{status=pending}":  1,
		"escrow_orders{status=executed}": 3,
		"escrow_pending_transfers":       4,
	}, values)
}

func TestFailingCollector(t *testing.T) {
	source := func(context.Context) (*stats.Snapshot, error) {
		return nil, fmt.Errorf("db closed")
	}

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(stats.NewCollector(source, 0)))

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Equal(t, "escrow_stats_up", families[0].GetName())
	require.Zero(t, families[0].GetMetric()[0].GetGauge().GetValue())
}
