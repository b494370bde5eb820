package stats

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const namespace = "escrow"

// Snapshot is a point in time view of the ledger counters.
type Snapshot struct {
	TotalDeposits    float64
	NumOfAccounts    int
	OrdersByStatus   map[string]int
	PendingTransfers int
}

// Source returns the current ledger counters.
type Source func(ctx context.Context) (*Snapshot, error)

// Collector exports the ledger counters as Prometheus gauges, reading a fresh
// snapshot at every scrape.
type Collector struct {
	source  Source
	timeout time.Duration

	up               *prometheus.Desc
	totalDeposits    *prometheus.Desc
	numOfAccounts    *prometheus.Desc
	orders           *prometheus.Desc
	pendingTransfers *prometheus.Desc
}

func NewCollector(source Source, timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Collector{
		source:  source,
		timeout: timeout,
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "stats_up"),
			"Whether the last read of the ledger counters succeeded.",
			nil, nil,
		),
		totalDeposits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "total_deposits"),
			"Running total of deposits net of withdrawals, in base units.",
			nil, nil,
		),
		numOfAccounts: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "accounts"),
			"Number of accounts known to the ledger.",
			nil, nil,
		),
		orders: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "orders"),
			"Number of orders by status.",
			[]string{"status"}, nil,
		),
		pendingTransfers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pending_transfers"),
			"Number of requested transfers not yet delivered to the sink.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.totalDeposits
	ch <- c.numOfAccounts
	ch <- c.orders
	ch <- c.pendingTransfers
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	snapshot, err := c.source(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to collect ledger statistics")
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(
		c.totalDeposits, prometheus.GaugeValue, snapshot.TotalDeposits,
	)
	ch <- prometheus.MustNewConstMetric(
		c.numOfAccounts, prometheus.GaugeValue, float64(snapshot.NumOfAccounts),
	)
	for status, count := range snapshot.OrdersByStatus {
		ch <- prometheus.MustNewConstMetric(
			c.orders, prometheus.GaugeValue, float64(count), status,
		)
	}
	ch <- prometheus.MustNewConstMetric(
		c.pendingTransfers, prometheus.GaugeValue,
		float64(snapshot.PendingTransfers),
	)
}
