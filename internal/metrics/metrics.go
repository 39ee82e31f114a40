package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"vidgate/internal/db"
)

// Download outcomes recorded by the orchestrator.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	// OutcomeStale is a fetch that finished after its link left the
	// approved state, so the result was discarded.
	OutcomeStale = "stale"
)

var (
	linkStatusDesc = prometheus.NewDesc(
		"vidgate_links",
		"Number of tracked links by status",
		[]string{"status"},
		nil,
	)

	downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidgate_downloads_total",
			Help: "Download attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// StatusCollector is a custom Prometheus collector that reads link status
// counts from the database on each scrape.
type StatusCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *StatusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- linkStatusDesc
}

// Collect queries the database for status counts and emits them as gauges.
func (c *StatusCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.StatusCounts(context.Background())
	if err != nil {
		slog.Error("failed to collect link status metrics", "error", err)
		return
	}
	for status, count := range counts {
		ch <- prometheus.MustNewConstMetric(
			linkStatusDesc,
			prometheus.GaugeValue,
			float64(count),
			status,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&StatusCollector{db: database})
		prometheus.MustRegister(downloadsTotal)
	})
}

// RecordDownload counts a download attempt by outcome.
func RecordDownload(outcome string) {
	downloadsTotal.WithLabelValues(outcome).Inc()
}
