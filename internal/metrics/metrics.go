// Package metrics registers the Prometheus collectors shared by the
// pipelines and exposed by the serve command.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts market data lookups by outcome
	// (hit, absent, rejected_chain, cache_hit).
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "memerank",
		Name:      "market_fetches_total",
		Help:      "Market data lookups by outcome",
	}, []string{"outcome"})

	// BatchesTotal counts completed fetch batches.
	BatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "memerank",
		Name:      "fetch_batches_total",
		Help:      "Completed candidate fetch batches",
	})

	// QuotaUnitsUsed tracks billed video platform quota units this run.
	QuotaUnitsUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "memerank",
		Name:      "video_quota_units_used",
		Help:      "Video platform quota units consumed",
	})

	// CandidatesRanked reports the size of the last ranked output.
	CandidatesRanked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "memerank",
		Name:      "candidates_ranked",
		Help:      "Candidates in the most recent ranked output",
	})
)
