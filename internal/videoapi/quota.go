package videoapi

import (
	"sync"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/metrics"
)

// QuotaStatus is a point-in-time read of the billed-unit budget.
type QuotaStatus struct {
	Used               int `json:"quota_used"`
	Remaining          int `json:"quota_remaining"`
	EstimatedScansLeft int `json:"estimated_scans_remaining"`
	SearchCalls        int `json:"search_calls"`
	DetailCalls        int `json:"detail_calls"`
}

// QuotaTracker counts billed API operations against the fixed daily
// ceiling. It never blocks callers: whether to keep going on a tight
// budget is the orchestrator's decision, not this tracker's.
type QuotaTracker struct {
	mu          sync.Mutex
	cfg         config.QuotaConfig
	used        int
	searchCalls int
	detailCalls int
}

// NewQuotaTracker starts a tracker with a fresh budget.
func NewQuotaTracker(cfg config.QuotaConfig) *QuotaTracker {
	return &QuotaTracker{cfg: cfg}
}

// RecordSearch bills one search operation at its fixed cost.
func (q *QuotaTracker) RecordSearch() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.searchCalls++
	q.used += q.cfg.SearchCost
	metrics.QuotaUnitsUsed.Set(float64(q.used))
}

// RecordDetails bills one detail operation, costed per item detailed.
func (q *QuotaTracker) RecordDetails(items int) {
	if items <= 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.detailCalls++
	q.used += items * q.cfg.DetailCostPerItem
	metrics.QuotaUnitsUsed.Set(float64(q.used))
}

// Status derives the current budget picture from the counters. The scan
// estimate divides remaining headroom by a conservative fixed per-candidate
// cost.
func (q *QuotaTracker) Status() QuotaStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	remaining := q.cfg.DailyLimit - q.used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{
		Used:               q.used,
		Remaining:          remaining,
		EstimatedScansLeft: remaining / q.cfg.EstimatedCostPerScan,
		SearchCalls:        q.searchCalls,
		DetailCalls:        q.detailCalls,
	}
}

// Exhausted reports whether the next estimated scan would overrun the
// budget. Callers may still choose to proceed.
func (q *QuotaTracker) Exhausted() bool {
	return q.Status().EstimatedScansLeft == 0
}
