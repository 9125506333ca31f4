package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
	"github.com/memerank/memerank/internal/score/virality"
	"github.com/memerank/memerank/internal/seed"
	"github.com/memerank/memerank/internal/videoapi"
)

// VideoSearcher fetches engagement samples for a search term.
type VideoSearcher interface {
	Search(ctx context.Context, term string) ([]domain.EngagementSample, error)
}

// TrendEntry is one candidate's virality analysis.
type TrendEntry struct {
	Name   string               `json:"name"`
	Term   string               `json:"search_term"`
	Report virality.TrendReport `json:"report"`
}

// TrendsReport is the output of a trend sweep. Truncated is set when the
// quota budget ran out before every candidate was analyzed.
type TrendsReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Entries     []TrendEntry         `json:"entries"`
	Quota       videoapi.QuotaStatus `json:"quota"`
	Truncated   bool                 `json:"truncated"`
}

// TrendSweep analyzes video engagement for every seed candidate, stopping
// early when the quota tracker says the next scan will not fit.
type TrendSweep struct {
	videos VideoSearcher
	quota  *videoapi.QuotaTracker
	viral  *virality.Analyzer
	now    func() time.Time
	log    zerolog.Logger
}

// NewTrendSweep assembles the sweep.
func NewTrendSweep(cfg *config.Scoring, videos VideoSearcher, quota *videoapi.QuotaTracker) *TrendSweep {
	return &TrendSweep{
		videos: videos,
		quota:  quota,
		viral:  virality.NewAnalyzer(cfg.Virality),
		now:    time.Now,
		log:    log.With().Str("component", "trend_sweep").Logger(),
	}
}

// Run sweeps the candidate list. Per-candidate search failures are logged
// and skipped; only context cancellation aborts the sweep.
func (t *TrendSweep) Run(ctx context.Context, list *seed.List) (*TrendsReport, error) {
	now := t.now()
	out := &TrendsReport{GeneratedAt: now.UTC()}

	for _, c := range list.Matches {
		if err := ctx.Err(); err != nil {
			out.Quota = t.quota.Status()
			return out, err
		}
		if t.quota.Exhausted() {
			t.log.Warn().Int("analyzed", len(out.Entries)).
				Msg("quota exhausted, stopping sweep early")
			out.Truncated = true
			break
		}

		term := videoapi.CleanSearchTerm(c.Name)
		samples, err := t.videos.Search(ctx, term)
		if err != nil {
			t.log.Warn().Err(err).Str("candidate", c.Name).Msg("video search failed")
			continue
		}
		out.Entries = append(out.Entries, TrendEntry{
			Name:   c.Name,
			Term:   term,
			Report: t.viral.Analyze(samples, now),
		})
	}

	sort.SliceStable(out.Entries, func(i, j int) bool {
		a, b := out.Entries[i].Report, out.Entries[j].Report
		if a.Combined != b.Combined {
			return a.Combined > b.Combined
		}
		return a.RecentViews > b.RecentViews
	})

	out.Quota = t.quota.Status()
	return out, nil
}
