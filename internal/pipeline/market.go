// Package pipeline wires the fetchers, scorers and ranker into the three
// run modes: the market scan, the pair search and the trend sweep.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
	"github.com/memerank/memerank/internal/metrics"
	"github.com/memerank/memerank/internal/rank"
	"github.com/memerank/memerank/internal/report"
	"github.com/memerank/memerank/internal/score/market"
	"github.com/memerank/memerank/internal/score/temporal"
	"github.com/memerank/memerank/internal/score/virality"
	"github.com/memerank/memerank/internal/seed"
)

// MarketSource fetches one pair snapshot. Satisfied by the dexscreener
// client; stubbed in tests.
type MarketSource interface {
	PairSnapshot(ctx context.Context, chain, pairAddress string) (*domain.MarketSnapshot, bool)
}

// ViewsScorer maps a candidate's raw view count onto the 0-100 views score.
// Pluggable so callers can swap in their own audience model.
type ViewsScorer func(c domain.Candidate) float64

// DefaultViewsScore is a monotone transform of total views: 50 points of
// base plus one point per ten thousand views, clamped to [20,100].
func DefaultViewsScore(c domain.Candidate) float64 {
	score := float64(c.Views)/10000 + 50
	if score < 20 {
		score = 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

// MarketScan runs the full seed-to-rankings pass.
type MarketScan struct {
	cfg    *config.Scoring
	source MarketSource
	viral  *virality.Analyzer
	market *market.Scorer
	temp   *temporal.Analyzer
	views  ViewsScorer
	now    func() time.Time
	log    zerolog.Logger
}

// ScanOption customizes a MarketScan.
type ScanOption func(*MarketScan)

// WithViewsScorer replaces the default views model.
func WithViewsScorer(v ViewsScorer) ScanOption {
	return func(s *MarketScan) { s.views = v }
}

// WithClock fixes the scan clock, for tests.
func WithClock(now func() time.Time) ScanOption {
	return func(s *MarketScan) { s.now = now }
}

// NewMarketScan assembles a scan over the given market source.
func NewMarketScan(cfg *config.Scoring, source MarketSource, opts ...ScanOption) *MarketScan {
	s := &MarketScan{
		cfg:    cfg,
		source: source,
		viral:  virality.NewAnalyzer(cfg.Virality),
		market: market.NewScorer(cfg.Market),
		temp:   temporal.NewAnalyzer(cfg.Temporal),
		views:  DefaultViewsScore,
		now:    time.Now,
		log:    log.With().Str("component", "market_scan").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// score produces the full breakdown for one candidate, or nil when the
// candidate drops out: no market data, market cap outside the band, or no
// recorded engagement.
func (s *MarketScan) score(ctx context.Context, c domain.Candidate, now time.Time) *domain.ScoredCandidate {
	snap, ok := s.source.PairSnapshot(ctx, c.Chain, c.PairAddress)
	if !ok {
		return nil
	}

	mcap := snap.ResolveMarketCap()
	band := s.cfg.Ranking
	if mcap < band.MarketCapMinUSD || mcap > band.MarketCapMaxUSD {
		s.log.Debug().Str("name", c.Name).Float64("market_cap", mcap).
			Msg("market cap outside band")
		return nil
	}

	viral := s.viral.EngagementScore(c)
	if viral <= 0 {
		return nil
	}

	marketScore, _ := s.market.Score(snap)
	breakdown := domain.ScoreBreakdown{
		Market:   marketScore,
		Temporal: s.temp.Score(snap.PairCreatedAt, c.AddedAt, now),
		Viral:    viral,
		Views:    s.views(c),
	}
	return &domain.ScoredCandidate{Candidate: c, Snapshot: snap, Scores: breakdown}
}

// Run fetches and scores every candidate, batch by batch, and returns the
// published ranking document. Candidate order within a batch is preserved
// regardless of fetch completion order. A cancelled context returns what
// has been scored so far along with the context error.
func (s *MarketScan) Run(ctx context.Context, list *seed.List) (*report.Document, error) {
	now := s.now()
	batchSize := s.cfg.Fetch.BatchSize
	scored := make([]domain.ScoredCandidate, 0, len(list.Matches))

	var runErr error
	for start := 0; start < len(list.Matches); start += batchSize {
		end := start + batchSize
		if end > len(list.Matches) {
			end = len(list.Matches)
		}
		batch := list.Matches[start:end]

		results := make([]*domain.ScoredCandidate, len(batch))
		var wg sync.WaitGroup
		for i, c := range batch {
			wg.Add(1)
			go func(i int, c domain.Candidate) {
				defer wg.Done()
				results[i] = s.score(ctx, c, now)
			}(i, c)
		}
		wg.Wait()
		metrics.BatchesTotal.Inc()

		for _, r := range results {
			if r != nil {
				scored = append(scored, *r)
			}
		}

		if ctx.Err() != nil {
			runErr = ctx.Err()
			break
		}
		if end < len(list.Matches) {
			select {
			case <-time.After(s.cfg.Fetch.BatchDelay()):
			case <-ctx.Done():
				runErr = ctx.Err()
			}
			if runErr != nil {
				break
			}
		}
	}

	ranked := rank.TopN(rank.Rank(scored), s.cfg.Ranking.TopN)
	metrics.CandidatesRanked.Set(float64(len(ranked)))
	s.log.Info().Int("seeded", len(list.Matches)).Int("ranked", len(ranked)).
		Msg("scan complete")

	return report.Build(ranked, list.MemesProcessed, now), runErr
}
