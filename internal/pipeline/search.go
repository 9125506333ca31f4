package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
	"github.com/memerank/memerank/internal/score/market"
	"github.com/memerank/memerank/internal/score/temporal"
	"github.com/memerank/memerank/internal/score/text"
)

// PairSearcher runs a free-text pair search against the market source.
type PairSearcher interface {
	Search(ctx context.Context, term string) ([]domain.Pair, bool)
}

// PairMatch is one candidate-to-pair match with its relevance breakdown.
type PairMatch struct {
	Pair          domain.Pair     `json:"pair"`
	Term          string          `json:"term"`
	MatchScore    float64         `json:"match_score"`
	MarketScore   float64         `json:"market_score"`
	TemporalScore float64         `json:"temporal_score"`
	Relevance     float64         `json:"relevance"`
	Feedback      market.Feedback `json:"feedback"`
}

// PairSearch resolves seed candidates to live trading pairs by searching
// their extracted phrases and scoring every hit.
type PairSearch struct {
	searcher PairSearcher
	matcher  *text.Matcher
	market   *market.Scorer
	temp     *temporal.Analyzer
	now      func() time.Time
	log      zerolog.Logger
}

// NewPairSearch assembles the search pipeline.
func NewPairSearch(cfg *config.Scoring, searcher PairSearcher) *PairSearch {
	return &PairSearch{
		searcher: searcher,
		matcher:  text.NewMatcher(cfg.Text),
		market:   market.NewScorer(cfg.Market),
		temp:     temporal.NewAnalyzer(cfg.Temporal),
		now:      time.Now,
		log:      log.With().Str("component", "pair_search").Logger(),
	}
}

// Run searches every extracted term for one candidate and returns the
// scored matches, best first. Spam tokens and zero-match hits are dropped,
// and each pair keeps only its best-scoring term.
func (p *PairSearch) Run(ctx context.Context, c domain.Candidate) []PairMatch {
	now := p.now()
	best := make(map[string]PairMatch)

	for _, term := range p.matcher.ExtractTerms(c) {
		if ctx.Err() != nil {
			break
		}
		pairs, ok := p.searcher.Search(ctx, term.Phrase)
		if !ok {
			continue
		}
		for _, pair := range pairs {
			if p.matcher.IsSpamToken(pair.Name, pair.Symbol) {
				continue
			}
			match := p.matcher.MatchScore(pair.Name, pair.Symbol, term.Phrase, term.Weight)
			if match <= 0 {
				continue
			}

			snap := pair.Snapshot
			marketScore, feedback := p.market.Score(&snap)
			temporalScore := p.temp.Score(snap.PairCreatedAt, c.AddedAt, now)

			relevance := match + marketScore + temporalScore
			if relevance < 0 {
				relevance = 0
			}

			keyed := pair.ChainID + ":" + pair.PairAddress
			if prev, seen := best[keyed]; seen && prev.Relevance >= relevance {
				continue
			}
			best[keyed] = PairMatch{
				Pair:          pair,
				Term:          term.Phrase,
				MatchScore:    match,
				MarketScore:   marketScore,
				TemporalScore: temporalScore,
				Relevance:     relevance,
				Feedback:      feedback,
			}
		}
	}

	matches := make([]PairMatch, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Relevance != matches[j].Relevance {
			return matches[i].Relevance > matches[j].Relevance
		}
		return matches[i].Pair.Snapshot.LiquidityUSD > matches[j].Pair.Snapshot.LiquidityUSD
	})

	p.log.Debug().Str("candidate", c.Name).Int("matches", len(matches)).
		Msg("pair search done")
	return matches
}
