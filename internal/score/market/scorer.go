// Package market converts a raw market snapshot into a threshold-ladder
// score over liquidity, 24h volume, and market cap.
package market

import (
	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
)

// MetricFeedback records how one metric fared against its ladder.
type MetricFeedback struct {
	Passed bool    `json:"passed"`
	Value  float64 `json:"value"`
	Score  float64 `json:"score"`
}

// Feedback is the full scoring trace for one snapshot, kept for reports.
type Feedback struct {
	Liquidity MetricFeedback `json:"liquidity"`
	Volume    MetricFeedback `json:"volume"`
	MarketCap MetricFeedback `json:"market_cap"`

	PriceUSD      float64 `json:"price_usd"`
	PriceChangeH1 float64 `json:"price_change_h1"`
	PriceChangeH6 float64 `json:"price_change_h6"`
	PriceChange24 float64 `json:"price_change_h24"`
}

// Scorer applies the configured ladders. Pure: no network, no mutable state.
type Scorer struct {
	cfg config.MarketConfig
}

// NewScorer builds a scorer over the given market config.
func NewScorer(cfg config.MarketConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// ladderScore adds the ladder weight once per crossed threshold. A value
// below the floor contributes nothing at all.
func ladderScore(value, floor float64, ladder config.Ladder) (float64, bool) {
	if value < floor {
		return 0, false
	}
	score := 0.0
	for _, threshold := range ladder.Thresholds {
		if value >= threshold {
			score += ladder.Weight
		}
	}
	return score, true
}

// Score evaluates a snapshot against the three ladders. A nil snapshot
// scores zero across the board.
func (s *Scorer) Score(snap *domain.MarketSnapshot) (float64, Feedback) {
	var fb Feedback
	if snap == nil {
		log.Debug().Msg("market scorer called with absent snapshot")
		return 0, fb
	}

	total := 0.0

	mcap := snap.ResolveMarketCap()
	fb.MarketCap.Value = mcap
	if score, ok := ladderScore(mcap, s.cfg.MinMarketCapUSD, s.cfg.MarketCap); ok {
		fb.MarketCap.Passed = true
		fb.MarketCap.Score = score
		total += score
	}

	fb.Liquidity.Value = snap.LiquidityUSD
	if score, ok := ladderScore(snap.LiquidityUSD, s.cfg.MinLiquidityUSD, s.cfg.Liquidity); ok {
		fb.Liquidity.Passed = true
		fb.Liquidity.Score = score
		total += score
	}

	fb.Volume.Value = snap.VolumeH24
	if score, ok := ladderScore(snap.VolumeH24, s.cfg.MinVolume24hUSD, s.cfg.Volume); ok {
		fb.Volume.Passed = true
		fb.Volume.Score = score
		total += score
	}

	fb.PriceUSD = snap.PriceUSD
	fb.PriceChangeH1 = snap.PriceChangeH1
	fb.PriceChangeH6 = snap.PriceChangeH6
	fb.PriceChange24 = snap.PriceChange24

	return total, fb
}
