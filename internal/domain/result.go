package domain

// ScoreBreakdown carries every sub-score produced for a candidate. Total
// is a deterministic function of the sub-scores, never of processing order.
type ScoreBreakdown struct {
	Market    float64 `json:"market_score"`
	TextMatch float64 `json:"text_match_score"`
	Temporal  float64 `json:"temporal_score"`
	Viral     float64 `json:"viral_score"`
	Views     float64 `json:"views_score"`
	Total     float64 `json:"total_score"`
}

// ComputeTotal derives the total as the mean of the two ranking scores.
func (b *ScoreBreakdown) ComputeTotal() {
	b.Total = (b.Viral + b.Views) / 2
}

// ScoredCandidate pairs a candidate with its fetched snapshot and scores,
// before ranking.
type ScoredCandidate struct {
	Candidate Candidate       `json:"candidate"`
	Snapshot  *MarketSnapshot `json:"snapshot,omitempty"`
	Scores    ScoreBreakdown  `json:"scores"`
}

// RankedResult is the terminal artifact of a run: a scored candidate with
// its 1-based rank. Immutable once produced.
type RankedResult struct {
	Rank      int             `json:"rank"`
	Candidate Candidate       `json:"candidate"`
	Snapshot  *MarketSnapshot `json:"snapshot,omitempty"`
	Scores    ScoreBreakdown  `json:"scores"`
}
