// Package virality buckets engagement samples into rolling time windows
// and derives a bounded trend score per candidate.
package virality

import (
	"math"
	"sort"
	"time"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
)

// WindowStats aggregates one rolling window.
type WindowStats struct {
	Count int   `json:"count"`
	Views int64 `json:"views"`
}

// TrendReport is the per-candidate virality analysis. All statistics are
// computed over that candidate's samples only.
type TrendReport struct {
	LastDay      WindowStats `json:"last_day"`
	LastWeek     WindowStats `json:"last_week"`
	PreviousWeek WindowStats `json:"previous_week"`
	LastMonth    WindowStats `json:"last_month"`

	TotalViews  int64 `json:"total_views"`
	RecentViews int64 `json:"recent_views"`

	WeeklyGrowthPct float64 `json:"weekly_growth_pct"`
	DailyViewRate   float64 `json:"daily_view_rate"`
	ViralThreshold  float64 `json:"viral_threshold"`
	ViralCount      int     `json:"viral_count"`

	TrendScore   int      `json:"trend_score"`
	Acceleration int      `json:"acceleration"`
	Combined     int      `json:"combined_score"`
	IsTrending   bool     `json:"is_trending"`
	Factors      []string `json:"factors,omitempty"`
}

// Analyzer derives trend reports and engagement scores.
type Analyzer struct {
	cfg config.ViralityConfig
}

// NewAnalyzer builds an analyzer over the given virality config.
func NewAnalyzer(cfg config.ViralityConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// GrowthRate returns week-over-week view growth in percent. A zero baseline
// with nonzero current views reports +100; zero over zero reports 0.
func GrowthRate(thisWeek, prevWeek int64) float64 {
	if prevWeek > 0 {
		return float64(thisWeek-prevWeek) / float64(prevWeek) * 100
	}
	if thisWeek > 0 {
		return 100
	}
	return 0
}

// percentile returns the p-th percentile of values with linear
// interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Analyze buckets the samples into rolling windows and scores the trend.
func (a *Analyzer) Analyze(samples []domain.EngagementSample, now time.Time) TrendReport {
	var report TrendReport
	if len(samples) == 0 {
		return report
	}

	var viewRates []float64
	for _, s := range samples {
		age := s.AgeDays(now)
		views := s.Views
		report.TotalViews += views

		if age <= 1 {
			report.LastDay.Count++
			report.LastDay.Views += views
		}
		if age <= 7 {
			report.LastWeek.Count++
			report.LastWeek.Views += views
		} else if age <= 14 {
			report.PreviousWeek.Count++
			report.PreviousWeek.Views += views
		}
		if age <= 30 {
			report.LastMonth.Count++
			report.LastMonth.Views += views
			report.RecentViews += views
		}

		if rate := s.DailyViewRate(now); rate > 0 {
			viewRates = append(viewRates, rate)
		}
	}

	report.WeeklyGrowthPct = GrowthRate(report.LastWeek.Views, report.PreviousWeek.Views)
	if report.LastWeek.Views > 0 {
		report.DailyViewRate = float64(report.LastWeek.Views) / 7
	}

	report.ViralThreshold = a.cfg.ViralFloorDailyViews
	if p90 := percentile(viewRates, 90); p90 > report.ViralThreshold {
		report.ViralThreshold = p90
	}
	for _, s := range samples {
		if s.DailyViewRate(now) > report.ViralThreshold {
			report.ViralCount++
		}
	}

	a.scoreTrend(&report)
	return report
}

// scoreTrend applies the additive tier tables: weekly growth, recent
// volume, viral count, plus the separate production-acceleration signal.
func (a *Analyzer) scoreTrend(r *TrendReport) {
	switch {
	case r.WeeklyGrowthPct > 200:
		r.TrendScore += 3
		r.Factors = append(r.Factors, "explosive weekly growth")
	case r.WeeklyGrowthPct > 100:
		r.TrendScore += 2
		r.Factors = append(r.Factors, "strong weekly growth")
	case r.WeeklyGrowthPct > 50:
		r.TrendScore += 1
		r.Factors = append(r.Factors, "moderate weekly growth")
	}

	switch {
	case r.LastWeek.Count >= 10:
		r.TrendScore += 3
		r.Factors = append(r.Factors, "very high recent video volume")
	case r.LastWeek.Count >= 5:
		r.TrendScore += 2
		r.Factors = append(r.Factors, "high recent video volume")
	case r.LastWeek.Count >= 2:
		r.TrendScore += 1
		r.Factors = append(r.Factors, "moderate recent video volume")
	}

	switch {
	case r.ViralCount >= 3:
		r.TrendScore += 4
		r.Factors = append(r.Factors, "multiple viral videos")
	case r.ViralCount >= 1:
		r.TrendScore += 2
		r.Factors = append(r.Factors, "viral video present")
	}

	weeklyRate := float64(r.LastWeek.Count) / 7
	monthlyRate := float64(r.LastMonth.Count) / 30
	switch {
	case monthlyRate > 0 && weeklyRate > monthlyRate*2:
		r.Acceleration = 3
		r.Factors = append(r.Factors, "accelerating video production")
	case monthlyRate > 0 && weeklyRate > monthlyRate*1.5:
		r.Acceleration = 2
		r.Factors = append(r.Factors, "growing video production")
	}

	r.Combined = r.TrendScore + r.Acceleration
	r.IsTrending = r.Combined >= a.cfg.TrendingMinScore
}

func engagementLadderScore(value int64, ladder config.EngagementLadder) float64 {
	score := 0.0
	for _, threshold := range ladder.Thresholds {
		if value >= threshold {
			score += ladder.Weight
		}
	}
	return score
}

// EngagementScore converts a candidate's seed engagement counters into the
// viral score used by the ranking pipeline, bounded to [0,100]. A candidate
// with no recorded engagement scores zero and drops out of the ranking.
func (a *Analyzer) EngagementScore(c domain.Candidate) float64 {
	score := engagementLadderScore(c.Views, a.cfg.ViewsLadder) +
		engagementLadderScore(c.VideoCount, a.cfg.VideosLadder) +
		engagementLadderScore(c.ImageCount, a.cfg.ImagesLadder) +
		engagementLadderScore(c.CommentCount, a.cfg.CommentsLadder)
	if score > 100 {
		score = 100
	}
	return score
}
