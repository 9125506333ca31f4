package domain

import "time"

// EngagementSample is one externally observed engagement event, e.g. a
// video returned by the platform search feed.
type EngagementSample struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	PublishedAt time.Time `json:"published_at"`
}

// AgeDays returns the sample age in whole days at the given instant.
func (s EngagementSample) AgeDays(now time.Time) int {
	if s.PublishedAt.IsZero() || s.PublishedAt.After(now) {
		return 0
	}
	return int(now.Sub(s.PublishedAt).Hours() / 24)
}

// DailyViewRate is the sample's views amortized over its age. Same-day
// samples report their raw view count.
func (s EngagementSample) DailyViewRate(now time.Time) float64 {
	age := s.AgeDays(now)
	if age < 1 {
		age = 1
	}
	return float64(s.Views) / float64(age)
}
