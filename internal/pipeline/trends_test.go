package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
	"github.com/memerank/memerank/internal/seed"
	"github.com/memerank/memerank/internal/videoapi"
)

// stubVideos serves canned samples per term and bills the quota the way
// the real client does.
type stubVideos struct {
	quota   *videoapi.QuotaTracker
	samples map[string][]domain.EngagementSample
	fail    map[string]bool
}

func (s stubVideos) Search(_ context.Context, term string) ([]domain.EngagementSample, error) {
	s.quota.RecordSearch()
	if s.fail[term] {
		return nil, errors.New("upstream unavailable")
	}
	return s.samples[term], nil
}

var sweepNow = time.Date(2024, 12, 8, 20, 0, 0, 0, time.UTC)

func sampleAt(ageDays int, views int64) domain.EngagementSample {
	return domain.EngagementSample{
		PublishedAt: sweepNow.Add(-time.Duration(ageDays)*24*time.Hour - time.Hour),
		Views:       views,
	}
}

func newSweep(videos VideoSearcher, quota *videoapi.QuotaTracker) *TrendSweep {
	sweep := NewTrendSweep(config.Default(), videos, quota)
	sweep.now = func() time.Time { return sweepNow }
	return sweep
}

func TestTrendSweepOrdersByCombinedScore(t *testing.T) {
	quota := videoapi.NewQuotaTracker(config.Default().Quota)
	hot := []domain.EngagementSample{
		sampleAt(1, 100000), sampleAt(2, 100000), sampleAt(2, 100000),
		sampleAt(3, 100000), sampleAt(4, 100000), sampleAt(5, 100000),
	}
	cold := []domain.EngagementSample{sampleAt(25, 1000)}

	videos := stubVideos{quota: quota, samples: map[string][]domain.EngagementSample{
		"Cold Meme": cold,
		"Hot Meme":  hot,
	}}
	list := &seed.List{Matches: []domain.Candidate{{Name: "Cold Meme"}, {Name: "Hot Meme"}}}

	out, err := newSweep(videos, quota).Run(context.Background(), list)
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)

	assert.Equal(t, "Hot Meme", out.Entries[0].Name, "highest combined score first")
	assert.Greater(t, out.Entries[0].Report.Combined, out.Entries[1].Report.Combined)
	assert.True(t, out.Entries[0].Report.IsTrending)
	assert.False(t, out.Truncated)
	assert.Equal(t, 200, out.Quota.Used, "two searches billed")
}

func TestTrendSweepStopsOnQuotaExhaustion(t *testing.T) {
	cfg := config.Default()
	cfg.Quota.DailyLimit = 300
	quota := videoapi.NewQuotaTracker(cfg.Quota)

	videos := stubVideos{quota: quota, samples: map[string][]domain.EngagementSample{}}
	list := &seed.List{Matches: []domain.Candidate{
		{Name: "One"}, {Name: "Two"}, {Name: "Three"},
	}}

	sweep := NewTrendSweep(cfg, videos, quota)
	sweep.now = func() time.Time { return sweepNow }

	out, err := sweep.Run(context.Background(), list)
	require.NoError(t, err)
	assert.Len(t, out.Entries, 2, "third candidate does not fit the remaining budget")
	assert.True(t, out.Truncated)
	assert.Equal(t, 0, out.Quota.EstimatedScansLeft)
}

func TestTrendSweepSkipsFailedSearches(t *testing.T) {
	quota := videoapi.NewQuotaTracker(config.Default().Quota)
	videos := stubVideos{
		quota:   quota,
		samples: map[string][]domain.EngagementSample{"Good Meme": {sampleAt(2, 5000)}},
		fail:    map[string]bool{"Bad Meme": true},
	}
	list := &seed.List{Matches: []domain.Candidate{{Name: "Bad Meme"}, {Name: "Good Meme"}}}

	out, err := newSweep(videos, quota).Run(context.Background(), list)
	require.NoError(t, err, "per-candidate failures never abort the sweep")
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "Good Meme", out.Entries[0].Name)
}

func TestTrendSweepCancellation(t *testing.T) {
	quota := videoapi.NewQuotaTracker(config.Default().Quota)
	videos := stubVideos{quota: quota, samples: map[string][]domain.EngagementSample{}}
	list := &seed.List{Matches: []domain.Candidate{{Name: "One"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSweep(videos, quota).Run(ctx, list)
	assert.ErrorIs(t, err, context.Canceled)
}
