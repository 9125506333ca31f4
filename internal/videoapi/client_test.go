package videoapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memerank/memerank/internal/config"
)

func TestExtractHashtags(t *testing.T) {
	assert.Equal(t, []string{"skibidi", "toilet"}, ExtractHashtags("watch #skibidi #toilet now"))
	assert.Empty(t, ExtractHashtags("no tags here"))
}

func TestCleanSearchTerm(t *testing.T) {
	assert.Equal(t, "Grumpy Cat", CleanSearchTerm("Grumpy Cat!"))

	// Hashtags survive cleaning and are re-appended as search words.
	cleaned := CleanSearchTerm("Speedrun fails #gaming #speedrun")
	assert.Contains(t, cleaned, "speedrun")
	assert.NotContains(t, cleaned, "#")

	// Generic gaming tags and very short tags are dropped from expansion.
	cleaned = CleanSearchTerm("Best clip #gaming #gg")
	assert.Equal(t, "Best clip gaming gg", cleaned)
}

func TestSearchBillsQuotaAndSortsByViews(t *testing.T) {
	now := time.Date(2024, 12, 8, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "grumpy cat", r.URL.Query().Get("q"))
		assert.Equal(t, "video", r.URL.Query().Get("type"))
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))

		after, err := time.Parse(time.RFC3339, r.URL.Query().Get("publishedAfter"))
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, -365), after, "365 day lookback window")

		fmt.Fprint(w, `{"items":[{"id":{"videoId":"vid1"}},{"id":{"videoId":"vid2"}}]}`)
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vid1,vid2", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{"items":[
			{"id":"vid1","snippet":{"title":"small","publishedAt":"2024-12-01T00:00:00Z"},
			 "statistics":{"viewCount":"100","likeCount":"5","commentCount":"1"}},
			{"id":"vid2","snippet":{"title":"big","publishedAt":"2024-11-20T00:00:00Z"},
			 "statistics":{"viewCount":"90000","likeCount":"800","commentCount":"40"}}
		]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	quota := NewQuotaTracker(config.Default().Quota)
	c := NewClient(config.Default().Quota, "test-key", quota,
		WithBaseURL(srv.URL), WithClock(func() time.Time { return now }))

	samples, err := c.Search(context.Background(), "grumpy cat")
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "big", samples[0].Title, "sorted by views descending")
	assert.Equal(t, int64(90000), samples[0].Views)
	assert.Equal(t, "small", samples[1].Title)

	status := quota.Status()
	assert.Equal(t, 100+2, status.Used, "one search call plus two detailed items")
	assert.Equal(t, 1, status.SearchCalls)
	assert.Equal(t, 1, status.DetailCalls)
}

func TestSearchNoHits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	quota := NewQuotaTracker(config.Default().Quota)
	c := NewClient(config.Default().Quota, "test-key", quota, WithBaseURL(srv.URL))

	samples, err := c.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, samples)

	status := quota.Status()
	assert.Equal(t, 100, status.Used, "search attempt is billed even with no hits")
	assert.Equal(t, 0, status.DetailCalls)
}

func TestSearchErrorStillBillsSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	quota := NewQuotaTracker(config.Default().Quota)
	c := NewClient(config.Default().Quota, "test-key", quota, WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), "grumpy")
	assert.Error(t, err)
	assert.Equal(t, 100, quota.Status().Used)
}

func TestSearchBlankTerm(t *testing.T) {
	quota := NewQuotaTracker(config.Default().Quota)
	c := NewClient(config.Default().Quota, "test-key", quota)

	samples, err := c.Search(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, samples)
	assert.Equal(t, 0, quota.Status().Used, "nothing billed for a blank term")
}
