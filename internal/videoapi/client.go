// Package videoapi searches the video platform for engagement samples and
// tracks the billed quota those lookups consume.
package videoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// genericGamingTags add noise to searches and are dropped from hashtag
// expansion.
var genericGamingTags = map[string]struct{}{
	"gaming": {}, "game": {}, "games": {}, "gamer": {},
}

// Client queries the platform's search and detail endpoints. Both calls of
// one lookup are billed to the shared QuotaTracker.
type Client struct {
	cfg     config.QuotaConfig
	apiKey  string
	baseURL string
	http    *http.Client
	quota   *QuotaTracker
	now     func() time.Time
	log     zerolog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithClock substitutes the time source, mainly for tests.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// NewClient builds a search client sharing the given quota tracker.
func NewClient(cfg config.QuotaConfig, apiKey string, quota *QuotaTracker, opts ...ClientOption) *Client {
	c := &Client{
		cfg:     cfg,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		quota:   quota,
		now:     time.Now,
		log:     log.With().Str("component", "videoapi").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quota exposes the shared tracker.
func (c *Client) Quota() *QuotaTracker { return c.quota }

// ExtractHashtags pulls hashtag words out of free text.
func ExtractHashtags(text string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// CleanSearchTerm strips punctuation from a candidate name and re-appends
// its useful hashtags as extra search words.
func CleanSearchTerm(name string) string {
	hashtags := ExtractHashtags(name)
	cleaned := strings.TrimSpace(strings.Join(strings.Fields(
		nonWordPattern.ReplaceAllString(name, " ")), " "))

	var kept []string
	for _, tag := range hashtags {
		if len(tag) <= 2 {
			continue
		}
		if _, generic := genericGamingTags[strings.ToLower(tag)]; generic {
			continue
		}
		kept = append(kept, tag)
	}
	if len(kept) > 0 {
		cleaned += " " + strings.Join(kept, " ")
	}
	return cleaned
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type detailsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Search runs one quota-billed lookup: a search call for video ids inside
// the lookback window, then a detail call for their statistics. Results
// come back sorted by view count descending. Failures yield an empty
// sample set; the search cost is still billed since the platform charges
// for the attempt.
func (c *Client) Search(ctx context.Context, term string) ([]domain.EngagementSample, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	publishedAfter := c.now().AddDate(0, 0, -c.cfg.SearchLookbackDays).UTC().Format(time.RFC3339)

	c.quota.RecordSearch()
	query := url.Values{
		"part":           {"id"},
		"q":              {term},
		"type":           {"video"},
		"order":          {"relevance"},
		"maxResults":     {strconv.Itoa(c.cfg.MaxResultsPerSearch)},
		"publishedAfter": {publishedAfter},
		"key":            {c.apiKey},
	}
	var search searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search?"+query.Encode(), &search); err != nil {
		return nil, fmt.Errorf("video search %q: %w", term, err)
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	c.quota.RecordDetails(len(ids))
	detailQuery := url.Values{
		"part": {"statistics,snippet"},
		"id":   {strings.Join(ids, ",")},
		"key":  {c.apiKey},
	}
	var details detailsResponse
	if err := c.getJSON(ctx, c.baseURL+"/videos?"+detailQuery.Encode(), &details); err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}

	samples := make([]domain.EngagementSample, 0, len(details.Items))
	for _, item := range details.Items {
		published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			c.log.Debug().Str("video", item.ID).Str("published_at", item.Snippet.PublishedAt).
				Msg("skipping sample with bad publish date")
			continue
		}
		samples = append(samples, domain.EngagementSample{
			ID:          item.ID,
			Title:       item.Snippet.Title,
			Views:       parseCount(item.Statistics.ViewCount),
			Likes:       parseCount(item.Statistics.LikeCount),
			Comments:    parseCount(item.Statistics.CommentCount),
			PublishedAt: published.UTC(),
		})
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Views > samples[j].Views
	})
	return samples, nil
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
