// Package dexscreener fetches pair market data with a hard cap on in-flight
// requests. Every failure mode short of a programming error is soft: the
// caller sees an absent snapshot, never an error.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
	"github.com/memerank/memerank/internal/metrics"
)

// SnapshotCache lets a run reuse recently fetched snapshots. Optional; a
// nil cache disables it.
type SnapshotCache interface {
	Get(ctx context.Context, chain, pair string) (*domain.MarketSnapshot, bool)
	Put(ctx context.Context, chain, pair string, snap *domain.MarketSnapshot)
}

// Client is the rate-limited fetcher. All calls in a run share one pooled
// HTTP client, one semaphore, one pacing limiter and one circuit breaker.
type Client struct {
	cfg     config.FetchConfig
	baseURL string
	allowed map[string]bool

	sem     chan struct{}
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	httpOnce sync.Once
	http     *http.Client

	cache SnapshotCache
	log   zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithCache attaches a snapshot cache.
func WithCache(cache SnapshotCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithHTTPClient substitutes the HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
		c.httpOnce.Do(func() {})
	}
}

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// New builds a fetcher from config. The HTTP client itself is constructed
// lazily on first use.
func New(cfg config.FetchConfig, opts ...Option) *Client {
	allowed := make(map[string]bool, len(cfg.AllowedChains))
	for _, chain := range cfg.AllowedChains {
		allowed[strings.ToLower(chain)] = true
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 300
	}

	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		allowed: allowed,
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), cfg.MaxConcurrent),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "dexscreener",
			MaxRequests: uint32(cfg.MaxConcurrent),
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 10
			},
		}),
		log: log.With().Str("component", "dexscreener").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChainAllowed reports whether a chain passes the allow-list. Checked
// before any network activity.
func (c *Client) ChainAllowed(chain string) bool {
	return c.allowed[strings.ToLower(chain)]
}

func (c *Client) httpClient() *http.Client {
	c.httpOnce.Do(func() {
		// Pool must admit at least MaxConcurrent connections or it becomes
		// the real bottleneck instead of the semaphore.
		c.http = &http.Client{
			Timeout: c.cfg.Timeout(),
			Transport: &http.Transport{
				MaxIdleConns:        c.cfg.MaxConcurrent,
				MaxIdleConnsPerHost: c.cfg.MaxConcurrent,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	})
	return c.http
}

// Close releases pooled connections. One-time teardown at run end.
func (c *Client) Close() {
	if c.http != nil {
		c.http.CloseIdleConnections()
	}
}

// acquire takes a semaphore permit, honoring context cancellation. The
// returned release must run on every exit path; callers defer it.
func (c *Client) acquire(ctx context.Context) (release func(), err error) {
	select {
	case c.sem <- struct{}{}:
		return func() { <-c.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// get performs one paced, breaker-guarded GET and decodes the pairs
// envelope. Any failure returns nil.
func (c *Client) get(ctx context.Context, endpoint string) []pairPayload {
	release, err := c.acquire(ctx)
	if err != nil {
		return nil
	}
	defer release()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient().Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}

		var envelope struct {
			Pairs []pairPayload `json:"pairs"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return envelope.Pairs, nil
	})
	if err != nil {
		c.log.Debug().Err(err).Str("url", endpoint).Msg("lookup failed")
		return nil
	}
	pairs, _ := result.([]pairPayload)
	return pairs
}

// PairSnapshot fetches current market data for one trading pair. The second
// return is false whenever no usable snapshot exists: disallowed chain,
// transport failure, non-success status, empty payload, or parse failure.
func (c *Client) PairSnapshot(ctx context.Context, chain, pairAddress string) (*domain.MarketSnapshot, bool) {
	if !c.ChainAllowed(chain) {
		metrics.FetchesTotal.WithLabelValues("rejected_chain").Inc()
		return nil, false
	}
	if pairAddress == "" {
		metrics.FetchesTotal.WithLabelValues("absent").Inc()
		return nil, false
	}

	if c.cache != nil {
		if snap, ok := c.cache.Get(ctx, chain, pairAddress); ok {
			metrics.FetchesTotal.WithLabelValues("cache_hit").Inc()
			return snap, true
		}
	}

	endpoint := fmt.Sprintf("%s/pairs/%s/%s", c.baseURL, strings.ToLower(chain), pairAddress)
	pairs := c.get(ctx, endpoint)
	if len(pairs) == 0 {
		metrics.FetchesTotal.WithLabelValues("absent").Inc()
		return nil, false
	}

	snap := pairs[0].snapshot()
	if c.cache != nil {
		c.cache.Put(ctx, chain, pairAddress, snap)
	}
	metrics.FetchesTotal.WithLabelValues("hit").Inc()
	return snap, true
}

// Search runs a free-text pair search. Soft-failure contract as above.
func (c *Client) Search(ctx context.Context, term string) ([]domain.Pair, bool) {
	if strings.TrimSpace(term) == "" {
		return nil, false
	}
	endpoint := fmt.Sprintf("%s/search/?q=%s", c.baseURL, url.QueryEscape(term))
	payloads := c.get(ctx, endpoint)
	if payloads == nil {
		metrics.FetchesTotal.WithLabelValues("absent").Inc()
		return nil, false
	}

	pairs := make([]domain.Pair, 0, len(payloads))
	for _, p := range payloads {
		pairs = append(pairs, p.pair())
	}
	metrics.FetchesTotal.WithLabelValues("hit").Inc()
	return pairs, true
}
