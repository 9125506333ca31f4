package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scoring collects every weight, threshold, stop-word and spam-pattern set
// used by the scorers, plus fetch/quota/ranking settings. Loaded once at
// startup and treated as immutable afterwards.
type Scoring struct {
	Market   MarketConfig   `yaml:"market"`
	Text     TextConfig     `yaml:"text"`
	Temporal TemporalConfig `yaml:"temporal"`
	Virality ViralityConfig `yaml:"virality"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Quota    QuotaConfig    `yaml:"quota"`
	Ranking  RankingConfig  `yaml:"ranking"`
}

// Ladder is one additive threshold ladder: the weight is added once per
// crossed threshold, provided the metric clears its minimum floor.
type Ladder struct {
	Weight     float64   `yaml:"weight"`
	Thresholds []float64 `yaml:"thresholds"`
}

// MarketConfig holds the three market metric ladders and their floors.
type MarketConfig struct {
	MinLiquidityUSD float64 `yaml:"min_liquidity_usd"`
	MinVolume24hUSD float64 `yaml:"min_volume_24h_usd"`
	MinPriceUSD     float64 `yaml:"min_price_usd"`
	MinMarketCapUSD float64 `yaml:"min_market_cap_usd"`

	Liquidity Ladder `yaml:"liquidity"`
	Volume    Ladder `yaml:"volume"`
	MarketCap Ladder `yaml:"market_cap"`
}

// TermWeights are the tiers assigned to extracted search phrases.
type TermWeights struct {
	NameExact    float64 `yaml:"name_exact"`
	NamePartial  float64 `yaml:"name_partial"`
	TagExact     float64 `yaml:"tag_exact"`
	TagPartial   float64 `yaml:"tag_partial"`
	ContextBonus float64 `yaml:"context_bonus"`
}

// TextConfig drives phrase extraction and spam filtering.
type TextConfig struct {
	StopWords          []string    `yaml:"stop_words"`
	SpamSuffixes       []string    `yaml:"spam_suffixes"`
	SpamPrefixes       []string    `yaml:"spam_prefixes"`
	MarketingTerms     []string    `yaml:"marketing_terms"`
	TrendRiders        []string    `yaml:"trend_riders"`
	SuspiciousPatterns []string    `yaml:"suspicious_patterns"`
	Weights            TermWeights `yaml:"weights"`
	MaxTerms           int         `yaml:"max_terms"`
	SimilarityFloor    float64     `yaml:"similarity_floor"`
}

// TemporalConfig lists the added-date formats tried in priority order.
// The order is part of the contract: first successful parse wins.
type TemporalConfig struct {
	AddedDateFormats []string `yaml:"added_date_formats"`
}

// EngagementLadder scores one seed engagement counter.
type EngagementLadder struct {
	Weight     float64 `yaml:"weight"`
	Thresholds []int64 `yaml:"thresholds"`
}

// ViralityConfig drives the trend analyzer and the engagement score.
type ViralityConfig struct {
	ViralFloorDailyViews float64 `yaml:"viral_floor_daily_views"`
	TrendingMinScore     int     `yaml:"trending_min_score"`

	ViewsLadder    EngagementLadder `yaml:"views_ladder"`
	VideosLadder   EngagementLadder `yaml:"videos_ladder"`
	ImagesLadder   EngagementLadder `yaml:"images_ladder"`
	CommentsLadder EngagementLadder `yaml:"comments_ladder"`
}

// FetchConfig bounds the market data fetcher.
type FetchConfig struct {
	BaseURL           string   `yaml:"base_url"`
	MaxConcurrent     int      `yaml:"max_concurrent"`
	BatchSize         int      `yaml:"batch_size"`
	BatchDelayMS      int      `yaml:"batch_delay_ms"`
	TimeoutSeconds    int      `yaml:"timeout_seconds"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
	AllowedChains     []string `yaml:"allowed_chains"`
}

// Timeout returns the per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// BatchDelay returns the fixed pause inserted between batches.
func (f FetchConfig) BatchDelay() time.Duration {
	return time.Duration(f.BatchDelayMS) * time.Millisecond
}

// QuotaConfig describes the video platform's billed-unit budget.
type QuotaConfig struct {
	DailyLimit           int `yaml:"daily_limit"`
	SearchCost           int `yaml:"search_cost"`
	DetailCostPerItem    int `yaml:"detail_cost_per_item"`
	EstimatedCostPerScan int `yaml:"estimated_cost_per_scan"`
	MaxResultsPerSearch  int `yaml:"max_results_per_search"`
	SearchLookbackDays   int `yaml:"search_lookback_days"`
}

// RankingConfig bounds the ranked output.
type RankingConfig struct {
	TopN            int     `yaml:"top_n"`
	MarketCapMinUSD float64 `yaml:"market_cap_min_usd"`
	MarketCapMaxUSD float64 `yaml:"market_cap_max_usd"`
}

// Default returns the built-in scoring configuration.
func Default() *Scoring {
	return &Scoring{
		Market: MarketConfig{
			MinLiquidityUSD: 5000,
			MinVolume24hUSD: 500,
			MinPriceUSD:     0.000000001,
			MinMarketCapUSD: 200000,
			Liquidity:       Ladder{Weight: 2.0, Thresholds: []float64{5000, 25000, 50000, 100000}},
			Volume:          Ladder{Weight: 1.5, Thresholds: []float64{500, 5000, 25000, 50000}},
			MarketCap:       Ladder{Weight: 1.8, Thresholds: []float64{100000, 1000000, 10000000}},
		},
		Text: TextConfig{
			StopWords: []string{
				"the", "and", "or", "in", "on", "at", "to", "for", "of", "with",
				"a", "an", "is", "are", "was", "were", "be", "been", "being",
				"have", "has", "had", "do", "does", "did", "but", "by", "from",
				"that", "this", "these", "those", "what", "which", "who", "whom",
				"whose", "when", "where", "why", "how", "all", "any", "both",
				"im", "its", "it", "like", "oh", "no", "yes", "not", "about",
				"again", "just", "dont", "she", "he", "we", "they", "you", "your",
				"because", "since", "as", "until", "while", "against",
				"between", "into", "through", "during", "before", "after", "above",
				"below", "up", "down", "out", "off", "over", "under",
				"touch", "touched", "touching", "talk", "talked", "talking",
				"say", "said", "saying", "look", "looked", "looking",
				"get", "got", "getting", "go", "going", "gone",
				"lol", "omg", "wtf", "tbh", "af", "rn", "gonna", "wanna",
				"doesnt", "cant", "wont", "shouldnt", "wouldnt",
				"i", "me", "my", "mine", "yours", "him",
				"his", "her", "hers", "us", "our",
				"ours", "them", "their", "theirs",
			},
			SpamSuffixes:   []string{"inu", "elon", "safe", "moon", "gem", "doge", "shib"},
			SpamPrefixes:   []string{"baby", "mini", "lite", "super"},
			MarketingTerms: []string{"rewards", "presale", "fair", "launch"},
			TrendRiders:    []string{"ai", "chad", "based", "wojak", "pepe"},
			SuspiciousPatterns: []string{
				`\d{3,}`,
				`[A-Z]{5,}`,
				`v[0-9]`,
				`[0-9]x`,
				`[A-Z][a-z]+[A-Z]`,
				`[!@#$%^&*()_+=\[\]{};:"|<>?]`,
			},
			Weights: TermWeights{
				NameExact:    3.0,
				NamePartial:  2.0,
				TagExact:     1.5,
				TagPartial:   1.0,
				ContextBonus: 0.5,
			},
			MaxTerms:        5,
			SimilarityFloor: 0.8,
		},
		Temporal: TemporalConfig{
			AddedDateFormats: []string{
				"2006-01-02 15:04:05",
				"2006-01-02",
				"2006-01-02T15:04:05",
			},
		},
		Virality: ViralityConfig{
			ViralFloorDailyViews: 50000,
			TrendingMinScore:     5,
			ViewsLadder:          EngagementLadder{Weight: 10, Thresholds: []int64{1000, 10000, 100000, 1000000}},
			VideosLadder:         EngagementLadder{Weight: 10, Thresholds: []int64{5, 20}},
			ImagesLadder:         EngagementLadder{Weight: 5, Thresholds: []int64{10, 50}},
			CommentsLadder:       EngagementLadder{Weight: 15, Thresholds: []int64{100, 1000}},
		},
		Fetch: FetchConfig{
			BaseURL:           "https://api.dexscreener.com/latest/dex",
			MaxConcurrent:     25,
			BatchSize:         50,
			BatchDelayMS:      200,
			TimeoutSeconds:    10,
			RequestsPerMinute: 300,
			AllowedChains:     []string{"ethereum", "solana"},
		},
		Quota: QuotaConfig{
			DailyLimit:           10000,
			SearchCost:           100,
			DetailCostPerItem:    1,
			EstimatedCostPerScan: 150,
			MaxResultsPerSearch:  50,
			SearchLookbackDays:   365,
		},
		Ranking: RankingConfig{
			TopN:            100,
			MarketCapMinUSD: 500000,
			MarketCapMaxUSD: 10000000,
		},
	}
}

// Load reads a scoring config from a YAML file. Missing sections fall back
// to the built-in defaults so partial overrides stay small.
func Load(path string) (*Scoring, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scoring config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse scoring config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configs that would make scoring degenerate.
func (c *Scoring) Validate() error {
	if c.Fetch.MaxConcurrent <= 0 {
		return fmt.Errorf("fetch.max_concurrent must be positive, got %d", c.Fetch.MaxConcurrent)
	}
	if c.Fetch.BatchSize <= 0 {
		return fmt.Errorf("fetch.batch_size must be positive, got %d", c.Fetch.BatchSize)
	}
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("quota.daily_limit must be positive, got %d", c.Quota.DailyLimit)
	}
	if c.Quota.EstimatedCostPerScan <= 0 {
		return fmt.Errorf("quota.estimated_cost_per_scan must be positive, got %d", c.Quota.EstimatedCostPerScan)
	}
	if c.Ranking.MarketCapMinUSD > c.Ranking.MarketCapMaxUSD {
		return fmt.Errorf("ranking market cap band inverted: min %.0f > max %.0f",
			c.Ranking.MarketCapMinUSD, c.Ranking.MarketCapMaxUSD)
	}
	for _, ladder := range []Ladder{c.Market.Liquidity, c.Market.Volume, c.Market.MarketCap} {
		for i := 1; i < len(ladder.Thresholds); i++ {
			if ladder.Thresholds[i] <= ladder.Thresholds[i-1] {
				return fmt.Errorf("ladder thresholds must ascend, got %v", ladder.Thresholds)
			}
		}
	}
	return nil
}
