// Package report renders a finished ranking run into the published JSON
// document and reads the latest document back for serving.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memerank/memerank/internal/domain"
	"github.com/memerank/memerank/internal/seed"
)

// Stats is the raw engagement block attached to each entry.
type Stats struct {
	Views    int64 `json:"views"`
	Videos   int64 `json:"videos"`
	Images   int64 `json:"images"`
	Comments int64 `json:"comments"`
}

// Entry is one ranked token in the published document.
type Entry struct {
	Rank            int      `json:"rank"`
	Name            string   `json:"name"`
	Symbol          string   `json:"symbol,omitempty"`
	Chain           string   `json:"chain,omitempty"`
	ContractAddress string   `json:"contract_address,omitempty"`
	ExplorerURL     string   `json:"explorer_url,omitempty"`
	MemeName        string   `json:"meme_name"`
	MemeURL         string   `json:"meme_url,omitempty"`
	MemeTags        []string `json:"meme_tags,omitempty"`
	MemeStats       Stats    `json:"meme_stats"`
	MarketCapUSD    float64  `json:"market_cap_usd,omitempty"`
	LiquidityUSD    float64  `json:"liquidity_usd,omitempty"`
	ViralScore      float64  `json:"viral_score"`
	ViewsScore      float64  `json:"views_score"`
	TotalScore      float64  `json:"total_score"`
}

// Document is the full run artifact.
type Document struct {
	ScanID         string    `json:"scan_id"`
	ScanDate       time.Time `json:"scan_date"`
	MemesProcessed int       `json:"memes_processed"`
	TotalRanked    int       `json:"total_ranked"`
	TopMatches     []Entry   `json:"top_matches"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Build converts ranked results into the publishable document. Scores are
// rounded to two decimals in the artifact only; internal values stay exact.
func Build(results []domain.RankedResult, memesProcessed int, now time.Time) *Document {
	doc := &Document{
		ScanID:         uuid.NewString(),
		ScanDate:       now.UTC(),
		MemesProcessed: memesProcessed,
		TotalRanked:    len(results),
		TopMatches:     make([]Entry, 0, len(results)),
	}
	for _, r := range results {
		c := r.Candidate
		entry := Entry{
			Rank:            r.Rank,
			Name:            c.DisplayName(),
			Symbol:          c.Symbol,
			Chain:           c.Chain,
			ContractAddress: c.Address,
			ExplorerURL:     seed.ExplorerURL(c.Chain, c.Address),
			MemeName:        c.Name,
			MemeURL:         c.URL,
			MemeTags:        c.Tags,
			MemeStats: Stats{
				Views:    c.Views,
				Videos:   c.VideoCount,
				Images:   c.ImageCount,
				Comments: c.CommentCount,
			},
			ViralScore: round2(r.Scores.Viral),
			ViewsScore: round2(r.Scores.Views),
			TotalScore: round2(r.Scores.Total),
		}
		if r.Snapshot != nil {
			entry.MarketCapUSD = round2(r.Snapshot.ResolveMarketCap())
			entry.LiquidityUSD = round2(r.Snapshot.LiquidityUSD)
		}
		doc.TopMatches = append(doc.TopMatches, entry)
	}
	return doc
}

// Filename returns the timestamped artifact name for a scan date.
func Filename(at time.Time) string {
	return fmt.Sprintf("top_meme_rankings_%s.json", at.UTC().Format("20060102_150405"))
}

// Write serializes the document into dir under its timestamped name and
// returns the full path.
func (d *Document) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, Filename(d.ScanDate))
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode rankings: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write rankings: %w", err)
	}
	return path, nil
}

// LatestFromDir loads the most recent rankings document in dir, going by
// the timestamp embedded in the filename.
func LatestFromDir(dir string) (*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "top_meme_rankings_") && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no rankings documents in %s", dir)
	}
	sort.Strings(names)
	latest := names[len(names)-1]

	raw, err := os.ReadFile(filepath.Join(dir, latest))
	if err != nil {
		return nil, fmt.Errorf("read rankings %s: %w", latest, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rankings %s: %w", latest, err)
	}
	return &doc, nil
}
