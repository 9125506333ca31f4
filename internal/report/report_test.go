package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memerank/memerank/internal/domain"
)

func rankedFixture() []domain.RankedResult {
	return []domain.RankedResult{
		{
			Rank: 1,
			Candidate: domain.Candidate{
				Name: "Grumpy Cat", Token: "Grumpy Cat Coin", Symbol: "GRUMP",
				Chain: "ethereum", Address: "0xABC", URL: "https://kym.example/grumpy",
				Tags: []string{"cat", "classic"}, Views: 120000, VideoCount: 12,
				ImageCount: 40, CommentCount: 300,
			},
			Snapshot: &domain.MarketSnapshot{LiquidityUSD: 60000.456, MarketCap: 2000000.129},
			Scores:   domain.ScoreBreakdown{Viral: 61.237, Views: 58.004, Total: 59.6205},
		},
		{
			Rank:      2,
			Candidate: domain.Candidate{Name: "Doge Classic", Chain: "near"},
			Scores:    domain.ScoreBreakdown{Viral: 20, Views: 22, Total: 21},
		},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 12, 8, 20, 30, 0, 0, time.UTC)
	doc := Build(rankedFixture(), 5, now)

	assert.NotEmpty(t, doc.ScanID)
	assert.Equal(t, now, doc.ScanDate)
	assert.Equal(t, 5, doc.MemesProcessed)
	assert.Equal(t, 2, doc.TotalRanked)
	require.Len(t, doc.TopMatches, 2)

	first := doc.TopMatches[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Grumpy Cat Coin", first.Name, "token name wins over meme name")
	assert.Equal(t, "Grumpy Cat", first.MemeName)
	assert.Equal(t, "https://etherscan.io/address/0xABC", first.ExplorerURL)
	assert.Equal(t, int64(120000), first.MemeStats.Views)
	assert.Equal(t, 61.24, first.ViralScore, "scores rounded to two decimals")
	assert.Equal(t, 58.0, first.ViewsScore)
	assert.Equal(t, 59.62, first.TotalScore)
	assert.Equal(t, 2000000.13, first.MarketCapUSD)
	assert.Equal(t, 60000.46, first.LiquidityUSD)

	second := doc.TopMatches[1]
	assert.Empty(t, second.ExplorerURL, "unknown chain has no explorer link")
	assert.Zero(t, second.MarketCapUSD, "no snapshot, no market fields")
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 12, 8, 20, 30, 5, 0, time.UTC)
	assert.Equal(t, "top_meme_rankings_20241208_203005.json", Filename(at))
}

func TestWriteAndLatestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	older := Build(rankedFixture()[:1], 1, time.Date(2024, 12, 7, 10, 0, 0, 0, time.UTC))
	_, err := older.Write(dir)
	require.NoError(t, err)

	newer := Build(rankedFixture(), 5, time.Date(2024, 12, 8, 10, 0, 0, 0, time.UTC))
	path, err := newer.Write(dir)
	require.NoError(t, err)
	assert.Contains(t, path, "top_meme_rankings_20241208_100000.json")

	got, err := LatestFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, newer.ScanID, got.ScanID, "latest document by filename timestamp")
	assert.Len(t, got.TopMatches, 2)
}

func TestLatestFromDirEmpty(t *testing.T) {
	_, err := LatestFromDir(t.TempDir())
	assert.Error(t, err)
}
