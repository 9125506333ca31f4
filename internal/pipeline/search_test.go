package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
)

// stubPairs serves canned search hits per term.
type stubPairs struct {
	hits map[string][]domain.Pair
}

func (s stubPairs) Search(_ context.Context, term string) ([]domain.Pair, bool) {
	pairs, ok := s.hits[term]
	return pairs, ok
}

func TestPairSearchScoresAndOrders(t *testing.T) {
	exact := domain.Pair{
		ChainID: "ethereum", PairAddress: "0xEXACT",
		Name: "Grumpy Cat", Symbol: "GRUMP",
		Snapshot: domain.MarketSnapshot{LiquidityUSD: 60000, VolumeH24: 5000, MarketCap: 2000000},
	}
	spam := domain.Pair{
		ChainID: "ethereum", PairAddress: "0xSPAM",
		Name: "BabyGrumpy", Symbol: "BGRUMP",
	}
	weak := domain.Pair{
		ChainID: "ethereum", PairAddress: "0xWEAK",
		Name: "Cat Grumpy Token", Symbol: "CGT",
	}

	hits := []domain.Pair{exact, spam, weak}
	search := NewPairSearch(config.Default(), stubPairs{hits: map[string][]domain.Pair{
		"Grumpy Cat": hits,
		"Grumpy":     hits,
	}})
	search.now = func() time.Time { return time.Date(2024, 12, 8, 20, 0, 0, 0, time.UTC) }

	matches := search.Run(context.Background(), domain.Candidate{Name: "Grumpy Cat"})
	require.Len(t, matches, 2, "spam token filtered out")

	first := matches[0]
	assert.Equal(t, "0xEXACT", first.Pair.PairAddress)
	assert.Equal(t, "Grumpy Cat", first.Term, "best-scoring term wins for a pair")
	// Exact name match on a weight-3.0 phrase.
	assert.Equal(t, 15.0, first.MatchScore)
	// Liquidity 60k = 6.0, volume 5k = 3.0, cap 2M = 3.6.
	assert.Equal(t, 12.6, first.MarketScore)
	assert.Equal(t, 27.6, first.Relevance)

	second := matches[1]
	assert.Equal(t, "0xWEAK", second.Pair.PairAddress)
	assert.Equal(t, "Grumpy", second.Term)
	// Second word of the name on a weight-2.0 phrase, no market data.
	assert.Equal(t, 5.0, second.MatchScore)
	assert.Zero(t, second.MarketScore)
	assert.Equal(t, 5.0, second.Relevance)
}

func TestPairSearchNoHits(t *testing.T) {
	search := NewPairSearch(config.Default(), stubPairs{hits: map[string][]domain.Pair{}})
	matches := search.Run(context.Background(), domain.Candidate{Name: "Grumpy Cat"})
	assert.Empty(t, matches)
}

func TestPairSearchCancellation(t *testing.T) {
	search := NewPairSearch(config.Default(), stubPairs{hits: map[string][]domain.Pair{
		"Grumpy Cat": {{Name: "Grumpy Cat", PairAddress: "0xEXACT", ChainID: "ethereum"}},
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches := search.Run(ctx, domain.Candidate{Name: "Grumpy Cat"})
	assert.Empty(t, matches, "cancelled context stops term fan-out")
}
