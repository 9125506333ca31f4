package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memerank/memerank/internal/domain"
)

func scored(name string, viral, views float64) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Candidate: domain.Candidate{Name: name},
		Scores:    domain.ScoreBreakdown{Viral: viral, Views: views},
	}
}

func TestRankOrdersByMeanOfViralAndViews(t *testing.T) {
	results := Rank([]domain.ScoredCandidate{
		scored("low", 10, 20),   // total 15
		scored("high", 80, 90),  // total 85
		scored("mid", 40, 50),   // total 45
	})
	require.Len(t, results, 3)

	assert.Equal(t, "high", results[0].Candidate.Name)
	assert.Equal(t, "mid", results[1].Candidate.Name)
	assert.Equal(t, "low", results[2].Candidate.Name)

	assert.Equal(t, []int{1, 2, 3}, []int{results[0].Rank, results[1].Rank, results[2].Rank})
	assert.Equal(t, 85.0, results[0].Scores.Total)
}

func TestRankStableTies(t *testing.T) {
	results := Rank([]domain.ScoredCandidate{
		scored("first", 50, 50),
		scored("second", 50, 50),
		scored("third", 50, 50),
	})
	assert.Equal(t, "first", results[0].Candidate.Name)
	assert.Equal(t, "second", results[1].Candidate.Name)
	assert.Equal(t, "third", results[2].Candidate.Name)
	assert.Equal(t, 3, results[2].Rank)
}

func TestRankIdempotent(t *testing.T) {
	input := []domain.ScoredCandidate{
		scored("a", 30, 40),
		scored("b", 90, 70),
		scored("c", 10, 10),
	}
	first := Rank(input)

	// Re-rank the already ranked, unchanged list.
	again := make([]domain.ScoredCandidate, len(first))
	for i, r := range first {
		again[i] = domain.ScoredCandidate{Candidate: r.Candidate, Snapshot: r.Snapshot, Scores: r.Scores}
	}
	second := Rank(again)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Candidate.Name, second[i].Candidate.Name)
		assert.Equal(t, first[i].Rank, second[i].Rank)
		assert.Equal(t, first[i].Scores.Total, second[i].Scores.Total)
	}
}

func TestRankOrderInvariantWithoutTies(t *testing.T) {
	input := []domain.ScoredCandidate{
		scored("a", 30, 40),
		scored("b", 90, 70),
		scored("c", 10, 10),
		scored("d", 60, 55),
	}
	reversed := make([]domain.ScoredCandidate, len(input))
	for i, sc := range input {
		reversed[len(input)-1-i] = sc
	}

	forward := Rank(input)
	backward := Rank(reversed)

	require.Len(t, backward, len(forward))
	for i := range forward {
		assert.Equal(t, forward[i].Candidate.Name, backward[i].Candidate.Name)
		assert.Equal(t, forward[i].Rank, backward[i].Rank)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	input := []domain.ScoredCandidate{
		scored("a", 10, 10),
		scored("b", 90, 90),
	}
	Rank(input)
	assert.Equal(t, "a", input[0].Candidate.Name)
	assert.Equal(t, 0.0, input[0].Scores.Total, "input breakdown untouched")
}

func TestTopN(t *testing.T) {
	results := Rank([]domain.ScoredCandidate{
		scored("a", 10, 10),
		scored("b", 20, 20),
		scored("c", 30, 30),
	})

	assert.Len(t, TopN(results, 2), 2)
	assert.Len(t, TopN(results, 10), 3)
	assert.Len(t, TopN(results, 0), 3)
	assert.Equal(t, "c", TopN(results, 1)[0].Candidate.Name)
}
