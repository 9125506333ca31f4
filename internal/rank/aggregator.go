// Package rank turns scored candidates into the ordered, ranked result set.
package rank

import (
	"sort"

	"github.com/memerank/memerank/internal/domain"
)

// Rank sorts scored candidates descending by total score and assigns
// 1-based ranks. The sort is stable, so exact ties keep their original
// discovery order; rank is otherwise a function of score alone. The input
// slice is not modified.
func Rank(scored []domain.ScoredCandidate) []domain.RankedResult {
	ordered := make([]domain.ScoredCandidate, len(scored))
	copy(ordered, scored)

	for i := range ordered {
		ordered[i].Scores.ComputeTotal()
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Scores.Total > ordered[j].Scores.Total
	})

	results := make([]domain.RankedResult, len(ordered))
	for i, sc := range ordered {
		results[i] = domain.RankedResult{
			Rank:      i + 1,
			Candidate: sc.Candidate,
			Snapshot:  sc.Snapshot,
			Scores:    sc.Scores,
		}
	}
	return results
}

// TopN returns the first n results, or all of them when fewer exist.
func TopN(results []domain.RankedResult, n int) []domain.RankedResult {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}
