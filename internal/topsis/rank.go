package topsis

import (
	"math"
	"sort"
)

// assignRanks sets Rank on every result: descending score, "min" tie method.
// A result ties with the first member of the current group when their scores
// differ by at most tol; ties do not chain across the group.
func assignRanks(results []Result, tol float64) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].Score > results[order[b]].Score
	})

	var leader float64
	rank := 0
	for pos, idx := range order {
		s := results[idx].Score
		if pos == 0 || math.Abs(leader-s) > tol {
			rank = pos + 1
			leader = s
		}
		results[idx].Rank = rank
	}
}

func sortByRank(results []Result) {
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Rank != results[b].Rank {
			return results[a].Rank < results[b].Rank
		}
		return results[a].Index < results[b].Index
	})
}

// MinRank ranks arbitrary scores with the same tie rule used by Score.
func MinRank(scores []float64, tol float64) []int {
	if tol <= 0 {
		tol = DefaultTieTolerance
	}
	results := make([]Result, len(scores))
	for i, s := range scores {
		results[i] = Result{Index: i, Score: s}
	}
	assignRanks(results, tol)
	ranks := make([]int, len(scores))
	for i, r := range results {
		ranks[i] = r.Rank
	}
	return ranks
}
