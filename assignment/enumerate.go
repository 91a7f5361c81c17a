// Package assignment enumerates every way to hand out gifts one-to-one and
// ranks the assignments by total preference score.
package assignment

import (
	"cmp"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/bobbiec/white-elephant/engine"
)

// MaxPlayers bounds enumeration. 9! is ~363k assignments; 10! would be ten times that.
const MaxPlayers = 9

var (
	ErrTooFewPlayers  = eris.New("need at least one player to enumerate")
	ErrTooManyPlayers = eris.New("player count exceeds enumeration bound")
)

// Count returns n!, the number of assignments of n gifts to n players.
func Count(n int) int {
	total := 1
	for i := 2; i <= n; i++ {
		total *= i
	}
	return total
}

// Permutations calls fn with every permutation of 0..n-1 in lexicographic
// order, starting with the identity. The slice is reused between calls;
// copy it to keep it. Returning false from fn stops the walk.
func Permutations(n int, fn func(perm []int) bool) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for {
		if !fn(perm) {
			return
		}

		// Find the rightmost ascent
		i := n - 2
		for i >= 0 && perm[i] >= perm[i+1] {
			i--
		}
		if i < 0 {
			return
		}

		// Swap with the smallest larger element to its right, then reverse the tail
		j := n - 1
		for perm[j] <= perm[i] {
			j--
		}
		perm[i], perm[j] = perm[j], perm[i]
		slices.Reverse(perm[i+1:])
	}
}

// Enumerate scores every assignment of gifts to players. preferences[p][g]
// is player p's value for gift g. The result is sorted by SortByScore, so
// equal totals keep the lexicographic order they were generated in.
func Enumerate(preferences [][]int) ([]engine.Result, error) {
	n := len(preferences)
	if n == 0 {
		return nil, eris.Wrap(ErrTooFewPlayers, "")
	}
	if n > MaxPlayers {
		return nil, eris.Wrapf(ErrTooManyPlayers, "%d players, at most %d", n, MaxPlayers)
	}
	if err := engine.ValidatePreferences(n, preferences); err != nil {
		return nil, eris.Wrap(err, "enumerate assignments")
	}

	total := Count(n)
	results := make([]engine.Result, 0, total)

	// One backing array per field keeps this to a handful of allocations
	gifts := make([]engine.GiftID, 0, total*n)
	parts := make([]int, 0, total*n)

	Permutations(n, func(perm []int) bool {
		start := len(gifts)
		score := 0
		for player, gift := range perm {
			value := preferences[player][gift]
			gifts = append(gifts, engine.GiftID(gift))
			parts = append(parts, value)
			score += value
		}
		results = append(results, engine.Result{
			Assignment: gifts[start:len(gifts):len(gifts)],
			ScoreParts: parts[start:len(parts):len(parts)],
			Score:      score,
		})
		return true
	})

	SortByScore(results)
	return results, nil
}

func byScoreDesc(a, b engine.Result) int {
	return cmp.Compare(b.Score, a.Score)
}

// SortByScore orders results by descending total score. The sort is stable,
// so sorting an already sorted slice leaves it unchanged.
func SortByScore(results []engine.Result) {
	slices.SortStableFunc(results, byScoreDesc)
}

// IsSortedByScore reports whether results are in descending score order.
func IsSortedByScore(results []engine.Result) bool {
	return slices.IsSortedFunc(results, byScoreDesc)
}
