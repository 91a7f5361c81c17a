package assignment

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobbiec/white-elephant/engine"
)

func randomPrefs(seed uint64, n int) [][]int {
	rng := rand.New(rand.NewPCG(seed, seed))
	prefs := make([][]int, n)
	for p := range prefs {
		prefs[p] = make([]int, n)
		for g := range prefs[p] {
			prefs[p][g] = rng.IntN(engine.MaxPreference + 1)
		}
	}
	return prefs
}

func TestCount(t *testing.T) {
	assert.Equal(t, 1, Count(0))
	assert.Equal(t, 1, Count(1))
	assert.Equal(t, 2, Count(2))
	assert.Equal(t, 6, Count(3))
	assert.Equal(t, 362880, Count(9))
}

func TestPermutationsLexicographic(t *testing.T) {
	var got [][]int
	Permutations(3, func(perm []int) bool {
		got = append(got, slices.Clone(perm))
		return true
	})

	assert.Equal(t, [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}, got)
}

func TestPermutationsStopsEarly(t *testing.T) {
	calls := 0
	Permutations(5, func(perm []int) bool {
		calls++
		return calls < 4
	})
	assert.Equal(t, 4, calls)
}

func TestEnumerateTwoPlayers(t *testing.T) {
	results, err := Enumerate([][]int{{80, 20}, {30, 90}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []engine.GiftID{0, 1}, results[0].Assignment)
	assert.Equal(t, []int{80, 90}, results[0].ScoreParts)
	assert.Equal(t, 170, results[0].Score)

	assert.Equal(t, []engine.GiftID{1, 0}, results[1].Assignment)
	assert.Equal(t, []int{20, 30}, results[1].ScoreParts)
	assert.Equal(t, 50, results[1].Score)
}

func TestEnumerateCoversEveryBijection(t *testing.T) {
	for n := 1; n <= 6; n++ {
		prefs := randomPrefs(uint64(n), n)
		results, err := Enumerate(prefs)
		require.NoError(t, err)
		require.Len(t, results, Count(n))

		seen := make(map[string]bool, len(results))
		for _, r := range results {
			used := make([]bool, n)
			sum := 0
			for p, g := range r.Assignment {
				require.False(t, used[g], "gift %d assigned twice", g)
				used[g] = true
				require.Equal(t, prefs[p][g], r.ScoreParts[p])
				sum += r.ScoreParts[p]
			}
			require.Equal(t, sum, r.Score)

			key := fmt.Sprint(r.Assignment)
			require.False(t, seen[key], "duplicate assignment %s", key)
			seen[key] = true
		}
		assert.True(t, IsSortedByScore(results))
	}
}

func TestEnumerateTiesKeepGenerationOrder(t *testing.T) {
	prefs := [][]int{{5, 5, 5}, {5, 5, 5}, {5, 5, 5}}

	results, err := Enumerate(prefs)
	require.NoError(t, err)

	var got [][]engine.GiftID
	for _, r := range results {
		got = append(got, r.Assignment)
	}
	assert.Equal(t, [][]engine.GiftID{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}, got)
}

func TestSortByScoreIsIdempotent(t *testing.T) {
	results, err := Enumerate(randomPrefs(99, 5))
	require.NoError(t, err)

	resorted := slices.Clone(results)
	SortByScore(resorted)

	assert.Equal(t, results, resorted)
}

func TestSortByScoreDescending(t *testing.T) {
	results := []engine.Result{{Score: 3}, {Score: 9}, {Score: 3}, {Score: 5}}
	results[0].ScoreParts = []int{1}
	results[2].ScoreParts = []int{2}

	SortByScore(results)

	assert.Equal(t, []int{9, 5, 3, 3}, []int{results[0].Score, results[1].Score, results[2].Score, results[3].Score})
	assert.Equal(t, []int{1}, results[2].ScoreParts, "stable for equal scores")
	assert.Equal(t, []int{2}, results[3].ScoreParts)
	assert.False(t, IsSortedByScore([]engine.Result{{Score: 1}, {Score: 2}}))
}

func TestEnumerateRejectsBadInput(t *testing.T) {
	_, err := Enumerate(nil)
	assert.ErrorIs(t, err, ErrTooFewPlayers)

	_, err = Enumerate(randomPrefs(1, MaxPlayers+1))
	assert.ErrorIs(t, err, ErrTooManyPlayers)

	_, err = Enumerate([][]int{{1, 2}, {3}})
	assert.ErrorIs(t, err, engine.ErrPreferenceLength)
}

func BenchmarkEnumerate8(b *testing.B) {
	prefs := randomPrefs(42, 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Enumerate(prefs); err != nil {
			b.Fatal(err)
		}
	}
}
