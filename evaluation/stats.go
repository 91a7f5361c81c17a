// Package evaluation places one simulated game inside the ranked space of
// every possible gift assignment.
package evaluation

import (
	"math"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/bobbiec/white-elephant/engine"
)

var (
	ErrNoAssignments  = eris.New("no enumerated assignments")
	ErrScoreNotRanked = eris.New("score is below every enumerated assignment")
	ErrShapeMismatch  = eris.New("result does not match preferences")
)

// Stats is the per-game record written by the batch driver
type Stats struct {
	Seed          int64
	PlayerCount   int
	LastStealRule bool

	Score         int
	Rank          int // 1-based
	TotalOptions  int
	Percentile    float64
	Best          int
	PercentOfBest float64

	// Median of all assignment scores. Written as "average" in CSV files.
	Median          float64
	PercentOfMedian float64

	ParetoOptimal bool
	TopN          []int // TopN[i] = players holding one of their top i+1 gifts
}

// RankIndex returns the 0-based index of the first sorted assignment whose
// score the actual score ties or beats. Every equal-scoring assignment is
// counted as no better, so the result gets the best rank its score allows.
func RankIndex(sorted []engine.Result, score int) (int, error) {
	if len(sorted) == 0 {
		return 0, eris.Wrap(ErrNoAssignments, "")
	}
	for i := range sorted {
		if score >= sorted[i].Score {
			return i, nil
		}
	}
	return 0, eris.Wrapf(ErrScoreNotRanked, "score %d, worst %d", score, sorted[len(sorted)-1].Score)
}

// Percentile is the share of assignments ranked at or below index, in [0,100].
func Percentile(index, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-index) / float64(total) * 100
}

// IsParetoOptimal reports whether no assignment in better makes every single
// player strictly happier than result. better is normally the slice of
// assignments ranked above the result.
func IsParetoOptimal(result engine.Result, better []engine.Result) bool {
	for _, alt := range better {
		if dominates(alt, result) {
			return false
		}
	}
	return true
}

func dominates(a, b engine.Result) bool {
	for i := range b.ScoreParts {
		if a.ScoreParts[i] <= b.ScoreParts[i] {
			return false
		}
	}
	return true
}

// Benchmarks returns the best score and the median score of sorted.
func Benchmarks(sorted []engine.Result) (best int, median float64) {
	if len(sorted) == 0 {
		return 0, 0
	}
	best = sorted[0].Score

	// sorted is descending; the median does not care about direction
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = float64(sorted[mid-1].Score+sorted[mid].Score) / 2
	} else {
		median = float64(sorted[mid].Score)
	}
	return best, median
}

// PercentOf expresses score as a percentage of benchmark. A zero benchmark
// only matches a zero score (100%); anything else is unbounded.
func PercentOf(score int, benchmark float64) float64 {
	if benchmark == 0 {
		if score == 0 {
			return 100
		}
		return math.Inf(1)
	}
	return float64(score) / benchmark * 100
}

// RankedGifts orders gifts by descending preference; equal values keep gift order.
func RankedGifts(preferences []int) []engine.GiftID {
	ranked := make([]engine.GiftID, len(preferences))
	for i := range ranked {
		ranked[i] = engine.GiftID(i)
	}
	slices.SortStableFunc(ranked, func(a, b engine.GiftID) int {
		return preferences[b] - preferences[a]
	})
	return ranked
}

// choicePosition is the 0-based position of gift in the player's own ranking
func choicePosition(gift engine.GiftID, preferences []int) int {
	return slices.Index(RankedGifts(preferences), gift)
}

// TopNCount counts players whose gift is within their own top n preferences.
func TopNCount(assignment []engine.GiftID, preferences [][]int, n int) int {
	total := 0
	for player, gift := range assignment {
		pos := choicePosition(gift, preferences[player])
		if pos >= 0 && pos < n {
			total++
		}
	}
	return total
}

// TopNCounts returns TopNCount for n = 1..len(assignment).
func TopNCounts(assignment []engine.GiftID, preferences [][]int) []int {
	positions := make([]int, len(assignment))
	for player, gift := range assignment {
		positions[player] = choicePosition(gift, preferences[player])
	}

	counts := make([]int, len(assignment))
	for i := range counts {
		n := i + 1
		for _, pos := range positions {
			if pos >= 0 && pos < n {
				counts[i]++
			}
		}
	}
	return counts
}

// Evaluate builds the statistics record for one game. sorted must come
// from assignment.Enumerate over the same preferences.
func Evaluate(seed int64, result engine.Result, sorted []engine.Result, preferences [][]int) (Stats, error) {
	if len(result.Assignment) != len(preferences) || len(result.ScoreParts) != len(preferences) {
		return Stats{}, eris.Wrapf(ErrShapeMismatch, "%d assigned, %d players", len(result.Assignment), len(preferences))
	}

	index, err := RankIndex(sorted, result.Score)
	if err != nil {
		return Stats{}, eris.Wrapf(err, "seed %d", seed)
	}

	total := len(sorted)
	best, median := Benchmarks(sorted)

	return Stats{
		Seed:            seed,
		PlayerCount:     len(preferences),
		Score:           result.Score,
		Rank:            index + 1,
		TotalOptions:    total,
		Percentile:      Percentile(index, total),
		Best:            best,
		PercentOfBest:   PercentOf(result.Score, float64(best)),
		Median:          median,
		PercentOfMedian: PercentOf(result.Score, median),
		ParetoOptimal:   IsParetoOptimal(result, sorted[:index]),
		TopN:            TopNCounts(result.Assignment, preferences),
	}, nil
}
