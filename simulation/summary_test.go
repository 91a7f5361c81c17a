package simulation

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobbiec/white-elephant/engine"
	"github.com/bobbiec/white-elephant/evaluation"
)

func TestSummarizeRanksSmallOptionCount(t *testing.T) {
	// 120 options: the top bucket is rank 1 only
	dist := SummarizeRanks([]int{3, 1, 50, 2, 1}, 120)

	assert.Equal(t, 5, dist.Trials)
	assert.Equal(t, 2, dist.TopBucketCount)
	assert.InDelta(t, 40.0, dist.TopBucketPct, 1e-9)
	assert.Equal(t, 50, dist.WorstRank)
	assert.Equal(t, 2, dist.MedianRank)
	assert.Equal(t, 50, dist.P99Rank)
	assert.InDelta(t, 50.0/120*100, dist.P99Pct, 1e-9)
}

func TestSummarizeRanksLargeOptionCount(t *testing.T) {
	// 5040 options: the top bucket is rank < 50
	dist := SummarizeRanks([]int{1, 10, 49, 50, 400}, 5040)

	assert.Equal(t, 3, dist.TopBucketCount)
	assert.InDelta(t, 60.0, dist.TopBucketPct, 1e-9)
	assert.Equal(t, 400, dist.WorstRank)
	assert.Equal(t, 49, dist.MedianRank)
}

func TestSummarizeRanksEvenMedian(t *testing.T) {
	dist := SummarizeRanks([]int{4, 1, 2, 9}, 24)
	assert.Equal(t, 3, dist.MedianRank)
}

func TestSummarizeRanksEmpty(t *testing.T) {
	dist := SummarizeRanks(nil, 24)
	assert.Equal(t, RankDistribution{TotalOptions: 24}, dist)
}

func TestSummarize(t *testing.T) {
	outcomes := []GameOutcome{
		{
			Spec: GameSpec{Players: 2, LastStealRule: true},
			Stats: evaluation.Stats{
				PlayerCount: 2, Rank: 1, TotalOptions: 2, Percentile: 100,
				PercentOfBest: 100, PercentOfMedian: 120, ParetoOptimal: true, TopN: []int{2, 2},
			},
			Metrics:    engine.Metrics{Turns: 3, Steals: 1, LongestChain: 2, BonusSwaps: 1},
			DurationNs: 100,
		},
		{
			Spec: GameSpec{Players: 2, LastStealRule: true},
			Stats: evaluation.Stats{
				PlayerCount: 2, Rank: 2, TotalOptions: 2, Percentile: 50,
				PercentOfBest: 50, PercentOfMedian: math.Inf(1), TopN: []int{0, 2},
			},
			Metrics:    engine.Metrics{Turns: 2, LongestChain: 1},
			DurationNs: 300,
		},
	}

	s := Summarize("run-1", outcomes)

	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 2, s.Players)
	assert.True(t, s.LastStealRule)
	assert.Equal(t, 2, s.Ranks.Trials)
	assert.InDelta(t, 75.0, s.AvgPercentile, 1e-9)
	assert.InDelta(t, 75.0, s.AvgPercentOfBest, 1e-9)
	assert.InDelta(t, 120.0, s.AvgPercentOfMedian, 1e-9, "infinite ratios are skipped")
	assert.Equal(t, 1, s.ParetoOptimal)
	assert.InDelta(t, 50.0, s.ParetoOptimalPct, 1e-9)
	require.Len(t, s.TopNRates, 2)
	assert.InDelta(t, 0.5, s.TopNRates[0], 1e-9)
	assert.InDelta(t, 1.0, s.TopNRates[1], 1e-9)
	assert.InDelta(t, 2.5, s.AvgTurns, 1e-9)
	assert.InDelta(t, 0.5, s.AvgSteals, 1e-9)
	assert.InDelta(t, 0.5, s.AvgBonusSwaps, 1e-9)
	assert.Equal(t, 2, s.LongestChain)
	assert.Equal(t, uint64(200), s.AvgDurationNs)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("empty", nil)
	assert.Equal(t, "empty", s.RunID)
	assert.Zero(t, s.Players)
	assert.Nil(t, s.TopNRates)
}

func TestSaveLoadSummaries(t *testing.T) {
	outcomes, err := RunBatch(BatchConfig{Players: 4, Games: 10}, zerolog.Nop())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "summary.json")
	want := []Summary{Summarize("abc", outcomes)}

	require.NoError(t, SaveSummaries(path, want))
	assert.NoFileExists(t, path+".tmp")

	got, err := LoadSummaries(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].RunID, got[0].RunID)
	assert.Equal(t, want[0].Ranks, got[0].Ranks)
	assert.InDelta(t, want[0].AvgPercentile, got[0].AvgPercentile, 1e-9)
	assert.True(t, want[0].CreatedAt.Equal(got[0].CreatedAt))
}

func TestLoadSummariesMissing(t *testing.T) {
	_, err := LoadSummaries(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
