package simulation

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// RankDistribution describes where simulated games land among all
// possible assignments. It only needs ranks and the option count, so it
// can be rebuilt from any results file.
type RankDistribution struct {
	Trials       int `json:"trials"`
	TotalOptions int `json:"total_options"`

	// Games in the top 1% of outcomes (rank 1 when there are <= 100 options)
	TopBucketCount int     `json:"top_bucket_count"`
	TopBucketPct   float64 `json:"top_bucket_pct"`

	WorstRank  int `json:"worst_rank"`
	MedianRank int `json:"median_rank"`

	// 99% of games rank at or above P99Rank, which is P99Pct% of the options
	P99Rank int     `json:"p99_rank"`
	P99Pct  float64 `json:"p99_pct"`
}

// Summary aggregates one batch (one player count, one rule variant)
type Summary struct {
	RunID         string    `json:"run_id"`
	Players       int       `json:"players"`
	LastStealRule bool      `json:"last_steal_rule"`
	CreatedAt     time.Time `json:"created_at"`

	Ranks RankDistribution `json:"ranks"`

	AvgPercentile      float64   `json:"avg_percentile"`
	AvgPercentOfBest   float64   `json:"avg_percent_of_best"`
	AvgPercentOfMedian float64   `json:"avg_percent_of_median"`
	ParetoOptimal      int       `json:"pareto_optimal"`
	ParetoOptimalPct   float64   `json:"pareto_optimal_pct"`
	TopNRates          []float64 `json:"top_n_rates"` // Mean share of players holding a top-n gift

	AvgTurns      float64 `json:"avg_turns"`
	AvgSteals     float64 `json:"avg_steals"`
	AvgBonusSwaps float64 `json:"avg_bonus_swaps"`
	LongestChain  int     `json:"longest_chain"`
	AvgDurationNs uint64  `json:"avg_duration_ns"`
}

// SummarizeRanks computes the rank distribution for one results file
func SummarizeRanks(ranks []int, totalOptions int) RankDistribution {
	dist := RankDistribution{
		Trials:       len(ranks),
		TotalOptions: totalOptions,
	}
	if len(ranks) == 0 {
		return dist
	}

	sorted := slices.Clone(ranks)
	slices.Sort(sorted)

	onePercent := totalOptions / 100
	for _, r := range sorted {
		if (onePercent <= 1 && r == 1) || (onePercent > 1 && r < onePercent) {
			dist.TopBucketCount++
		}
	}
	dist.TopBucketPct = float64(dist.TopBucketCount) / float64(len(sorted)) * 100

	dist.WorstRank = sorted[len(sorted)-1]
	dist.MedianRank = median(sorted)
	dist.P99Rank = nearestQuantile(sorted, 0.99)
	if totalOptions > 0 {
		dist.P99Pct = float64(dist.P99Rank) / float64(totalOptions) * 100
	}

	return dist
}

// nearestQuantile picks the element nearest to q of the way through a
// sorted slice, rounding half to even
func nearestQuantile(sorted []int, q float64) int {
	pos := int(math.RoundToEven(q * float64(len(sorted)-1)))
	return sorted[pos]
}

// median calculates the median of a sorted slice
func median(sorted []int) int {
	if len(sorted) == 0 {
		return 0
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Summarize aggregates the outcomes of one batch
func Summarize(runID string, outcomes []GameOutcome) Summary {
	summary := Summary{
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
	}
	if len(outcomes) == 0 {
		return summary
	}

	first := outcomes[0]
	summary.Players = first.Spec.Players
	summary.LastStealRule = first.Spec.LastStealRule
	summary.TopNRates = make([]float64, first.Spec.Players)

	ranks := make([]int, 0, len(outcomes))
	var totalDuration uint64
	var turns, steals, swaps int
	var bestN, medianN int

	for _, o := range outcomes {
		s := o.Stats
		ranks = append(ranks, s.Rank)

		summary.AvgPercentile += s.Percentile
		// A zero benchmark yields +Inf, which would poison the mean
		if !math.IsInf(s.PercentOfBest, 0) {
			summary.AvgPercentOfBest += s.PercentOfBest
			bestN++
		}
		if !math.IsInf(s.PercentOfMedian, 0) {
			summary.AvgPercentOfMedian += s.PercentOfMedian
			medianN++
		}
		if s.ParetoOptimal {
			summary.ParetoOptimal++
		}
		for i, count := range s.TopN {
			if i < len(summary.TopNRates) {
				summary.TopNRates[i] += float64(count) / float64(s.PlayerCount)
			}
		}

		turns += o.Metrics.Turns
		steals += o.Metrics.Steals
		swaps += o.Metrics.BonusSwaps
		summary.LongestChain = max(summary.LongestChain, o.Metrics.LongestChain)
		totalDuration += o.DurationNs
	}

	n := float64(len(outcomes))
	summary.Ranks = SummarizeRanks(ranks, first.Stats.TotalOptions)
	summary.AvgPercentile /= n
	if bestN > 0 {
		summary.AvgPercentOfBest /= float64(bestN)
	}
	if medianN > 0 {
		summary.AvgPercentOfMedian /= float64(medianN)
	}
	summary.ParetoOptimalPct = float64(summary.ParetoOptimal) / n * 100
	for i := range summary.TopNRates {
		summary.TopNRates[i] /= n
	}
	summary.AvgTurns = float64(turns) / n
	summary.AvgSteals = float64(steals) / n
	summary.AvgBonusSwaps = float64(swaps) / n
	summary.AvgDurationNs = totalDuration / uint64(len(outcomes))

	return summary
}

// SaveSummaries writes summaries as indented JSON. The file is written to a
// temp path first and renamed into place.
func SaveSummaries(path string, summaries []Summary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrap(err, "failed to create summary directory")
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "failed to marshal summary")
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return eris.Wrap(err, "failed to write summary")
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return eris.Wrap(err, "failed to finalize summary")
	}

	return nil
}

// LoadSummaries reads a file written by SaveSummaries
func LoadSummaries(path string) ([]Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read summary")
	}

	var summaries []Summary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, eris.Wrap(err, "failed to unmarshal summary")
	}
	return summaries, nil
}
