package main

import (
	"fmt"
	"io"
	"time"

	"github.com/bobbiec/white-elephant/config"
	"github.com/bobbiec/white-elephant/simulation"
)

func printBanner(out io.Writer, cfg *config.Config, runID string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "╔════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║           White Elephant Outcome Simulator                 ║")
	fmt.Fprintln(out, "╚════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration:\n")
	fmt.Fprintf(out, "  Run ID:         %s\n", runID)
	fmt.Fprintf(out, "  Players:        %d-%d\n", cfg.MinPlayers, cfg.MaxPlayers)
	fmt.Fprintf(out, "  Games:          %d per variant (seeds from %d)\n", cfg.Games, cfg.StartSeed)
	fmt.Fprintf(out, "  Rules:          %s\n", cfg.Rules)
	fmt.Fprintf(out, "  Workers:        %d (0=auto)\n", cfg.Workers)
	fmt.Fprintf(out, "  Format:         %s\n", cfg.Format)
	fmt.Fprintf(out, "  Output:         %s\n", cfg.OutputDir)
	fmt.Fprintln(out)
}

func printSummary(out io.Writer, summaries []simulation.Summary, totalTime time.Duration, outputDir string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "                     SIMULATION SUMMARY")
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "  %-22s %8s %7s %7s %8s %8s\n", "Variant", "Options", "Top1%", "Median", "P99", "Pareto")
	for _, s := range summaries {
		fmt.Fprintf(out, "  %-22s %8d %6.1f%% %7d %7.1f%% %7.1f%%\n",
			variantLabel(s.Players, s.LastStealRule),
			s.Ranks.TotalOptions, s.Ranks.TopBucketPct, s.Ranks.MedianRank,
			s.Ranks.P99Pct, s.ParetoOptimalPct)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Total Time:      %s\n", formatDuration(totalTime))
	fmt.Fprintf(out, "  Output:          %s\n", outputDir)
	fmt.Fprintln(out, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
}

func printDistribution(out io.Writer, name string, d simulation.RankDistribution) {
	fmt.Fprintf(out, "%s\n", name)
	fmt.Fprintf(out, "  Trials:          %d\n", d.Trials)
	fmt.Fprintf(out, "  Total Options:   %d\n", d.TotalOptions)
	fmt.Fprintf(out, "  Top 1%%:          %d games (%.2f%%)\n", d.TopBucketCount, d.TopBucketPct)
	fmt.Fprintf(out, "  Median Rank:     %d\n", d.MedianRank)
	fmt.Fprintf(out, "  99%% at or above: rank %d (%.2f%% of options)\n", d.P99Rank, d.P99Pct)
	fmt.Fprintf(out, "  Worst Rank:      %d\n", d.WorstRank)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
