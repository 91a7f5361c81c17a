package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bobbiec/white-elephant/simulation"
	"github.com/bobbiec/white-elephant/store"
)

// SummaryFile is written next to the results
const SummaryFile = "summary.json"

func (c *cli) newSimulateCmd() *cobra.Command {
	cfg := c.cfg
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate every player count and rule variant, writing one record per game",
		Example: "  whiteelephant simulate --games 1000 --min-players 2 --max-players 7\n" +
			"  WE_FORMAT=sqlite whiteelephant simulate --rules laststeal",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.simulate(cmd.Context(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.MinPlayers, "min-players", cfg.MinPlayers, "Smallest player count")
	f.IntVar(&cfg.MaxPlayers, "max-players", cfg.MaxPlayers, "Largest player count")
	f.IntVar(&cfg.Games, "games", cfg.Games, "Games per player count and rule variant")
	f.Int64Var(&cfg.StartSeed, "start-seed", cfg.StartSeed, "First seed; games use consecutive seeds")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of worker goroutines (0 = auto-detect CPU count)")
	f.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Output directory for results")
	f.StringVar(&cfg.Format, "format", cfg.Format, "Output format (csv, sqlite, flatbuffers)")
	f.StringVar(&cfg.Rules, "rules", cfg.Rules, "Rule variants to run (both, laststeal, standard)")
	return cmd
}

func (c *cli) simulate(ctx context.Context, out io.Writer) error {
	cfg := c.cfg
	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}
	variants, err := cfg.Variants()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	printBanner(out, cfg, runID)

	startTime := time.Now()
	var summaries []simulation.Summary

	for _, lastSteal := range variants {
		for players := cfg.MinPlayers; players <= cfg.MaxPlayers; players++ {
			summary, err := c.runBatch(ctx, out, runID, format, players, lastSteal)
			if err != nil {
				return err
			}
			summaries = append(summaries, summary)
		}
	}

	totalTime := time.Since(startTime)
	summaryPath := filepath.Join(cfg.OutputDir, SummaryFile)
	if err := simulation.SaveSummaries(summaryPath, summaries); err != nil {
		return err
	}

	printSummary(out, summaries, totalTime, cfg.OutputDir)
	return nil
}

// runBatch simulates one player count and rule variant and writes its records
func (c *cli) runBatch(ctx context.Context, out io.Writer, runID string, format store.Format, players int, lastSteal bool) (simulation.Summary, error) {
	cfg := c.cfg
	label := variantLabel(players, lastSteal)
	logger := c.logger.With().Str("run_id", runID).Int("players", players).Bool("last_steal_rule", lastSteal).Logger()

	w, err := store.OpenWriter(ctx, cfg.OutputDir, format, store.Run{
		ID:            runID,
		Players:       players,
		LastStealRule: lastSteal,
		StartedAt:     time.Now(),
	})
	if err != nil {
		return simulation.Summary{}, err
	}

	batchStart := time.Now()
	completed := 0
	batch := simulation.BatchConfig{
		Players:       players,
		Games:         cfg.Games,
		StartSeed:     cfg.StartSeed,
		LastStealRule: lastSteal,
		OnGameComplete: func(simulation.GameOutcome) {
			completed++
			if completed%100 == 0 || completed == cfg.Games {
				progress := float64(completed) / float64(cfg.Games) * 100
				fmt.Fprintf(out, "\r%-22s %6d/%d | %s (%.0f%%)",
					label, completed, cfg.Games, formatDuration(time.Since(batchStart)), progress)
			}
		},
	}

	outcomes, err := simulation.RunBatchParallelN(ctx, batch, cfg.Workers, logger)
	if err != nil {
		w.Close()
		return simulation.Summary{}, err
	}
	fmt.Fprintln(out)

	for _, o := range outcomes {
		if err := w.Write(ctx, o.Stats); err != nil {
			w.Close()
			return simulation.Summary{}, err
		}
	}
	if err := w.Close(); err != nil {
		return simulation.Summary{}, eris.Wrapf(err, "%s", label)
	}

	summary := simulation.Summarize(runID, outcomes)
	logger.Info().
		Int("games", len(outcomes)).
		Int("median_rank", summary.Ranks.MedianRank).
		Float64("top_bucket_pct", summary.Ranks.TopBucketPct).
		Float64("pareto_optimal_pct", summary.ParetoOptimalPct).
		Dur("elapsed", time.Since(batchStart)).
		Msg("batch complete")
	return summary, nil
}

func variantLabel(players int, lastSteal bool) string {
	if lastSteal {
		return fmt.Sprintf("%d players (last steal)", players)
	}
	return fmt.Sprintf("%d players", players)
}
