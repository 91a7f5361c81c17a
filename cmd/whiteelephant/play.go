package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bobbiec/white-elephant/evaluation"
	"github.com/bobbiec/white-elephant/simulation"
	"github.com/bobbiec/white-elephant/store"
)

func (c *cli) newPlayCmd() *cobra.Command {
	var (
		players   int
		seed      int64
		lastSteal bool
		trace     bool
	)

	cmd := &cobra.Command{
		Use:     "play",
		Short:   "Play a single seeded game and print its record",
		Example: "  whiteelephant play --players 5 --seed 42 --laststeal --trace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.logger
			if trace {
				logger = logger.Level(zerolog.DebugLevel)
			}

			outcome, err := simulation.RunSingleGame(simulation.GameSpec{
				Players:       players,
				Seed:          seed,
				LastStealRule: lastSteal,
			}, logger)
			if err != nil {
				return err
			}
			return printGame(cmd.Context(), cmd.OutOrStdout(), outcome)
		},
	}

	f := cmd.Flags()
	f.IntVar(&players, "players", 5, "Number of players")
	f.Int64Var(&seed, "seed", 0, "Game seed")
	f.BoolVar(&lastSteal, "laststeal", false, "Play the bonus last-steal phase")
	f.BoolVar(&trace, "trace", false, "Log every turn at debug level")
	return cmd
}

func printGame(ctx context.Context, out io.Writer, o simulation.GameOutcome) error {
	names, err := simulation.GiftNames(o.Spec.Players)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s, seed %d\n\n", variantLabel(o.Spec.Players, o.Spec.LastStealRule), o.Spec.Seed)

	fmt.Fprintf(out, "  %-8s", "Player")
	for _, name := range names {
		fmt.Fprintf(out, " %4s", name)
	}
	fmt.Fprintf(out, "   Got\n")
	for p, prefs := range o.Preferences {
		fmt.Fprintf(out, "  %-8d", p+1)
		for _, v := range prefs {
			fmt.Fprintf(out, " %4d", v)
		}
		got := o.Result.Assignment[p]
		fmt.Fprintf(out, "   %s (%d)\n", names[got], o.Result.ScoreParts[p])
	}

	s := o.Stats
	m := o.Metrics
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Score:           %d (best %d, median %.1f)\n", s.Score, s.Best, s.Median)
	fmt.Fprintf(out, "  Rank:            %d of %d (%.3f percentile)\n", s.Rank, s.TotalOptions, s.Percentile)
	fmt.Fprintf(out, "  Pareto-optimal:  %t\n", s.ParetoOptimal)
	fmt.Fprintf(out, "  Top-n:           %s\n", formatTopN(s))
	fmt.Fprintf(out, "  Turns:           %d (%d reveals, %d steals, longest chain %d)\n", m.Turns, m.Reveals, m.Steals, m.LongestChain)
	if o.Spec.LastStealRule {
		fmt.Fprintf(out, "  Bonus:           %d turns, %d swaps\n", m.BonusTurns, m.BonusSwaps)
	}
	fmt.Fprintln(out)

	w, err := store.NewCSVWriter(out, o.Spec.Players)
	if err != nil {
		return err
	}
	if err := w.Write(ctx, s); err != nil {
		return err
	}
	return w.Close()
}

func formatTopN(s evaluation.Stats) string {
	parts := make([]string, len(s.TopN))
	for i, count := range s.TopN {
		parts[i] = fmt.Sprintf("top-%d: %d", i+1, count)
	}
	return strings.Join(parts, "; ")
}
