package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bobbiec/white-elephant/simulation"
	"github.com/bobbiec/white-elephant/store"
)

// namedDistribution pairs a rank distribution with where it came from
type namedDistribution struct {
	Source string                      `json:"source"`
	Ranks  simulation.RankDistribution `json:"ranks"`
}

func (c *cli) newSummarizeCmd() *cobra.Command {
	var (
		dbPath string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [results files...]",
		Short: "Summarize the rank distribution of saved results",
		Example: "  whiteelephant summarize results-5.csv results-5-laststeal.csv\n" +
			"  whiteelephant summarize --db out/results.db --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && dbPath == "" {
				return eris.New("pass results files or --db")
			}

			dists, err := loadDistributions(cmd.Context(), args, dbPath)
			if err != nil {
				return err
			}
			return writeDistributions(cmd.OutOrStdout(), dists, asJSON)
		},
	}

	f := cmd.Flags()
	f.StringVar(&dbPath, "db", "", "Summarize every run stored in this SQLite database")
	f.BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func loadDistributions(ctx context.Context, files []string, dbPath string) ([]namedDistribution, error) {
	var dists []namedDistribution

	for _, path := range files {
		ranks, total, err := store.ReadRanksFile(path)
		if err != nil {
			return nil, err
		}
		dists = append(dists, namedDistribution{
			Source: filepath.Base(path),
			Ranks:  simulation.SummarizeRanks(ranks, total),
		})
	}

	if dbPath == "" {
		return dists, nil
	}

	db, err := store.OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	runs, err := db.Runs(ctx)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		ranks, total, err := db.Ranks(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		dists = append(dists, namedDistribution{
			Source: fmt.Sprintf("%s %s", run.ID, variantLabel(run.Players, run.LastStealRule)),
			Ranks:  simulation.SummarizeRanks(ranks, total),
		})
	}
	return dists, nil
}

func writeDistributions(out io.Writer, dists []namedDistribution, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(dists, "", "  ")
		if err != nil {
			return eris.Wrap(err, "failed to marshal distributions")
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	for i, d := range dists {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printDistribution(out, d.Source, d.Ranks)
	}
	return nil
}
