// Package main provides the whiteelephant CLI for simulating White Elephant
// gift exchanges and ranking their outcomes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bobbiec/white-elephant/config"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", eris.ToString(err, false))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = newRootCmd(&cfg).ExecuteContext(ctx)
	stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\n\nInterrupted!")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", eris.ToString(err, false))
		os.Exit(1)
	}
}

// cli carries state shared by subcommands
type cli struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	c := &cli{cfg: cfg, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "whiteelephant",
		Short:         "Simulate White Elephant gift exchanges and rank the outcomes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			c.logger = newLogger(level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		c.newSimulateCmd(),
		c.newPlayCmd(),
		c.newSummarizeCmd(),
		newVersionCmd(),
	)
	return root
}

func newLogger(level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "whiteelephant %s (built %s)\n", Version, BuildTime)
		},
	}
}
