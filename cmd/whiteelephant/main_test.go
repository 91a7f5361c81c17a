package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobbiec/white-elephant/config"
	"github.com/bobbiec/white-elephant/simulation"
	"github.com/bobbiec/white-elephant/store"
)

func testConfig(dir string) config.Config {
	return config.Config{
		MinPlayers: 2,
		MaxPlayers: 3,
		Games:      20,
		OutputDir:  dir,
		Format:     "csv",
		Rules:      config.RulesBoth,
		LogLevel:   "error",
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(cfg)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestSimulateWritesResults(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	out := execute(t, &cfg, "simulate", "--workers", "2")
	assert.Contains(t, out, "SIMULATION SUMMARY")

	for _, name := range []string{"results-2.csv", "results-3.csv", "results-2-laststeal.csv", "results-3-laststeal.csv"} {
		ranks, total, err := store.ReadRanksFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Len(t, ranks, 20, name)
		assert.Positive(t, total, name)
	}

	summaries, err := simulation.LoadSummaries(filepath.Join(dir, SummaryFile))
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	assert.True(t, summaries[0].LastStealRule, "last-steal variant runs first")
	assert.Equal(t, 2, summaries[0].Players)
	assert.False(t, summaries[3].LastStealRule)
	assert.Equal(t, 3, summaries[3].Players)
	assert.Equal(t, summaries[0].RunID, summaries[3].RunID)
}

func TestSimulateFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	execute(t, &cfg, "simulate", "--rules", "standard", "--games", "5", "--min-players", "4", "--max-players", "4", "--format", "flatbuffers")

	ranks, total, err := store.ReadRanksFile(filepath.Join(dir, "results-4.fb"))
	require.NoError(t, err)
	assert.Len(t, ranks, 5)
	assert.Equal(t, 24, total)
	assert.NoFileExists(t, filepath.Join(dir, "results-4-laststeal.fb"))
}

func TestSimulateRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t.TempDir())
	root := newRootCmd(&cfg)
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"simulate", "--max-players", "12"})

	err := root.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSimulateSQLiteThenSummarize(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Format = "sqlite"

	execute(t, &cfg, "simulate")

	out := execute(t, &cfg, "summarize", "--db", filepath.Join(dir, store.DatabaseName), "--json")

	var dists []namedDistribution
	require.NoError(t, json.Unmarshal([]byte(out), &dists))
	require.Len(t, dists, 4)
	for _, d := range dists {
		assert.Equal(t, 20, d.Ranks.Trials)
	}
}

func TestPlayPrintsRecord(t *testing.T) {
	cfg := testConfig(t.TempDir())

	out := execute(t, &cfg, "play", "--players", "4", "--seed", "7", "--laststeal")

	assert.Contains(t, out, "4 players (last steal), seed 7")
	assert.Contains(t, out, "Bonus:")
	header := strings.Join(store.CSVHeader(4), ",")
	assert.Contains(t, out, header)

	again := execute(t, &cfg, "play", "--players", "4", "--seed", "7", "--laststeal")
	assert.Equal(t, out, again, "seeded games are reproducible")
}

func TestSummarizeFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	execute(t, &cfg, "simulate", "--rules", "laststeal")

	out := execute(t, &cfg, "summarize", filepath.Join(dir, "results-3-laststeal.csv"))
	assert.Contains(t, out, "results-3-laststeal.csv")
	assert.Contains(t, out, "Trials:          20")
	assert.Contains(t, out, "Total Options:   6")
}

func TestVersion(t *testing.T) {
	cfg := testConfig(t.TempDir())
	out := execute(t, &cfg, "version")
	assert.Equal(t, "whiteelephant dev (built unknown)\n", out)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h1m", formatDuration(61*time.Minute))
}
