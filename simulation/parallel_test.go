package simulation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatchParallelMatchesSerial(t *testing.T) {
	cfg := BatchConfig{Players: 5, Games: 40, StartSeed: 100, LastStealRule: true}

	serial, err := RunBatch(cfg, zerolog.Nop())
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 4, 64} {
		parallel, err := RunBatchParallelN(context.Background(), cfg, workers, zerolog.Nop())
		require.NoError(t, err)
		require.Len(t, parallel, len(serial))

		for i := range serial {
			assert.Equal(t, serial[i].Stats, parallel[i].Stats, "workers=%d game=%d", workers, i)
			assert.Equal(t, serial[i].Metrics, parallel[i].Metrics)
		}
	}
}

func TestRunBatchParallelCallsOnGameComplete(t *testing.T) {
	seen := make(map[int64]bool)
	cfg := BatchConfig{
		Players:        3,
		Games:          25,
		OnGameComplete: func(o GameOutcome) { seen[o.Spec.Seed] = true },
	}

	_, err := RunBatchParallelN(context.Background(), cfg, 3, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, seen, 25)
}

func TestRunBatchParallelStopsOnError(t *testing.T) {
	cfg := BatchConfig{Players: 1, Games: 10}

	_, err := RunBatchParallelN(context.Background(), cfg, 2, zerolog.Nop())
	assert.ErrorIs(t, err, ErrPlayerCount)
}

func TestRunBatchParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunBatchParallelN(ctx, BatchConfig{Players: 3, Games: 10}, 2, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBatchParallelEmpty(t *testing.T) {
	outcomes, err := RunBatchParallelN(context.Background(), BatchConfig{Players: 3}, 4, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func BenchmarkParallel_Batch100(b *testing.B) {
	cfg := BatchConfig{Players: 6, Games: 100, StartSeed: 42}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := RunBatchParallelN(context.Background(), cfg, 0, zerolog.Nop()); err != nil {
			b.Fatal(err)
		}
	}
}
