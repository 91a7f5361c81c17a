package simulation

import (
	"context"
	"runtime"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// GameJob represents a single simulation job
type GameJob struct {
	SimID int
	Spec  GameSpec
}

type jobResult struct {
	simID   int
	outcome GameOutcome
	err     error
}

// RunBatchParallelN runs the same seeds as RunBatch on numWorkers goroutines
// (0 = one per CPU). Outcomes come back in seed order. The first error
// cancels the remaining jobs.
func RunBatchParallelN(ctx context.Context, cfg BatchConfig, numWorkers int, logger zerolog.Logger) ([]GameOutcome, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > cfg.Games {
		numWorkers = max(cfg.Games, 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan GameJob, cfg.Games)
	results := make(chan jobResult, cfg.Games)

	var wg sync.WaitGroup

	// Start workers
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go worker(ctx, &wg, jobs, results, logger)
	}

	// Queue all simulation jobs
	for i := 0; i < cfg.Games; i++ {
		jobs <- GameJob{
			SimID: i,
			Spec:  cfg.spec(i),
		}
	}
	close(jobs)

	// Wait for all workers to complete, then close results
	go func() {
		wg.Wait()
		close(results)
	}()

	return collectResults(ctx, cancel, results, cfg)
}

// worker processes simulation jobs until the channel drains or ctx is done
func worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan GameJob, results chan<- jobResult, logger zerolog.Logger) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		outcome, err := RunSingleGame(job.Spec, logger)
		results <- jobResult{simID: job.SimID, outcome: outcome, err: err}
	}
}

// collectResults gathers outcomes by SimID so callers see seed order
func collectResults(ctx context.Context, cancel context.CancelFunc, results <-chan jobResult, cfg BatchConfig) ([]GameOutcome, error) {
	outcomes := make([]GameOutcome, cfg.Games)
	done := make([]bool, cfg.Games)
	var firstErr error

	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		outcomes[r.simID] = r.outcome
		done[r.simID] = true
		if cfg.OnGameComplete != nil {
			cfg.OnGameComplete(r.outcome)
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	for i, ok := range done {
		if !ok {
			cause := context.Cause(ctx)
			if cause == nil {
				cause = context.Canceled
			}
			return nil, eris.Wrapf(cause, "game %d did not run", i)
		}
	}
	return outcomes, nil
}
