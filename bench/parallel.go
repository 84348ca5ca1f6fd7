package bench

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/engine"
)

// RunBatchParallel is the one place in the repo that runs match engines
// concurrently, spec.md §5 calls out by name: each worker gets its own
// `engine.GameState`/`dice.Source` pair, never sharing one engine's state
// across goroutines. Grounded on the teacher's
// simulation.RunBatchParallel/worker (parallel.go, a raw sync.WaitGroup +
// channel pool), rewritten on golang.org/x/sync/errgroup for structured
// error propagation and bounded concurrency via SetLimit.
func RunBatchParallel(home, away engine.RosterDef, homeCfg, awayCfg PlayerConfig, numGames int, seed uint64, numWorkers int) (AggregatedStats, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	seeds := make([]uint64, numGames)
	seedSource := dice.NewSeeded(seed)
	for i := range seeds {
		seeds[i] = nextSeed(seedSource)
	}

	results := make([]GameResult, numGames)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(numWorkers)

	for i := 0; i < numGames; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = RunSingleGame(home, away, homeCfg, awayCfg, seeds[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return AggregatedStats{}, err
	}
	return aggregateResults(results), nil
}
