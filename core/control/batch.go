package control

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one input vector of a batch.
type BatchResult struct {
	Outputs map[string]float64
	Err     error
}

// RunBatch evaluates every input vector against sys on up to workers
// goroutines, one Simulation each. Results are in input order. Per-item
// failures are reported in BatchResult.Err; the returned error is non-nil
// only if ctx ends before the batch completes.
func RunBatch(ctx context.Context, sys *System, inputs []map[string]float64,
	workers int, opts ...Option) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batchRuns.Inc()

	results := make([]BatchResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range inputs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sim := NewSimulation(sys, opts...)
			results[i] = evaluate(sim, inputs[i])
			batchItems.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluate(sim *Simulation, inputs map[string]float64) BatchResult {
	if err := sim.SetInputs(inputs); err != nil {
		return BatchResult{Err: err}
	}
	err := sim.Compute()
	outs, oerr := sim.Outputs()
	if oerr != nil {
		return BatchResult{Err: err}
	}
	return BatchResult{Outputs: outs, Err: err}
}
