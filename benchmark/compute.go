package benchmark

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"example.com/fuzzy-control/core/control"
)

// Config sizes a compute benchmark.
type Config struct {
	Goroutines           int
	ComputesPerGoroutine int
	Seed                 int64
}

// Inputs draws n input vectors uniformly from the universes of the
// antecedents of sys.
func Inputs(sys *control.System, n int, seed int64) []map[string]float64 {
	r := rand.New(rand.NewSource(seed))
	ants := sys.Antecedents()
	inputs := make([]map[string]float64, n)
	for i := range inputs {
		in := make(map[string]float64, len(ants))
		for _, v := range ants {
			u := v.Universe()
			in[v.Name()] = u.Min() + r.Float64()*(u.Max()-u.Min())
		}
		inputs[i] = in
	}
	return inputs
}

// RunComputeBenchmark measures Compute latency in microseconds on
// cfg.Goroutines concurrent simulations sharing sys. The merged histogram is
// returned and its percentiles are written to w if w is non-nil.
func RunComputeBenchmark(log *zap.Logger, sys *control.System, cfg Config, w io.Writer) *hdrhistogram.Histogram {
	if cfg.Goroutines <= 0 || cfg.ComputesPerGoroutine <= 0 {
		panic("unexpected benchmark configuration")
	}
	inputs := Inputs(sys, 1024, cfg.Seed)

	var mu sync.Mutex
	total := hdrhistogram.New(1, 1_000_000, 3)
	sg := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(cfg.Goroutines)
	for i := cfg.Goroutines; i > 0; i-- {
		go func(offset int) {
			defer wg.Done()
			hg := hdrhistogram.New(1, 1_000_000, 3)
			sim := control.NewSimulation(sys, control.WithLogger(log))
			<-sg
			for j := 0; j < cfg.ComputesPerGoroutine; j++ {
				err := sim.SetInputs(inputs[(offset+j)%len(inputs)])
				if err != nil {
					log.Error("failed to set inputs", zap.Error(err))
					return
				}
				t0 := time.Now()
				err = sim.Compute()
				d := time.Since(t0)
				if err != nil {
					log.Debug("compute failed", zap.Error(err))
				}
				err = hg.RecordValue(max(d.Microseconds(), 1))
				if err != nil {
					log.Error("failed to record histogram value", zap.Error(err))
					return
				}
			}
			mu.Lock()
			defer mu.Unlock()
			merge(log, total, hg)
		}(i * 7919)
	}
	t0 := time.Now()
	close(sg)
	wg.Wait()
	log.Info("benchmark finished",
		zap.Int("goroutines", cfg.Goroutines),
		zap.Int("computes", cfg.Goroutines*cfg.ComputesPerGoroutine),
		zap.Duration("elapsed", time.Since(t0)))
	if w != nil {
		_, _ = total.PercentilesPrint(w, 1, 1.0)
	}
	return total
}

// merge adds hg to total and reports how many values total could not hold.
func merge(log *zap.Logger, total, hg *hdrhistogram.Histogram) int64 {
	dropped := total.Merge(hg)
	if dropped != 0 {
		log.Error("failed to merge histogram values", zap.Int64("dropped", dropped))
	}
	return dropped
}
