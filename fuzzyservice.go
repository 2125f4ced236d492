// Fuzzy control service

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/fuzzy-control/base/zaplog"
	"example.com/fuzzy-control/benchmark"

	"example.com/fuzzy-control/core/control"
	"example.com/fuzzy-control/core/defuzz"
	"example.com/fuzzy-control/core/render"
	"example.com/fuzzy-control/core/rule"
	"example.com/fuzzy-control/core/tipping"
)

const (
	defaultQuality = 6.5
	defaultService = 9.8

	plotFormat = ".png"
)

type engineConfig struct {
	And          string `toml:"and,omitempty"`
	Or           string `toml:"or,omitempty"`
	Implication  string `toml:"implication,omitempty"`
	Aggregation  string `toml:"aggregation,omitempty"`
	Defuzzify    string `toml:"defuzzify,omitempty"`
	ClipToBounds *bool  `toml:"clip_to_bounds,omitempty"`
	CacheSize    int    `toml:"cache_size,omitempty"`
	Workers      int    `toml:"workers,omitempty"`
}

type svcConfig struct {
	MetricsAddr string                        `toml:"metrics_address,omitempty"`
	Engine      engineConfig                  `toml:"engine,omitempty"`
	Scenarios   map[string]map[string]float64 `toml:"scenarios,omitempty"`
}

type scenarioResult struct {
	name    string
	inputs  map[string]float64
	outputs map[string]float64
	err     error
}

var (
	log *zap.Logger
)

func initLogger(verbose bool) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var err error
	log, err = c.Build()
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
}

func runMonitor(log *zap.Logger, addr string) {
	http.Handle("/metrics", promhttp.Handler())
	log.Info("serving metrics", zap.String("address", addr))
	err := http.ListenAndServe(addr, nil)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

func decodeConfig(r io.Reader) (svcConfig, error) {
	var cfg svcConfig
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	return cfg, err
}

func loadConfig(configFile string) svcConfig {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	cfg, err := decodeConfig(bytes.NewReader(raw))
	if err != nil {
		log.Fatal("failed to decode configuration", zap.Error(err))
	}
	return cfg
}

func systemOptions(cfg engineConfig) ([]control.SystemOption, error) {
	var err error
	var norms rule.Norms
	norms.And, err = rule.ParseAndMethod(cfg.And)
	if err != nil {
		return nil, err
	}
	norms.Or, err = rule.ParseOrMethod(cfg.Or)
	if err != nil {
		return nil, err
	}
	impl, err := control.ParseImplication(cfg.Implication)
	if err != nil {
		return nil, err
	}
	agg, err := control.ParseAggregation(cfg.Aggregation)
	if err != nil {
		return nil, err
	}
	method, err := defuzz.ParseMethod(cfg.Defuzzify)
	if err != nil {
		return nil, err
	}
	return []control.SystemOption{
		control.WithNorms(norms),
		control.WithImplication(impl),
		control.WithAggregation(agg),
		control.WithDefuzzify(method),
	}, nil
}

func simulationOptions(log *zap.Logger, cfg engineConfig) []control.Option {
	opts := []control.Option{control.WithLogger(log)}
	if cfg.ClipToBounds != nil {
		opts = append(opts, control.WithClipToBounds(*cfg.ClipToBounds))
	}
	if cfg.CacheSize > 0 {
		opts = append(opts, control.WithCache(cfg.CacheSize))
	}
	return opts
}

func newModel(cfg engineConfig) (*tipping.Model, error) {
	opts, err := systemOptions(cfg)
	if err != nil {
		return nil, err
	}
	return tipping.New(opts...)
}

// runScenarios evaluates the configured scenarios in name order.
func runScenarios(ctx context.Context, log *zap.Logger, sys *control.System, cfg svcConfig) (
	[]scenarioResult, error) {
	names := make([]string, 0, len(cfg.Scenarios))
	for name := range cfg.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	inputs := make([]map[string]float64, len(names))
	for i, name := range names {
		inputs[i] = cfg.Scenarios[name]
	}

	rs, err := control.RunBatch(ctx, sys, inputs, cfg.Engine.Workers, simulationOptions(log, cfg.Engine)...)
	if err != nil {
		return nil, err
	}
	results := make([]scenarioResult, len(names))
	for i, name := range names {
		results[i] = scenarioResult{
			name:    name,
			inputs:  inputs[i],
			outputs: rs[i].Outputs,
			err:     rs[i].Err,
		}
	}
	return results, nil
}

func runEngine(configFile string) {
	ctx := context.Background()

	cfg := loadConfig(configFile)
	m, err := newModel(cfg.Engine)
	if err != nil {
		log.Fatal("failed to build control system", zap.Error(err))
	}
	log.Info("control system ready", zap.Stringer("system", m.System))

	results, err := runScenarios(ctx, log, m.System, cfg)
	if err != nil {
		log.Fatal("failed to run scenarios", zap.Error(err))
	}
	for _, r := range results {
		if r.err != nil {
			log.Warn("scenario failed", zap.String("scenario", r.name),
				zap.Any("inputs", r.inputs), zap.Error(r.err))
		}
		if len(r.outputs) != 0 {
			log.Info("scenario computed", zap.String("scenario", r.name),
				zap.Any("inputs", r.inputs), zap.Any("outputs", r.outputs))
		}
	}

	if cfg.MetricsAddr != "" {
		runMonitor(log, cfg.MetricsAddr)
	}
}

func runBenchmark(n, workers int) {
	m, err := tipping.New()
	if err != nil {
		log.Fatal("failed to build control system", zap.Error(err))
	}
	benchmark.RunComputeBenchmark(log, m.System, benchmark.Config{
		Goroutines:           workers,
		ComputesPerGoroutine: n,
		Seed:                 1,
	}, os.Stdout)
}

func plotModel(m *tipping.Model, outDir string, quality, service float64) error {
	err := os.MkdirAll(outDir, 0o755)
	if err != nil {
		return err
	}
	for _, v := range m.System.Antecedents() {
		err = render.Variable(v, filepath.Join(outDir, v.Name()+plotFormat))
		if err != nil {
			return err
		}
	}
	err = render.Variable(m.Tip, filepath.Join(outDir, m.Tip.Name()+plotFormat))
	if err != nil {
		return err
	}

	sim := control.NewSimulation(m.System, control.WithLogger(log))
	err = sim.SetInputs(map[string]float64{tipping.Quality: quality, tipping.Service: service})
	if err != nil {
		return err
	}
	err = sim.Compute()
	if err != nil {
		log.Warn("compute failed", zap.Error(err))
	}
	return render.Output(sim, tipping.Tip, filepath.Join(outDir, "output"+plotFormat))
}

func runPlot(outDir string, quality, service float64) {
	m, err := tipping.New()
	if err != nil {
		log.Fatal("failed to build control system", zap.Error(err))
	}
	err = plotModel(m, outDir, quality, service)
	if err != nil {
		log.Fatal("failed to render plots", zap.Error(err))
	}
	log.Info("plots written", zap.String("dir", outDir))
}

func exitWithUsage() {
	fmt.Println("usage: fuzzyservice run -config <file> [-verbose]")
	fmt.Println("       fuzzyservice bench [-n <computes>] [-workers <goroutines>] [-verbose]")
	fmt.Println("       fuzzyservice plot -out <dir> [-quality <x>] [-service <x>] [-verbose]")
	os.Exit(1)
}

func main() {
	var (
		verbose    bool
		configFile string
		n          int
		workers    int
		outDir     string
		quality    float64
		service    float64
	)

	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	benchFlags := flag.NewFlagSet("bench", flag.ExitOnError)
	plotFlags := flag.NewFlagSet("plot", flag.ExitOnError)

	runFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	runFlags.StringVar(&configFile, "config", "", "Config file")

	benchFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	benchFlags.IntVar(&n, "n", 100_000, "Computes per goroutine")
	benchFlags.IntVar(&workers, "workers", 1, "Number of goroutines")

	plotFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	plotFlags.StringVar(&outDir, "out", "", "Output directory")
	plotFlags.Float64Var(&quality, "quality", defaultQuality, "Food quality input")
	plotFlags.Float64Var(&service, "service", defaultService, "Service input")

	if len(os.Args) < 2 {
		exitWithUsage()
	}

	switch os.Args[1] {
	case runFlags.Name():
		err := runFlags.Parse(os.Args[2:])
		if err != nil || runFlags.NArg() != 0 {
			exitWithUsage()
		}
		if configFile == "" {
			exitWithUsage()
		}
		initLogger(verbose)
		runEngine(configFile)
	case benchFlags.Name():
		err := benchFlags.Parse(os.Args[2:])
		if err != nil || benchFlags.NArg() != 0 {
			exitWithUsage()
		}
		if n <= 0 || workers <= 0 {
			exitWithUsage()
		}
		initLogger(verbose)
		runBenchmark(n, workers)
	case plotFlags.Name():
		err := plotFlags.Parse(os.Args[2:])
		if err != nil || plotFlags.NArg() != 0 {
			exitWithUsage()
		}
		if outDir == "" {
			exitWithUsage()
		}
		initLogger(verbose)
		runPlot(outDir, quality, service)
	default:
		exitWithUsage()
	}
}
