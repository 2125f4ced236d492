package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/fuzzy-control/base/metrics"
)

var (
	computes = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.SimComputesN,
		Help: metrics.SimComputesH,
	})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.SimCacheHitsN,
		Help: metrics.SimCacheHitsH,
	})
	missingInputs = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.SimMissingInputsN,
		Help: metrics.SimMissingInputsH,
	})
	defuzzFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.SimDefuzzFailuresN,
		Help: metrics.SimDefuzzFailuresH,
	})
	rulesFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.SimRulesFiredN,
		Help: metrics.SimRulesFiredH,
	})
	computeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    metrics.SimComputeDurationN,
		Help:    metrics.SimComputeDurationH,
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
	})
	batchRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.BatchRunsN,
		Help: metrics.BatchRunsH,
	})
	batchItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.BatchItemsN,
		Help: metrics.BatchItemsH,
	})
)
