package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterStoreWrites         *prometheus.CounterVec
	CounterSkippedMacroWrites  prometheus.Counter
	CounterMacroRecomputeFails prometheus.Counter
	CounterPlanImports         *prometheus.CounterVec
	CounterReconciliations     *prometheus.CounterVec
	CounterEmergencyResets     prometheus.Counter
	CounterCacheErrors         prometheus.Counter

	// gauges
	GaugeRequests      prometheus.Gauge
	GaugeLifeSignal    prometheus.Gauge
	GaugePendingWrites prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
	HistBackupDuration       prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fittrack", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fittrack", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterStoreWrites := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_writes",
		Help:      "Store write operations by operation and outcome",
	}, []string{"op", "status"})
	counterSkippedMacroWrites := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "skipped_macro_writes",
		Help:      "Macro saves skipped because all totals were zero",
	})
	counterMacroRecomputeFails := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "macro_recompute_failures",
		Help:      "Background macro recomputations that failed after a diet save",
	})
	counterPlanImports := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_imports",
		Help:      "Plan imports by domain",
	}, []string{"domain"})
	counterReconciliations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_reconciliations",
		Help:      "Plan consistency checks by resulting state",
	}, []string{"state"})
	counterEmergencyResets := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "emergency_resets",
		Help:      "Manual emergency resets of all plans and progress",
	})
	counterCacheErrors := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_errors",
		Help:      "Failed redis cache mirror operations",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugePendingWrites := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "pending_debounced_writes",
		Help:      "Day records waiting for their debounced write",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histBackupDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backup_duration_seconds",
		Help:      "Total duration of a single drive backup run in seconds",
		Buckets:   []float64{0.1, 1, 10, 60, 120, 240, 480, 1000},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterStoreWrites:         counterStoreWrites,
		CounterSkippedMacroWrites:  counterSkippedMacroWrites,
		CounterMacroRecomputeFails: counterMacroRecomputeFails,
		CounterPlanImports:         counterPlanImports,
		CounterReconciliations:     counterReconciliations,
		CounterEmergencyResets:     counterEmergencyResets,
		CounterCacheErrors:         counterCacheErrors,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugePendingWrites:         gaugePendingWrites,
		HistogramRequestDuration:   histogramRequestDuration,
		HistBackupDuration:         histBackupDuration,
	}
}
