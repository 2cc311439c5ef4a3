package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sweep metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meanrev_backtest_runs_total",
			Help: "Total number of backtest runs executed",
		},
		[]string{"engine", "status"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meanrev_backtest_run_duration_seconds",
			Help:    "Distribution of backtest run durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	// Result metrics
	finalEquity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "meanrev_backtest_final_equity",
			Help: "Final equity of the most recent backtest run",
		},
	)

	tradesPerRun = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meanrev_backtest_trades_per_run",
			Help:    "Distribution of trade counts per run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meanrev_backtest_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(finalEquity)
	prometheus.MustRegister(tradesPerRun)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordRun records one completed backtest run
func RecordRun(engine string, seconds float64, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	runsTotal.WithLabelValues(engine, status).Inc()
	runDuration.WithLabelValues(engine).Observe(seconds)
}

// RecordResult records the headline numbers of a finished run
func RecordResult(equity float64, trades int) {
	finalEquity.Set(equity)
	tradesPerRun.Observe(float64(trades))
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
