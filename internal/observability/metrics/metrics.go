package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var defaultHistogramBucketsSeconds = []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30}

// Collectors exist before Init so that recording is safe in tests and tools
// that never expose them.
var (
	once          sync.Once
	metricsRouter *chi.Mux

	ledgerOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Number of ledger operations split by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	ledgerOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Histogram of ledger operation durations in seconds, persistence included.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	ledgerTotalsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ledger_totals",
			Help: "Ledger aggregates. Values above float64 precision are approximated.",
		},
		[]string{"total"},
	)

	stakeholderCountGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_stakeholder_count",
			Help: "Number of addresses with positive stake",
		},
	)

	ledgerSequenceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_sequence",
			Help: "Sequence of the last applied ledger mutation",
		},
	)

	invariantViolationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_invariant_violation_count",
			Help: "Number of failed ledger invariant checks",
		},
	)

	eventPersistErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_event_persist_error_count",
			Help: "Number of ledger events that could not be written to the event log",
		},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	pollerLastSuccessGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "poller_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per poller.",
		},
		[]string{"type"},
	)

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of incoming http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	streamSubscribersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_stream_subscribers",
			Help: "Number of connected event stream subscribers",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)
)

// Init registers the collectors and starts the metrics server.
func Init(host string, metricsPort int) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(host, metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(host string, metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := net.JoinHostPort(host, fmt.Sprint(metricsPort))
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Info().Msgf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

func registerMetrics() {
	prometheus.MustRegister(
		ledgerOperationCounter,
		ledgerOperationDuration,
		ledgerTotalsGauge,
		stakeholderCountGauge,
		ledgerSequenceGauge,
		invariantViolationCounter,
		eventPersistErrorCounter,
		queueSendErrorCounter,
		pollerDurationHistogram,
		pollerLastSuccessGauge,
		httpRequestDurationHistogram,
		streamSubscribersGauge,
		dbLatency,
	)
}

func RecordLedgerOperation(operation string, d time.Duration, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	ledgerOperationCounter.WithLabelValues(operation, status.String()).Inc()
	ledgerOperationDuration.WithLabelValues(operation, status.String()).Observe(d.Seconds())
}

// RecordLedgerState publishes the aggregates after a mutation. Amounts are
// passed as float64, exact values are served by the API.
func RecordLedgerState(totalSupply, totalStakes, totalRewards float64, stakeholders int, sequence uint64) {
	ledgerTotalsGauge.WithLabelValues("supply").Set(totalSupply)
	ledgerTotalsGauge.WithLabelValues("stakes").Set(totalStakes)
	ledgerTotalsGauge.WithLabelValues("rewards").Set(totalRewards)
	stakeholderCountGauge.Set(float64(stakeholders))
	ledgerSequenceGauge.Set(float64(sequence))
}

func IncInvariantViolations() {
	invariantViolationCounter.Inc()
}

func IncEventPersistFailures() {
	eventPersistErrorCounter.Inc()
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

func RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	httpRequestDurationHistogram.WithLabelValues(method, route, fmt.Sprint(statusCode)).Observe(d.Seconds())
}

func IncStreamSubscribers() {
	streamSubscribersGauge.Inc()
}

func DecStreamSubscribers() {
	streamSubscribersGauge.Dec()
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}
