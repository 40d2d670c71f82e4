package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
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

var defaultHistogramBucketsSeconds = []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10}

// Collectors are created eagerly so recording before Init is harmless; they
// are only exposed once Init registers them.
var (
	once sync.Once

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of incoming http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	ledgerOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Ledger operation duration in seconds including retries.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status", "retry"},
	)

	ledgerOperationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operation_error_count",
			Help: "Rejected ledger operations split by operation and error code",
		},
		[]string{"operation", "error_code"},
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

	recordCountGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_record_count",
			Help: "Number of staking records",
		},
	)

	totalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_total_staked",
			Help: "Sum of staked amounts over all records",
		},
	)

	totalRewardGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_total_reward",
			Help: "Sum of unclaimed reward amounts as last committed",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_latency_seconds",
			Help:    "DB latency in seconds splitted by method and execution status",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics(prometheus.DefaultRegisterer)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter := chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

func registerMetrics(registerer prometheus.Registerer) {
	registerer.MustRegister(
		httpRequestDurationHistogram,
		ledgerOperationDuration,
		ledgerOperationErrors,
		queueSendErrorCounter,
		pollerDurationHistogram,
		recordCountGauge,
		totalStakedGauge,
		totalRewardGauge,
		dbLatency,
	)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

// RecordLedgerOperation observes a ledger operation. retry is the number of
// optimistic-concurrency retries it took.
func RecordLedgerOperation(d time.Duration, operation string, retry int, failure bool) {
	ledgerOperationDuration.WithLabelValues(
		operation, outcome(failure).String(), strconv.Itoa(retry),
	).Observe(d.Seconds())
}

func IncLedgerOperationError(operation, errorCode string) {
	ledgerOperationErrors.WithLabelValues(operation, errorCode).Inc()
}

func RecordLedgerTotals(recordCount, totalStaked, totalReward uint64) {
	recordCountGauge.Set(float64(recordCount))
	totalStakedGauge.Set(float64(totalStaked))
	totalRewardGauge.Set(float64(totalReward))
}

// RecordHttpRequestDuration observes an incoming request. route is the
// matched route pattern, not the raw path.
func RecordHttpRequestDuration(d time.Duration, method, route string, statusCode int) {
	httpRequestDurationHistogram.WithLabelValues(
		method,
		route,
		strconv.Itoa(statusCode),
	).Observe(d.Seconds())
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}
