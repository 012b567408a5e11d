package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ceodigitcare/bizledger/internal/domain"
	"github.com/ceodigitcare/bizledger/internal/usecase"
)

// Metrics holds all Prometheus metrics. It implements usecase.Metrics.
type Metrics struct {
	// Balance metrics
	BalanceRefreshes      *prometheus.CounterVec
	BalanceRefreshErrors  prometheus.Counter
	TransactionsRecorded  *prometheus.CounterVec
	TransactionAmount     *prometheus.HistogramVec
	DocumentsClassified   *prometheus.CounterVec
	OutboxEventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
	RateLimitHits *prometheus.CounterVec
}

var _ usecase.Metrics = (*Metrics)(nil)

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BalanceRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizledger_balance_refreshes_total",
				Help: "Balance refreshes by whether the cached value changed",
			},
			[]string{"changed"},
		),
		BalanceRefreshErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "bizledger_balance_refresh_errors_total",
			Help: "Balance refreshes that failed",
		}),
		TransactionsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizledger_transactions_recorded_total",
				Help: "Ledger transactions recorded by type",
			},
			[]string{"type"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizledger_transaction_amount_minor",
				Help:    "Transaction amounts in minor units",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"type"},
		),
		DocumentsClassified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizledger_documents_classified_total",
				Help: "Document status transitions by resulting status",
			},
			[]string{"status"},
		),
		OutboxEventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizledger_outbox_events_published_total",
				Help: "Outbox events handed to the event sink",
			},
			[]string{"event_type"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bizledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizledger_rate_limit_hits_total",
				Help: "Requests rejected by the per-tenant rate limiter",
			},
			[]string{"tenant_id"},
		),
	}
}

// BalanceRefreshed counts a successful refresh.
func (m *Metrics) BalanceRefreshed(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	m.BalanceRefreshes.WithLabelValues(label).Inc()
}

// BalanceRefreshFailed counts a failed refresh.
func (m *Metrics) BalanceRefreshFailed() {
	m.BalanceRefreshErrors.Inc()
}

// DocumentClassified counts a document entering status.
func (m *Metrics) DocumentClassified(status domain.Status) {
	m.DocumentsClassified.WithLabelValues(string(status)).Inc()
}

// TransactionRecorded counts a recorded transaction and observes its amount.
func (m *Metrics) TransactionRecorded(txType domain.TransactionType, amount int64) {
	m.TransactionsRecorded.WithLabelValues(string(txType)).Inc()
	m.TransactionAmount.WithLabelValues(string(txType)).Observe(float64(amount))
}

// EventPublished counts an outbox event delivered to the sink.
func (m *Metrics) EventPublished(eventType string) {
	m.OutboxEventsPublished.WithLabelValues(eventType).Inc()
}
