package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/gobudget/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsAdded   *prometheus.CounterVec
	TransactionsDeleted prometheus.Counter

	// Store metrics
	StoreReadFailures *prometheus.CounterVec
	StoreWrites       *prometheus.CounterVec
	StoreDuration     *prometheus.HistogramVec

	// Notification metrics
	NotificationsDelivered prometheus.Counter
	NotificationFailures   *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates and registers all metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		TransactionsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_transactions_added_total",
				Help: "Total number of transactions added by type",
			},
			[]string{"type"},
		),
		TransactionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_transactions_deleted_total",
			Help: "Total number of transactions deleted",
		}),

		// Store metrics
		StoreReadFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_store_read_failures_total",
				Help: "Reads that fell back to an empty list, by reason",
			},
			[]string{"reason"},
		),
		StoreWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_store_writes_total",
				Help: "Backend writes by backend and status",
			},
			[]string{"backend", "status"},
		),
		StoreDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobudget_store_duration_seconds",
				Help:    "Backend operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),

		// Notification metrics
		NotificationsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_notifications_delivered_total",
			Help: "Change notifications delivered to observers",
		}),
		NotificationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_notification_failures_total",
				Help: "Change notifications an observer failed to handle",
			},
			[]string{"observer"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),
	}
}

// TransactionAdded implements usecase.MetricsRecorder.
func (m *Metrics) TransactionAdded(txType domain.TransactionType) {
	m.TransactionsAdded.WithLabelValues(string(txType)).Inc()
}

// TransactionDeleted implements usecase.MetricsRecorder.
func (m *Metrics) TransactionDeleted() {
	m.TransactionsDeleted.Inc()
}

// StoreReadFailed implements usecase.MetricsRecorder.
func (m *Metrics) StoreReadFailed(reason string) {
	m.StoreReadFailures.WithLabelValues(reason).Inc()
}

// NotificationFailed counts an observer error.
func (m *Metrics) NotificationFailed(observer string) {
	m.NotificationFailures.WithLabelValues(observer).Inc()
}

// NotificationDelivered counts a successful observer call.
func (m *Metrics) NotificationDelivered() {
	m.NotificationsDelivered.Inc()
}

// RateLimited counts a rejected request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}
