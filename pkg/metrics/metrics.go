package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
// Все методы Record* безопасны для вызова на nil (метрики выключены)
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec

	// Бизнес-метрики
	HoldsPlaced           *prometheus.CounterVec
	HoldsReleased         *prometheus.CounterVec
	ActiveHolds           *prometheus.GaugeVec
	AppointmentsConfirmed *prometheus.CounterVec
	AppointmentsCancelled *prometheus.CounterVec
	EligibilityViolations *prometheus.CounterVec
	SlotLockWait          *prometheus.HistogramVec
}

// New регистрирует метрики в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		HoldsPlaced: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_holds_placed_total",
			Help:        "Hold attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		HoldsReleased: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_holds_released_total",
			Help:        "Released holds by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		ActiveHolds: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "appointment_holds_active",
			Help:        "Number of live holds",
			ConstLabels: constLabels,
		}, []string{}),
		AppointmentsConfirmed: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_confirmed_total",
			Help:        "Confirmation attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		AppointmentsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_cancelled_total",
			Help:        "Cancelled appointments",
			ConstLabels: constLabels,
		}, []string{}),
		EligibilityViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_eligibility_violations_total",
			Help:        "Eligibility violations by code",
			ConstLabels: constLabels,
		}, []string{"code"}),
		SlotLockWait: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "slot_lock_wait_seconds",
			Help:        "Time spent waiting for a per-slot lock",
			ConstLabels: constLabels,
			Buckets:     []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{}),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (m *Metrics) RecordDBQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) SetDBConnections(state string, value int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(state).Set(float64(value))
}

func (m *Metrics) RecordHoldPlaced(outcome string) {
	if m == nil {
		return
	}
	m.HoldsPlaced.WithLabelValues(outcome).Inc()
	if outcome == OutcomeGranted {
		m.ActiveHolds.WithLabelValues().Inc()
	}
}

func (m *Metrics) RecordHoldReleased(reason string) {
	if m == nil {
		return
	}
	m.HoldsReleased.WithLabelValues(reason).Inc()
	m.ActiveHolds.WithLabelValues().Dec()
}

func (m *Metrics) RecordConfirmation(outcome string) {
	if m == nil {
		return
	}
	m.AppointmentsConfirmed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCancellation() {
	if m == nil {
		return
	}
	m.AppointmentsCancelled.WithLabelValues().Inc()
}

func (m *Metrics) RecordViolation(code string) {
	if m == nil {
		return
	}
	m.EligibilityViolations.WithLabelValues(code).Inc()
}

func (m *Metrics) ObserveSlotLockWait(seconds float64) {
	if m == nil {
		return
	}
	m.SlotLockWait.WithLabelValues().Observe(seconds)
}

// Значения меток outcome и reason
const (
	OutcomeGranted  = "granted"
	OutcomeBusy     = "busy"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"

	ReasonExpired   = "expired"
	ReasonConfirmed = "confirmed"
	ReasonCancelled = "cancelled"
	ReasonShutdown  = "shutdown"
)
