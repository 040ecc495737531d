package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-коллекторов сервиса.
// Все методы безопасно вызывать на nil: метрики могут быть отключены в конфигурации
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec

	BookingsTotal     *prometheus.CounterVec
	SlotsReturned     *prometheus.HistogramVec
	HoldsExpiredTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает и регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "operation"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections",
				Help: "Database connection pool state",
			},
			[]string{"service", "state"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Booking attempts by outcome",
			},
			[]string{"service", "outcome"},
		),
		SlotsReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "available_slots_returned",
				Help:    "Number of available slots returned per query",
				Buckets: []float64{0, 1, 2, 4, 8, 12, 16, 24, 32},
			},
			[]string{"service"},
		),
		HoldsExpiredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pending_holds_expired_total",
				Help: "Pending appointments cancelled after hold expiry",
			},
			[]string{"service"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.BookingsTotal,
		m.SlotsReturned,
		m.HoldsExpiredTotal,
	)

	return m
}

// ServiceName возвращает имя сервиса, используемое в метках
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// ObserveBooking учитывает попытку бронирования (created, slot_taken, rejected, error)
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(m.serviceName, outcome).Inc()
}

// ObserveSlots учитывает количество слотов, отданных клиенту
func (m *Metrics) ObserveSlots(count int) {
	if m == nil {
		return
	}
	m.SlotsReturned.WithLabelValues(m.serviceName).Observe(float64(count))
}

// ObserveHoldsExpired учитывает записи, отменённые по истечении удержания
func (m *Metrics) ObserveHoldsExpired(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.HoldsExpiredTotal.WithLabelValues(m.serviceName).Add(float64(count))
}
