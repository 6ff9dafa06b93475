package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	PatientsCreatedTotal    prometheus.Counter
	SchedulesGeneratedTotal prometheus.Counter
	RemindersMarkedTotal    prometheus.Counter

	VitalsEvaluatedTotal prometheus.Counter
	VitalAlertsTotal     *prometheus.CounterVec

	NotificationsCreatedTotal *prometheus.CounterVec
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		PatientsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "patients_created_total",
			Help:      "Total number of patient records created.",
		}),

		SchedulesGeneratedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "schedules_generated_total",
			Help:      "Total scheduled dose rows produced by schedule generation.",
		}),

		RemindersMarkedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "reminders_marked_taken_total",
			Help:      "Total doses marked as taken.",
		}),

		VitalsEvaluatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "alerts",
			Name:      "vitals_evaluated_total",
			Help:      "Total vital recordings evaluated against normal ranges.",
		}),

		VitalAlertsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "alerts",
			Name:      "vital_alerts_total",
			Help:      "Total alert records produced, by aggregate priority.",
		}, []string{"priority"}),

		NotificationsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "messaging",
			Name:      "notifications_created_total",
			Help:      "Total notification rows written, by type.",
		}, []string{"type"}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
