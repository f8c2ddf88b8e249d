package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method"},
	)

	// Métricas de negocio del flujo de pacientes.
	flowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patient_flow_transitions_total",
			Help: "Total number of encounter transitions applied",
		},
		[]string{"transition", "clinic"},
	)

	hospitalizationNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hospitalization_notifications_total",
			Help: "Total number of hospitalization notifications sent",
		},
		[]string{"status"},
	)
)

// RecordTransition cuenta una transición aplicada con éxito.
func RecordTransition(transition, clinicID string) {
	flowTransitionsTotal.WithLabelValues(transition, clinicID).Inc()
}

// RecordNotification cuenta un intento de notificación (status: ok | error).
func RecordNotification(status string) {
	hospitalizationNotificationsTotal.WithLabelValues(status).Inc()
}

// Handler expone /metrics en formato Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware instrumenta requests HTTP (total + duración).
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(ww.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
