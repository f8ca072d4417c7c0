package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "territoryx",
			Name:      "http_requests_total",
			Help:      "total http requests served",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "territoryx",
			Name:      "http_request_duration_seconds",
			Help:      "http request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

func PromeHttpMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			path := r.URL.Path
			m.RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
			m.RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
