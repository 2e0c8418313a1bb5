package middleware

import (
	"net/http"
	"strconv"
	"time"

	"medguide/internal/infrastructure/monitoring"

	"github.com/gorilla/mux"
)

type MetricsMiddleware struct {
	metrics *monitoring.Metrics
}

func NewMetricsMiddleware(metrics *monitoring.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handle records request counts and latency labelled by the matched route template.
func (m *MetricsMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.metrics.ObserveRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start).Seconds())
	})
}
