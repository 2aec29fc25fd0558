package observe

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"memory-companion-go/internal/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// unmatchedRoute labels requests that no mux pattern handled.
const unmatchedRoute = "unmatched"

// Middleware records request latency and logs each completed request. The
// route attribute is the ServeMux pattern that served the request, never the
// raw path, so path parameters do not create new series.
func Middleware(m *Metrics, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			m.HTTPRequestDuration.Record(r.Context(), duration.Seconds(),
				metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("route", route),
					attribute.Int("status", rec.statusCode),
				),
			)
			log.WithRequest(r).WithFields(logrus.Fields{
				"status":      rec.statusCode,
				"route":       route,
				"duration_ms": duration.Milliseconds(),
			}).Info("request completed")
		})
	}
}
