// internal/middleware/logging.go
//
// Request logging.
//
// Every request gets a child logger carrying its chi request ID, stored in
// the context so handlers and the predictor client log under the same ID.
// When the response is done one line is written with status, size, latency,
// and the parsed User-Agent.  Static assets and health paths (/metrics,
// /healthz) log at DEBUG; everything else at INFO, or WARN for 5xx.

package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/requestinfo"
)

// RequestLog returns the logging wrapper bound to base.
func RequestLog(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With("req_id", chimw.GetReqID(r.Context()))
			r = r.WithContext(logger.WithContext(r.Context(), l))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur_ms", time.Since(start).Milliseconds(),
			}
			if ri := requestinfo.FromContext(r.Context()); ri != nil {
				fields = append(fields,
					"ip", ri.IP,
					"country", ri.Geo.CountryISO,
					"browser", ri.UA.Browser,
					"device", ri.UA.Device,
					"bot", ri.UA.IsBot,
				)
			}

			switch {
			case status >= 500:
				l.Warnw("request", fields...)
			case quiet(r.URL.Path):
				l.Debugw("request", fields...)
			default:
				l.Infow("request", fields...)
			}
		})
	}
}

func quiet(path string) bool {
	return path == "/metrics" || path == "/healthz" || strings.HasPrefix(path, "/assets/")
}
