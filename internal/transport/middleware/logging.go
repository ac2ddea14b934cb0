package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/budget-ledger/pkg/logger"
)

// LoggingMiddleware logs one line per request at a level derived from the
// response status. Bodies are not logged.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(ww, r)

		statusCode := ww.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}

		logLevel := slog.LevelInfo
		if statusCode >= 400 && statusCode < 500 {
			logLevel = slog.LevelWarn
		} else if statusCode >= 500 {
			logLevel = slog.LevelError
		}

		logger.From(r.Context()).Log(context.Background(), logLevel, "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_size", ww.size,
			"remote_addr", r.RemoteAddr,
		)
	})
}

// responseWriter captures status and size for logging
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}
