package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultMaxBodyBytes is the body limit used when a non-positive one is given.
	DefaultMaxBodyBytes int64 = 1 << 20
	// DefaultTimeout is the request deadline used when a non-positive one is given.
	DefaultTimeout = 30 * time.Second
)

// MaxBodySize limits request bodies with http.MaxBytesReader. Reading past
// the limit fails with *http.MaxBytesError.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		slog.Warn("middleware: body limit must be positive, using default",
			slog.Int64("provided", limit), slog.Int64("default", DefaultMaxBodyBytes))

		limit = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// Timeout answers 503 when the handler does not finish within d. The request
// context is canceled at the same deadline.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		slog.Warn("middleware: timeout must be positive, using default",
			slog.Duration("provided", d), slog.Duration("default", DefaultTimeout))

		d = DefaultTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "Service Unavailable")
	}
}

// Chain wraps h so that the first middleware is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return h
}
