// Package middleware holds the handlers the server wraps around its
// route table.
package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"coursedesk/internal/httputil"
)

// Recovery converts a handler panic into a 500 problem response, so one
// broken request cannot take the whole authoring session down with it.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("request panicked",
						"panic", v,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
