package middleware

import (
	"log/slog"
	"net/http"
)

// Recover converts a handler panic into a 500 instead of tearing down the
// connection. Only truly unexpected internal errors reach this point; the
// handlers report expected failures as JSON results.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec != nil {
				slog.Error("handler panicked", "panic", rec, "path", r.URL.Path)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
