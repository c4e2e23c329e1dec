package handlers

import (
	"net/http"

	"github.com/lojf/enroll/internal/services"
)

// Health reports whether the store answers.
func Health(store services.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.Count(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
