package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool   `json:"ready"`
	Namespace string `json:"namespace,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Readyz is ready once the shared namespace answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Namespace == nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Error: "namespace not initialized"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.Namespace.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Namespace: d.Namespace.Name(), Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Namespace: d.Namespace.Name()})
	}
}
