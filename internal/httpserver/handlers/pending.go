package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// Pending lists the queued records.
func Pending(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Queue == nil {
			writeError(w, http.StatusServiceUnavailable, "queue not initialized")
			return
		}
		writeJSON(w, http.StatusOK, d.Queue.Load(r.Context()))
	}
}

type syncResponse struct {
	Queued bool   `json:"queued"`
	Reason string `json:"reason,omitempty"`
}

// Sync queues a manual drain; it does not wait for it.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SyncTrigger == nil {
			writeError(w, http.StatusServiceUnavailable, "sync runner not started")
			return
		}
		select {
		case d.SyncTrigger <- struct{}{}:
			d.Logger.Info("manual sync triggered via endpoint", logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, syncResponse{Queued: true})
		default:
			writeJSON(w, http.StatusTooManyRequests, syncResponse{Reason: "sync already queued"})
		}
	}
}
