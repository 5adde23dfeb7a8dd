package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Name   string `json:"name,omitempty"`
	Count  *int   `json:"count,omitempty"`
	Last   string `json:"last,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Error  string `json:"error,omitempty"`
	Impact string `json:"impact,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

const timeLayout = "2006-01-02 15:04:05"

// Infra reports namespace, queue, library and sync state.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"namespace": checkNamespace(r.Context(), d),
			"queue":     queueStatus(r.Context(), d),
			"library":   libraryStatus(d),
			"sync":      syncStatus(d),
		}
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       overallMode(components),
			Components: components,
		})
	}
}

// overallMode is "critical" without a namespace, "degraded" while the
// library has never loaded, else "ok".
func overallMode(c map[string]componentStatus) string {
	if !c["namespace"].OK {
		return "critical"
	}
	if !c["library"].OK {
		return "degraded"
	}
	return "ok"
}

func checkNamespace(ctx context.Context, d deps.Deps) componentStatus {
	if d.Namespace == nil {
		return componentStatus{Error: "not initialized", Impact: "capture-and-sync-disabled"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.Namespace.Ping(ctx); err != nil {
		return componentStatus{Name: d.Namespace.Name(), Error: err.Error(), Impact: "capture-and-sync-disabled"}
	}
	return componentStatus{OK: true, Name: d.Namespace.Name()}
}

func queueStatus(ctx context.Context, d deps.Deps) componentStatus {
	if d.Queue == nil {
		return componentStatus{Error: "not initialized"}
	}
	n := len(d.Queue.Load(ctx))
	return componentStatus{OK: true, Mode: d.QueueKind, Count: &n}
}

func libraryStatus(d deps.Deps) componentStatus {
	if d.Library == nil {
		return componentStatus{Error: "not initialized"}
	}
	n := d.Library.TotalSaves()
	st := componentStatus{Count: &n, Last: "never"}
	if last := d.Library.LastRefresh(); !last.IsZero() {
		st.OK = true
		st.Last = last.Format(timeLayout)
	} else {
		st.Impact = "folder-listing-from-local-only"
	}
	return st
}

func syncStatus(d deps.Deps) componentStatus {
	st := componentStatus{OK: true, Last: "never"}
	if d.Sync == nil {
		return st
	}
	if rep, ok := d.Sync.LastReport(); ok {
		n := rep.Attempted
		st.Count = &n
		st.Last = rep.At.Format(timeLayout)
		if rep.Failed > 0 {
			st.Impact = "records-dropped"
		}
	}
	return st
}
