package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tuck/internal/domain"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/library"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

type folderSummary struct {
	domain.Folder
	Progress  float64 `json:"progress"`
	Completed int     `json:"completed"`
	Minutes   int     `json:"totalEstimatedTime"`
}

// Folders returns the cached library with per-folder progress.
func Folders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Library == nil {
			writeError(w, http.StatusServiceUnavailable, "library not initialized")
			return
		}
		folders := d.Library.Folders()
		out := make([]folderSummary, len(folders))
		for i, f := range folders {
			out[i] = folderSummary{
				Folder:    f,
				Progress:  f.ProgressPercentage(),
				Completed: f.CompletedCount(),
				Minutes:   f.TotalEstimatedTime(),
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// Stale returns bookmarks due for review. ?limit= overrides the default of 5.
func Stale(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Library == nil {
			writeError(w, http.StatusServiceUnavailable, "library not initialized")
			return
		}
		limit := library.StaleLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}
		writeJSON(w, http.StatusOK, d.Library.Stale(d.Now(), limit))
	}
}

// Search matches ?q= against titles and tags of cached bookmarks.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Library == nil {
			writeError(w, http.StatusServiceUnavailable, "library not initialized")
			return
		}
		q := r.URL.Query().Get("q")
		hits := d.Library.Search(q)
		d.Logger.Debug("library search", logger.String("query", q), logger.Int("hits", len(hits)))
		writeJSON(w, http.StatusOK, hits)
	}
}

type toggleResponse struct {
	ID        uuid.UUID `json:"id"`
	Completed bool      `json:"isCompleted"`
}

// ToggleComplete flips the completed flag of the bookmark in {id}.
func ToggleComplete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Library == nil {
			writeError(w, http.StatusServiceUnavailable, "library not initialized")
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		done, err := d.Library.ToggleComplete(id)
		if errors.Is(err, library.ErrBookmarkNotFound) {
			writeError(w, http.StatusNotFound, "bookmark not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toggleResponse{ID: id, Completed: done})
	}
}

// CopyFolder duplicates the folder in {id} and returns the copy.
func CopyFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Library == nil {
			writeError(w, http.StatusServiceUnavailable, "library not initialized")
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		cp, err := d.Library.CopyFolder(id)
		if errors.Is(err, library.ErrFolderNotFound) {
			writeError(w, http.StatusNotFound, "folder not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		d.Logger.Info("folder copied", logger.String("from", id.String()), logger.String("to", cp.ID.String()))
		writeJSON(w, http.StatusCreated, cp)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a uuid")
		return uuid.Nil, false
	}
	return id, true
}
