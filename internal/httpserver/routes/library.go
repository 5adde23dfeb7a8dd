package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/handlers"
)

func init() { Register(registerLibrary) }

func registerLibrary(r chi.Router, d deps.Deps) {
	g := guarded(r, d)
	g.Get("/folders", handlers.Folders(d))
	g.Get("/stale", handlers.Stale(d))
	g.Get("/search", handlers.Search(d))
	g.Post("/folders/{id}/copy", handlers.CopyFolder(d))
	g.Post("/bookmarks/{id}/toggle", handlers.ToggleComplete(d))
}
