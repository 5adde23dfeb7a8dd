package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/handlers"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.With(mwAllow(d)).Get("/readyz", handlers.Readyz(d))
	guarded(r, d).Get("/infra", handlers.Infra(d))
}
