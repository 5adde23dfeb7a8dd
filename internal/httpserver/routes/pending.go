package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/mw"
)

func init() { Register(registerPending) }

func registerPending(r chi.Router, d deps.Deps) {
	g := guarded(r, d)
	g.Get("/pending", handlers.Pending(d))
	g.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.SyncBurst,
		RefillPerMin: d.SyncRefillPerMin,
		TrustProxy:   d.TrustProxy,
	})).Post("/sync", handlers.Sync(d))
}
