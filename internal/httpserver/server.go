package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/tuck/internal/config"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/mw"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/routes"
	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// Server is the local control plane of the app role.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

// Handler builds the router with its middlewares and every registered route.
func Handler(log logger.Logger, d deps.Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(mw.Log(log))

	routes.RegisterAll(r, d)
	return r
}

func New(cfg *config.Config, log logger.Logger, d deps.Deps) *Server {
	s := &http.Server{
		Addr:              cfg.ListenPort,
		Handler:           Handler(log, d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return &Server{http: s, logger: log}
}

// Start serves on ln, or on the configured address when ln is nil.
// It blocks until Stop.
func (s *Server) Start(ln net.Listener) error {
	var err error
	if ln == nil {
		ln, err = net.Listen("tcp", s.http.Addr)
		if err != nil {
			return err
		}
	}
	s.logger.Info("HTTP server listening", logger.String("addr", ln.Addr().String()))
	err = s.http.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
