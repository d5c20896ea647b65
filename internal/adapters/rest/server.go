package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fabwaseem/ComfyUI-Civitai-Discovery-Hub/internal/core/port"
)

// Server is the REST API server.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewServer assembles the route table. The graph UI is served from another
// origin, so CORS stays wide open.
func NewServer(listenPort string, favorites *FavoritesHandler, stream *StreamHandler,
	media *MediaHandler, node *NodeHandler, baseLogger port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", "X-Trace-ID"},
	}))

	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", favorites.GetAllFavorites)
		r.Post("/toggle", favorites.ToggleFavorite)
		r.Post("/upsert", favorites.UpsertFavorite)
		r.Get("/page", favorites.GetFavoritesPage)
		r.Post("/tags", favorites.UpdateFavoriteTags)
		r.Get("/tags/all", favorites.GetAllFavoriteTags)
	})

	r.Get("/stream", stream.StreamImages)

	r.Route("/media", func(r chi.Router) {
		r.Post("/check_workflow", media.CheckWorkflow)
		r.Get("/download", media.DownloadMedia)
	})

	r.Post("/node/selection", node.ResolveSelection)

	srv := &http.Server{
		Addr:    ":" + listenPort,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start runs the HTTP server until shutdown or failure.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
