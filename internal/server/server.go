// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/marcsigha/bbtv/internal/api"
	"github.com/marcsigha/bbtv/internal/config"
	"github.com/marcsigha/bbtv/internal/fetcher"
	"github.com/marcsigha/bbtv/internal/grouping"
	"github.com/marcsigha/bbtv/internal/logger"
	"github.com/marcsigha/bbtv/internal/middleware"
	"github.com/marcsigha/bbtv/internal/playlist"
	"github.com/marcsigha/bbtv/internal/storage"
	"github.com/marcsigha/bbtv/internal/store"
)

// Server represents the HTTP server and the stores it serves
type Server struct {
	config    *config.Config
	storage   *storage.SQLite
	playlists *store.PlaylistStore
	favorites *store.FavoriteStore
	service   *playlist.Service
	router    *gin.Engine
	server    *http.Server
}

// New creates a new server instance wired to the given storage backend.
func New(cfg *config.Config, backend *storage.SQLite) *Server {
	favorites := store.NewFavoriteStore(backend)
	playlists := store.NewPlaylistStore(backend, favorites)

	fetch := fetcher.New(cfg.Fetch.Timeout, cfg.Fetch.RelayURL, cfg.Fetch.UserAgent)
	service := playlist.NewService(playlists, favorites, fetch, grouping.DefaultOptions())

	return &Server{
		config:    cfg,
		storage:   backend,
		playlists: playlists,
		favorites: favorites,
		service:   service,
	}
}

// LoadStores hydrates both stores from persistence. Called once at startup
// before the server starts accepting requests.
func (s *Server) LoadStores(ctx context.Context) error {
	if err := s.playlists.Load(ctx); err != nil {
		return fmt.Errorf("failed to load playlist store: %w", err)
	}
	if err := s.favorites.Load(ctx); err != nil {
		return fmt.Errorf("failed to load favorite store: %w", err)
	}
	return nil
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.storage)
	api.SetupPlaylistRoutes(apiGroup, s.service, s.playlists)
	api.SetupFavoriteRoutes(apiGroup, s.service, s.favorites)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	if err := s.storage.Close(); err != nil {
		return fmt.Errorf("storage close error: %w", err)
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
