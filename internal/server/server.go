// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cadenza-audio/cadenza/internal/api"
	"github.com/cadenza-audio/cadenza/internal/auth"
	"github.com/cadenza-audio/cadenza/internal/catalog"
	"github.com/cadenza-audio/cadenza/internal/config"
	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/menu"
	"github.com/cadenza-audio/cadenza/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	config         *config.Config
	db             *db.DB
	repos          *db.Repositories
	tokens         *auth.TokenManager
	authService    *auth.Service
	catalogService *catalog.Service
	menuService    *menu.Service
	router         *gin.Engine
	server         *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) (*Server, error) {
	repos := db.NewRepositories(database)
	storage, err := catalog.NewStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.Auth)

	return &Server{
		config:         cfg,
		db:             database,
		repos:          repos,
		tokens:         tokens,
		authService:    auth.NewService(repos, tokens),
		catalogService: catalog.NewService(database, repos, storage, cfg.Storage.MaxUploadBytes),
		menuService:    menu.NewService(database, repos),
	}, nil
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

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupUserRoutes(apiGroup, s.authService)

	// Everything past registration and login requires a verified identity
	authed := apiGroup.Group("")
	authed.Use(middleware.RequireAuth(s.tokens))
	api.SetupMusicRoutes(authed, s.catalogService)
	api.SetupMenuRoutes(authed, s.menuService)
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

	logger.Log.Info().Msg("Server stopped")
	return nil
}
