package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nutriai/nutriai-server/internal/auth"
	"github.com/nutriai/nutriai-server/internal/chat"
	"github.com/nutriai/nutriai-server/internal/foodscan"
	"github.com/nutriai/nutriai-server/internal/nutrition"
	"github.com/nutriai/nutriai-server/internal/recipe"
	"github.com/nutriai/nutriai-server/internal/store"
	"github.com/nutriai/nutriai-server/internal/video"
)

// RecipeExtractor runs the video-to-recipe pipeline.
type RecipeExtractor interface {
	Extract(ctx context.Context, url string, method video.Method) (recipe.Draft, error)
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port       int
	Repository store.Repository
	Tokens     *auth.TokenIssuer
	Extractor  RecipeExtractor
	Estimator  *nutrition.Estimator
	Analyzer   *foodscan.Analyzer
	Coach      *chat.Coach
	Logger     *slog.Logger
	StartTime  time.Time
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 10 * time.Minute, // video extraction requests are slow
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
