package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/nutriai/nutriai-server/internal/ai"
	"github.com/nutriai/nutriai-server/internal/api"
	"github.com/nutriai/nutriai-server/internal/auth"
	"github.com/nutriai/nutriai-server/internal/chat"
	"github.com/nutriai/nutriai-server/internal/config"
	"github.com/nutriai/nutriai-server/internal/db"
	"github.com/nutriai/nutriai-server/internal/foodscan"
	"github.com/nutriai/nutriai-server/internal/logging"
	"github.com/nutriai/nutriai-server/internal/nutrition"
	"github.com/nutriai/nutriai-server/internal/store"
	"github.com/nutriai/nutriai-server/internal/video"
)

// tmpMaxAge is how long an abandoned extraction workspace may linger
// before the sweeper removes it.
const tmpMaxAge = time.Hour

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.TmpDir(), 0755); err != nil {
		return fmt.Errorf("failed to create tmp dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting nutriai server",
		"version", config.Version,
		"data_dir", cfg.DataDir(),
		"port", cfg.Port(),
	)

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := store.NewRepository(database.Conn())
	tokens := auth.NewTokenIssuer(cfg.JWTSecret())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var aiClient ai.Client
	if cfg.GeminiAPIKey() != "" {
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey(), cfg.GeminiModel(), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize AI client: %w", err)
		}
		aiClient = client
		logger.Info("AI backend enabled",
			"model", cfg.GeminiModel(),
			"api_key", logging.SanitizeToken(cfg.GeminiAPIKey()),
		)
	} else {
		aiClient = &ai.StubClient{Err: fmt.Errorf("AI backend not configured")}
		logger.Warn("GEMINI_API_KEY not set, AI features disabled")
	}

	extractor, err := buildExtractor(cfg, aiClient, logger)
	if err != nil {
		return err
	}

	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@hourly", func() {
		video.SweepTmp(cfg.TmpDir(), tmpMaxAge, logger)
	}); err != nil {
		return fmt.Errorf("failed to schedule tmp sweeper: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Clear out anything a previous run left behind.
	video.SweepTmp(cfg.TmpDir(), tmpMaxAge, logger)

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Repository: repo,
		Tokens:     tokens,
		Extractor:  extractor,
		Estimator:  nutrition.NewEstimator(aiClient, logger),
		Analyzer:   foodscan.NewAnalyzer(aiClient, logger),
		Coach:      chat.NewCoach(aiClient, logger),
		Logger:     logger,
		StartTime:  startTime,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func buildExtractor(cfg config.Config, aiClient ai.Client, logger *slog.Logger) (api.RecipeExtractor, error) {
	ytdlp, err := video.NewYtdlpExtractor(cfg.YtdlpPath(), cfg.DownloadTimeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to locate yt-dlp: %w", err)
	}

	var scraper video.Scraper
	if cfg.ScraperURL() != "" {
		scraper = video.NewScraperClient(cfg.ScraperURL(), cfg.ScraperToken(), cfg.ScraperTimeout(), logger)
		logger.Info("scraper fallback enabled", "base_url", cfg.ScraperURL())
	}

	downloader := video.NewDownloader(ytdlp, scraper, cfg.SessionCookies(), cfg.AllowUnknownPlatform(), logger)

	var sampler video.FrameSampler
	if ffmpeg, err := video.NewFFmpegSampler(logger); err != nil {
		logger.Warn("ffmpeg unavailable, frames method disabled", "error", err)
	} else {
		sampler = ffmpeg
	}

	return video.NewPipeline(cfg.TmpDir(), downloader, sampler, aiClient, cfg.FrameInterval(), logger), nil
}
