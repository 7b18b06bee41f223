// Package config provides configuration management for the NutriAI server.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort     = 8080
	DefaultLogLevel = "info"
	DefaultDataDir  = ".nutriai"

	// Environment variable names
	EnvPort      = "NUTRIAI_PORT"
	EnvLogLevel  = "NUTRIAI_LOG_LEVEL"
	EnvDataDir   = "NUTRIAI_DATA_DIR"
	EnvJWTSecret = "NUTRIAI_JWT_SECRET"

	// Video pipeline environment variable names
	EnvYtdlpPath       = "NUTRIAI_YTDLP"
	EnvScraperURL      = "NUTRIAI_SCRAPER_URL"
	EnvScraperToken    = "NUTRIAI_SCRAPER_TOKEN"
	EnvSessionCookies  = "NUTRIAI_SESSION_COOKIES"
	EnvAllowUnknown    = "NUTRIAI_ALLOW_UNKNOWN_PLATFORM"
	EnvFrameInterval   = "NUTRIAI_FRAME_INTERVAL"

	// Gemini environment variable names
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGeminiModel  = "GEMINI_MODEL"

	// Database filename
	DBFilename = "nutriai.db"

	// Video pipeline defaults
	DefaultYtdlpPath       = "yt-dlp"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultFrameInterval   = 2.0 // seconds between sampled frames
	DefaultDownloadTimeout = 300 // seconds
	DefaultScraperTimeout  = 120 // seconds
	DefaultAITimeout       = 180 // seconds
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	TmpDir() string
	JWTSecret() string
	YtdlpPath() string
	ScraperURL() string
	ScraperToken() string
	SessionCookies() string
	AllowUnknownPlatform() bool
	FrameInterval() float64
	GeminiAPIKey() string
	GeminiModel() string
	DownloadTimeout() time.Duration
	ScraperTimeout() time.Duration
	AITimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port          int
	logLevel      string
	dataDir       string
	jwtSecret     string
	ytdlpPath     string
	scraperURL    string
	scraperToken  string
	cookies       string
	allowUnknown  bool
	frameInterval float64
	geminiAPIKey  string
	geminiModel   string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:          DefaultPort,
		logLevel:      DefaultLogLevel,
		dataDir:       defaultDataDir(),
		ytdlpPath:     DefaultYtdlpPath,
		frameInterval: DefaultFrameInterval,
		geminiModel:   DefaultGeminiModel,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.jwtSecret = os.Getenv(EnvJWTSecret)
	if cfg.jwtSecret == "" {
		return nil, fmt.Errorf("%s is required", EnvJWTSecret)
	}

	if yp := os.Getenv(EnvYtdlpPath); yp != "" {
		cfg.ytdlpPath = yp
	}

	cfg.scraperURL = os.Getenv(EnvScraperURL)
	cfg.scraperToken = os.Getenv(EnvScraperToken)
	cfg.cookies = os.Getenv(EnvSessionCookies)

	if au := os.Getenv(EnvAllowUnknown); au != "" {
		allow, err := strconv.ParseBool(au)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvAllowUnknown, err)
		}
		cfg.allowUnknown = allow
	}

	if fi := os.Getenv(EnvFrameInterval); fi != "" {
		interval, err := strconv.ParseFloat(fi, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFrameInterval, err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("invalid %s: interval must be positive", EnvFrameInterval)
		}
		cfg.frameInterval = interval
	}

	cfg.geminiAPIKey = os.Getenv(EnvGeminiAPIKey)
	if gm := os.Getenv(EnvGeminiModel); gm != "" {
		cfg.geminiModel = gm
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// TmpDir returns the directory used for per-request video workspaces
func (c *EnvConfig) TmpDir() string {
	return filepath.Join(c.dataDir, "tmp")
}

// JWTSecret returns the secret used to sign access and refresh tokens
func (c *EnvConfig) JWTSecret() string {
	return c.jwtSecret
}

func (c *EnvConfig) YtdlpPath() string {
	return c.ytdlpPath
}

func (c *EnvConfig) ScraperURL() string {
	return c.scraperURL
}

func (c *EnvConfig) ScraperToken() string {
	return c.scraperToken
}

// SessionCookies returns the base64-encoded Netscape cookie jar, if configured
func (c *EnvConfig) SessionCookies() string {
	return c.cookies
}

func (c *EnvConfig) AllowUnknownPlatform() bool {
	return c.allowUnknown
}

func (c *EnvConfig) FrameInterval() float64 {
	return c.frameInterval
}

func (c *EnvConfig) GeminiAPIKey() string {
	return c.geminiAPIKey
}

func (c *EnvConfig) GeminiModel() string {
	return c.geminiModel
}

func (c *EnvConfig) DownloadTimeout() time.Duration {
	return DefaultDownloadTimeout * time.Second
}

func (c *EnvConfig) ScraperTimeout() time.Duration {
	return DefaultScraperTimeout * time.Second
}

func (c *EnvConfig) AITimeout() time.Duration {
	return DefaultAITimeout * time.Second
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
