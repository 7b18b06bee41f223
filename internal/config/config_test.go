package config

import (
	"os"
	"testing"
)

func TestNew_RequiresJWTSecret(t *testing.T) {
	os.Unsetenv(EnvJWTSecret)

	_, err := New()
	if err == nil {
		t.Fatal("expected error when JWT secret is unset")
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(EnvJWTSecret, "test-secret")
	os.Unsetenv(EnvPort)
	os.Unsetenv(EnvGeminiModel)
	os.Unsetenv(EnvAllowUnknown)
	os.Unsetenv(EnvFrameInterval)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.GeminiModel() != DefaultGeminiModel {
		t.Errorf("GeminiModel = %q, want %q", cfg.GeminiModel(), DefaultGeminiModel)
	}
	if cfg.AllowUnknownPlatform() {
		t.Error("AllowUnknownPlatform = true, want false by default")
	}
	if cfg.FrameInterval() != DefaultFrameInterval {
		t.Errorf("FrameInterval = %v, want %v", cfg.FrameInterval(), DefaultFrameInterval)
	}
}

func TestNew_PortFromEnv(t *testing.T) {
	t.Setenv(EnvJWTSecret, "test-secret")
	t.Setenv(EnvPort, "9090")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port())
	}
}

func TestNew_InvalidPort(t *testing.T) {
	t.Setenv(EnvJWTSecret, "test-secret")

	for _, p := range []string{"abc", "0", "70000"} {
		t.Setenv(EnvPort, p)
		if _, err := New(); err == nil {
			t.Errorf("port %q: expected error", p)
		}
	}
}

func TestNew_InvalidFrameInterval(t *testing.T) {
	t.Setenv(EnvJWTSecret, "test-secret")

	for _, fi := range []string{"nope", "0", "-1"} {
		t.Setenv(EnvFrameInterval, fi)
		if _, err := New(); err == nil {
			t.Errorf("interval %q: expected error", fi)
		}
	}
}

func TestNew_AllowUnknownPlatform(t *testing.T) {
	t.Setenv(EnvJWTSecret, "test-secret")
	t.Setenv(EnvAllowUnknown, "true")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.AllowUnknownPlatform() {
		t.Error("AllowUnknownPlatform = false, want true")
	}
}

func TestDBPath(t *testing.T) {
	t.Setenv(EnvJWTSecret, "test-secret")
	t.Setenv(EnvDataDir, "/var/lib/nutriai")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath() != "/var/lib/nutriai/nutriai.db" {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.TmpDir() != "/var/lib/nutriai/tmp" {
		t.Errorf("TmpDir = %q", cfg.TmpDir())
	}
}
