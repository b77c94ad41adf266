package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Store.Latency != 500*time.Millisecond {
		t.Errorf("expected default latency 500ms, got %v", cfg.Store.Latency)
	}
	if cfg.Store.RootAdmin != "react_guru" {
		t.Errorf("expected root admin react_guru, got %q", cfg.Store.RootAdmin)
	}
	if !cfg.Store.Seed {
		t.Error("expected seeding to be enabled by default")
	}
	if cfg.Views.Backend != "store" {
		t.Errorf("expected store view backend, got %q", cfg.Views.Backend)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FORUM_SERVER_PORT", "9090")
	t.Setenv("FORUM_STORE_LATENCY", "0s")
	t.Setenv("FORUM_LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Store.Latency != 0 {
		t.Errorf("expected zero latency, got %v", cfg.Store.Latency)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json log format, got %q", cfg.Log.Format)
	}
}
