package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPPort != 5000 {
		t.Errorf("HTTPPort = %d, want 5000", cfg.Server.HTTPPort)
	}
	if cfg.Paging.UISize != 24 || cfg.Paging.APISize != 20 {
		t.Errorf("paging = %d/%d, want 24/20", cfg.Paging.UISize, cfg.Paging.APISize)
	}
	if cfg.Providers.Curated.BaseURL == "" || cfg.Providers.DramaBox.BaseURL == "" || cfg.Providers.Botraiki.BaseURL == "" {
		t.Error("provider base URLs must default to the live endpoints")
	}
	if cfg.Providers.Botraiki.EpisodeTimeout != 90 {
		t.Errorf("Botraiki.EpisodeTimeout = %d, want 90", cfg.Providers.Botraiki.EpisodeTimeout)
	}
	if len(cfg.Filter.Denylist) == 0 {
		t.Error("denylist defaults must not be empty")
	}
	if cfg.History.DatabaseURL != "" || cfg.History.SQLitePath != "" {
		t.Error("history must default to the in-memory backend")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPPort != 5000 {
		t.Errorf("HTTPPort = %d, want default", cfg.Server.HTTPPort)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  http_port: 8080
  metrics_port: 0
paging:
  ui_size: 12
providers:
  dramabox:
    base_url: "http://localhost:9000/api"
filter:
  denylist: ["blocked title"]
history:
  sqlite_path: "/tmp/history.db"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.Server.HTTPPort)
	}
	if cfg.Server.MetricsPort != 0 {
		t.Errorf("MetricsPort = %d, want 0 (disabled)", cfg.Server.MetricsPort)
	}
	if cfg.Paging.UISize != 12 {
		t.Errorf("UISize = %d, want 12", cfg.Paging.UISize)
	}
	if cfg.Paging.APISize != 20 {
		t.Errorf("APISize = %d, want untouched default 20", cfg.Paging.APISize)
	}
	if cfg.Providers.DramaBox.BaseURL != "http://localhost:9000/api" {
		t.Errorf("DramaBox.BaseURL = %q", cfg.Providers.DramaBox.BaseURL)
	}
	if len(cfg.Filter.Denylist) != 1 || cfg.Filter.Denylist[0] != "blocked title" {
		t.Errorf("Denylist = %v, want the file's list to replace defaults", cfg.Filter.Denylist)
	}
	if cfg.History.SQLitePath != "/tmp/history.db" {
		t.Errorf("SQLitePath = %q", cfg.History.SQLitePath)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed YAML should fail")
	}
}
