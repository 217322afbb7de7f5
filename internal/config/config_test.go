package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider.Model != "gemini-2.5-flash" {
		t.Errorf("model = %s", cfg.Provider.Model)
	}
	if cfg.Provider.MaxRetries != 3 {
		t.Errorf("max retries = %d", cfg.Provider.MaxRetries)
	}
	if cfg.Store.DatabasePath == "" {
		t.Error("database path unset")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LAYOUTSMITH_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.Model != DefaultConfig().Provider.Model {
		t.Errorf("model = %s", cfg.Provider.Model)
	}
	if cfg.Provider.APIKey != "" {
		t.Errorf("api key = %q", cfg.Provider.APIKey)
	}
}

func TestLoadFileValues(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LAYOUTSMITH_API_KEY", "")
	t.Setenv("LAYOUTSMITH_MODEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `
provider:
  api_key: file-key
  model: gemini-2.5-pro
  timeout: 30s
  retry_delay: 500ms
render:
  default_frame_name: Mockup
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.APIKey != "file-key" {
		t.Errorf("api key = %q", cfg.Provider.APIKey)
	}
	if cfg.Provider.Model != "gemini-2.5-pro" {
		t.Errorf("model = %s", cfg.Provider.Model)
	}
	if cfg.Render.DefaultFrameName != "Mockup" {
		t.Errorf("frame name = %s", cfg.Render.DefaultFrameName)
	}
	if got := cfg.GetProviderTimeout(); got != 30*time.Second {
		t.Errorf("timeout = %v", got)
	}
	if got := cfg.GetRetryDelay(); got != 500*time.Millisecond {
		t.Errorf("retry delay = %v", got)
	}
	// Unset keys keep their defaults.
	if cfg.Provider.MaxRetries != 3 {
		t.Errorf("max retries = %d", cfg.Provider.MaxRetries)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider:\n  api_key: file-key\n  model: file-model\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("LAYOUTSMITH_MODEL", "env-model")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider.APIKey != "env-key" {
		t.Errorf("api key = %q, env must win", cfg.Provider.APIKey)
	}
	if cfg.Provider.Model != "env-model" {
		t.Errorf("model = %q, env must win", cfg.Provider.Model)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LAYOUTSMITH_API_KEY", "")
	t.Setenv("LAYOUTSMITH_MODEL", "")

	path := filepath.Join(t.TempDir(), ".layoutsmith", "config.yaml")
	cfg := DefaultConfig()
	cfg.Provider.Model = "gemini-2.5-pro"
	cfg.Logging.DebugMode = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider.Model != "gemini-2.5-pro" {
		t.Errorf("model = %s", loaded.Provider.Model)
	}
	if !loaded.Logging.DebugMode {
		t.Error("debug mode lost in roundtrip")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative retries", func(c *Config) { c.Provider.MaxRetries = -1 }},
		{"temperature too high", func(c *Config) { c.Provider.Temperature = 3 }},
		{"empty db path", func(c *Config) { c.Store.DatabasePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider.Timeout = "not a duration"
	cfg.Provider.RetryDelay = "-5s"

	if got := cfg.GetProviderTimeout(); got != 120*time.Second {
		t.Errorf("timeout fallback = %v", got)
	}
	if got := cfg.GetRetryDelay(); got != 2*time.Second {
		t.Errorf("retry delay fallback = %v", got)
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath("/work")
	want := filepath.Join("/work", ".layoutsmith", "config.yaml")
	if got != want {
		t.Errorf("DefaultPath = %s, want %s", got, want)
	}
}
