// Package config loads and validates layoutsmith configuration.
// Configuration lives in .layoutsmith/config.yaml inside the workspace,
// with environment variables taking precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all layoutsmith configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Completion backend configuration
	Provider ProviderConfig `yaml:"provider"`

	// Session store configuration
	Store StoreConfig `yaml:"store"`

	// Renderer behavior
	Render RenderConfig `yaml:"render"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProviderConfig configures the completion backend.
type ProviderConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Timeout     string  `yaml:"timeout"`
	MaxRetries  int     `yaml:"max_retries"`
	RetryDelay  string  `yaml:"retry_delay"` // base delay, grows linearly per attempt
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// StoreConfig configures the session store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// RenderConfig configures renderer behavior.
type RenderConfig struct {
	// DefaultFrameName is used when layout JSON omits a container name.
	DefaultFrameName string `yaml:"default_frame_name"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "layoutsmith",
		Version: "0.3.0",
		Provider: ProviderConfig{
			Model:       "gemini-2.5-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			Timeout:     "120s",
			MaxRetries:  3,
			RetryDelay:  "2s",
			Temperature: 0.2,
			MaxTokens:   8192,
		},
		Store: StoreConfig{
			DatabasePath: filepath.Join(".layoutsmith", "session.db"),
		},
		Render: RenderConfig{
			DefaultFrameName: "Generated Layout",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads config from the given path, falling back to defaults for
// anything unset. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config back to disk.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if key := os.Getenv("LAYOUTSMITH_API_KEY"); key != "" {
		c.Provider.APIKey = key
	}
	if model := os.Getenv("LAYOUTSMITH_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if url := os.Getenv("LAYOUTSMITH_BASE_URL"); url != "" {
		c.Provider.BaseURL = url
	}
	if path := os.Getenv("LAYOUTSMITH_DB"); path != "" {
		c.Store.DatabasePath = path
	}
}

// GetProviderTimeout parses the provider timeout with a sane fallback.
func (c *Config) GetProviderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// GetRetryDelay parses the base retry delay with a sane fallback.
func (c *Config) GetRetryDelay() time.Duration {
	d, err := time.ParseDuration(c.Provider.RetryDelay)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// Validate checks invariants that would break subsystems at runtime.
func (c *Config) Validate() error {
	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("provider.max_retries must be >= 0, got %d", c.Provider.MaxRetries)
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		return fmt.Errorf("provider.temperature must be in [0,2], got %v", c.Provider.Temperature)
	}
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path must not be empty")
	}
	return nil
}

// DefaultPath returns the conventional config location inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".layoutsmith", "config.yaml")
}
