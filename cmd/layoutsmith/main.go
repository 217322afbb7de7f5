package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"layoutsmith/internal/config"
	"layoutsmith/internal/host"
	"layoutsmith/internal/logging"
	"layoutsmith/internal/provider"
	"layoutsmith/internal/store"
)

var (
	// Global flags
	verbose      bool
	workspace    string
	documentPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "layoutsmith",
	Short: "layoutsmith - design-system scanner and layout renderer",
	Long: `layoutsmith scans a design document's component library, classifies
each component by inferred semantic role, and materializes layout JSON
(authored by hand or by an AI backend) into design-tool nodes.

The CLI operates on document snapshots: JSON exports of a document's
pages and component masters. Rendering against a snapshot reports
exactly what the plugin would create in the live document.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("Categorized logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory (config, logs, session store)")
	rootCmd.PersistentFlags().StringVarP(&documentPath, "document", "d", "", "Path to a document snapshot JSON")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadWorkspaceConfig reads the workspace config with env overrides applied.
func loadWorkspaceConfig() (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath(workspace))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDocumentHost builds an in-memory host from the --document snapshot.
func loadDocumentHost() (*host.MemoryHost, error) {
	if documentPath == "" {
		return nil, fmt.Errorf("--document is required (path to a document snapshot JSON)")
	}
	data, err := os.ReadFile(documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document snapshot: %w", err)
	}
	h, err := host.LoadSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("invalid document snapshot %s: %w", documentPath, err)
	}
	return h, nil
}

// openSessionStore opens the workspace's sqlite session store.
func openSessionStore(cfg *config.Config) (store.SessionStore, error) {
	path := cfg.Store.DatabasePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workspace, path)
	}
	return store.NewSQLiteStore(path)
}

// newProvider builds the completion backend from config.
func newProvider(cfg *config.Config) (provider.CompletionProvider, error) {
	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("no API key configured (set GEMINI_API_KEY or provider.api_key)")
	}
	return provider.NewGeminiClient(provider.GeminiConfig{
		APIKey:     cfg.Provider.APIKey,
		BaseURL:    cfg.Provider.BaseURL,
		Model:      cfg.Provider.Model,
		Timeout:    cfg.GetProviderTimeout(),
		MaxRetries: cfg.Provider.MaxRetries,
		RetryDelay: cfg.GetRetryDelay(),
	}), nil
}
