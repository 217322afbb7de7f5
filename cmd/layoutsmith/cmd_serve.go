package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"layoutsmith/internal/plugin"
)

// serveCmd runs the plugin message loop over stdio
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plugin message protocol over stdio",
	Long: `Reads one JSON envelope per line from stdin, dispatches it to the
engine, and writes one JSON response per line to stdout. This is the
transport the plugin UI speaks.

Requests carry {"id", "type", "payload"}; responses echo the id.
Side-effect-only requests (navigation) produce no response line.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	h, err := loadDocumentHost()
	if err != nil {
		return err
	}
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}
	s, err := openSessionStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	// Provider is optional: only generate-from-prompt requests need it.
	p, err := newProvider(cfg)
	if err != nil {
		logger.Warn("Completion backend unavailable", zap.Error(err))
		p = nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := plugin.NewDispatcher(h, s, p)
	logger.Info("Serving plugin protocol on stdio",
		zap.String("fingerprint", h.DocumentFingerprint()))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req plugin.Envelope
		if err := json.Unmarshal(line, &req); err != nil {
			logger.Warn("Dropping malformed request line", zap.Error(err))
			continue
		}

		resp := dispatcher.Handle(ctx, req)
		if resp.Type == "" {
			continue // side effect only
		}
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdin read failed: %w", err)
	}
	return nil
}
