package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"layoutsmith/internal/layout"
	"layoutsmith/internal/render"
)

// watchCmd re-renders a layout file whenever it changes on disk
var watchCmd = &cobra.Command{
	Use:   "watch [layout.json]",
	Short: "Re-render a layout file whenever it changes",
	Long: `Watches a layout JSON file and re-runs resolution plus rendering
against the document snapshot on every save, printing the resulting
node tree or the first resolution failure. Useful while hand-authoring
layouts against a scanned design system.

Example:
  layoutsmith watch -d snapshot.json login.json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	layoutPath := args[0]

	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a file-level watch.
	if err := watcher.Add(filepath.Dir(layoutPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", layoutPath, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderOnce := func() {
		// Fresh snapshot per run so repeated renders don't pile frames
		// onto one in-memory document.
		h, err := loadDocumentHost()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cat, err := catalogForDocument(ctx, h, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		data, err := os.ReadFile(layoutPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		doc, err := layout.ParseDocument(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid layout JSON: %v\n", err)
			return
		}
		if err := render.ResolveComponentIDs(doc, cat); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", resolutionFailure(err))
			return
		}

		frame, rep, err := render.New(h, cat).RenderToPage(ctx, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
			return
		}
		fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), rep.Summary())
		for _, warning := range rep.Warnings {
			fmt.Printf("  warning [%s]: %s\n", warning.Kind, warning.Message)
		}
		printNodeTree(frame, 1)
	}

	fmt.Printf("Watching %s (ctrl-c to stop)\n", layoutPath)
	renderOnce()

	absTarget, err := filepath.Abs(layoutPath)
	if err != nil {
		return err
	}

	// Debounce bursts of write events from a single save.
	var pending *time.Timer
	debounce := 200 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != absTarget {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, renderOnce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", zap.Error(err))
		}
	}
}
