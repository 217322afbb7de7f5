package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/config"
	"layoutsmith/internal/host"
	"layoutsmith/internal/layout"
	"layoutsmith/internal/plugin"
	"layoutsmith/internal/render"
)

var (
	generatePrompt string
	generateOut    string
)

// generateCmd renders layout JSON against a document snapshot
var generateCmd = &cobra.Command{
	Use:   "generate [layout.json]",
	Short: "Render layout JSON against a document snapshot",
	Long: `Parses layout JSON, resolves abstract component types against the
scanned catalog, and renders the tree into the document snapshot,
reporting every node the plugin would create in the live document.

The layout comes from a file argument, or from the completion backend
when --prompt is given.

Examples:
  layoutsmith generate -d snapshot.json login.json
  layoutsmith generate -d snapshot.json --prompt "a login form" --out resolved.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generatePrompt, "prompt", "p", "", "Generate the layout JSON from a natural-language prompt")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the resolved layout JSON to a file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	h, err := loadDocumentHost()
	if err != nil {
		return err
	}
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	cat, err := catalogForDocument(cmd.Context(), h, cfg)
	if err != nil {
		return err
	}

	layoutJSON, err := layoutInput(cmd.Context(), args, cat, cfg)
	if err != nil {
		return err
	}

	doc, err := layout.ParseDocument(layoutJSON)
	if err != nil {
		return fmt.Errorf("invalid layout JSON: %w", err)
	}
	if err := render.ResolveComponentIDs(doc, cat); err != nil {
		return resolutionFailure(err)
	}

	frame, rep, err := render.New(h, cat).RenderToPage(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Printf("Rendered %q: %s\n", frame.Name(), rep.Summary())
	for _, warning := range rep.Warnings {
		fmt.Printf("  warning [%s]: %s\n", warning.Kind, warning.Message)
	}
	fmt.Println()
	printNodeTree(frame, 0)

	if generateOut != "" {
		resolved, err := layout.EncodeDocument(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(generateOut, resolved, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", generateOut, err)
		}
		fmt.Printf("\nResolved layout written to %s\n", generateOut)
	}
	return nil
}

// catalogForDocument prefers the persisted scan for this snapshot and
// falls back to scanning it fresh.
func catalogForDocument(ctx context.Context, h host.Host, cfg *config.Config) (*catalog.Catalog, error) {
	s, err := openSessionStore(cfg)
	if err == nil {
		defer s.Close()
		cat, _, ok, readErr := s.ReadCatalog(h.DocumentFingerprint())
		if readErr != nil {
			logger.Warn("Could not restore saved scan", zap.Error(readErr))
		}
		if ok {
			logger.Debug("Using persisted scan", zap.Int("components", cat.Len()))
			return cat, nil
		}
	}

	cat, err := catalog.NewScanner(h).Scan(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return cat, nil
}

// layoutInput returns the layout JSON from the file argument or the
// completion backend.
func layoutInput(ctx context.Context, args []string, cat *catalog.Catalog, cfg *config.Config) ([]byte, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read layout file: %w", err)
		}
		return data, nil
	}
	if generatePrompt == "" {
		return nil, fmt.Errorf("provide a layout file argument or --prompt")
	}

	p, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return plugin.GenerateLayoutJSON(ctx, p, cat, generatePrompt)
}

// resolutionFailure turns a resolution error into actionable output.
func resolutionFailure(err error) error {
	var resErr *render.ResolutionError
	if !errors.As(err, &resErr) {
		return err
	}
	msg := fmt.Sprintf("no component in the catalog matches type %q (at %s)", resErr.RequestedType, resErr.Path)
	if len(resErr.Suggestions) > 0 {
		msg += fmt.Sprintf("; did you mean: %s", strings.Join(resErr.Suggestions, ", "))
	}
	return errors.New(msg)
}

// printNodeTree dumps a created subtree with one line per node.
func printNodeTree(n host.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	detail := ""
	switch node := n.(type) {
	case host.InstanceNode:
		variants := node.CurrentVariants()
		if len(variants) > 0 {
			detail = fmt.Sprintf(" master=%s variants=%v", node.MasterID(), variants)
		} else {
			detail = fmt.Sprintf(" master=%s", node.MasterID())
		}
	case host.TextNode:
		if text, err := node.Characters(); err == nil && text != "" {
			detail = fmt.Sprintf(" %q", text)
		}
	}
	fmt.Printf("%s%s %s%s\n", indent, n.Kind(), n.Name(), detail)
	for _, child := range n.Children() {
		printNodeTree(child, depth+1)
	}
}
