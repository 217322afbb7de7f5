package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"layoutsmith/internal/layout"
	"layoutsmith/internal/render"
	"layoutsmith/internal/resolve"
)

var resolveType string

// resolveCmd resolves abstract component types without rendering
var resolveCmd = &cobra.Command{
	Use:   "resolve [layout.json]",
	Short: "Resolve component references against the scanned catalog",
	Long: `Runs the resolution pass alone: every component reference in the
layout gets a concrete component id, or the command fails naming the
first unresolvable type with near-miss suggestions. Nothing is rendered.

With --type, resolves a single abstract type instead of a layout file.

Examples:
  layoutsmith resolve -d snapshot.json login.json
  layoutsmith resolve -d snapshot.json --type textfield`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveType, "type", "t", "", "Resolve a single abstract component type")
}

func runResolve(cmd *cobra.Command, args []string) error {
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

	if resolveType != "" {
		rec, err := resolve.Resolve(resolveType, cat)
		if err != nil {
			suggestions := resolve.Suggestions(resolveType, cat, 3)
			if len(suggestions) > 0 {
				return fmt.Errorf("no match for %q; closest: %v", resolveType, suggestions)
			}
			return fmt.Errorf("no match for %q", resolveType)
		}
		fmt.Printf("%s -> %s (%s, type %s, confidence %.2f)\n",
			resolveType, rec.ID, rec.Name, rec.SuggestedType, rec.Confidence)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("provide a layout file argument or --type")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read layout file: %w", err)
	}

	doc, err := layout.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("invalid layout JSON: %w", err)
	}
	if err := render.ResolveComponentIDs(doc, cat); err != nil {
		return resolutionFailure(err)
	}

	resolved, err := layout.EncodeDocument(doc)
	if err != nil {
		return err
	}
	fmt.Println(string(resolved))
	return nil
}
