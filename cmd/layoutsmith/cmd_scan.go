package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"layoutsmith/internal/catalog"
)

var scanJSON bool

// scanCmd scans a document snapshot's component library
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a document's component library and classify each component",
	Long: `Walks every page of the document snapshot, collects component
masters and variant sets, and classifies each by inferred semantic role
(button, text-input, card, ...) with a confidence score.

Results are persisted to the workspace session store, keyed by the
document fingerprint, so later generate/resolve runs reuse the scan.

Example:
  layoutsmith scan -d snapshot.json
  layoutsmith scan -d snapshot.json --json > catalog.json`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the full catalog as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	h, err := loadDocumentHost()
	if err != nil {
		return err
	}
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	progress := func(current, total int, status string) {
		logger.Debug("Scanning", zap.Int("current", current), zap.Int("total", total), zap.String("status", status))
	}

	cat, err := catalog.NewScanner(h).Scan(cmd.Context(), progress)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	s, err := openSessionStore(cfg)
	if err != nil {
		logger.Warn("Session store unavailable, scan not persisted", zap.Error(err))
	} else {
		defer s.Close()
		if err := s.WriteCatalog(cat); err != nil {
			logger.Warn("Could not persist scan", zap.Error(err))
		}
	}

	if scanJSON {
		data, err := cat.Marshal()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printCatalogSummary(cat)
	return nil
}

func printCatalogSummary(cat *catalog.Catalog) {
	fmt.Printf("Scanned %d components (fingerprint %s)\n\n", cat.Len(), cat.Fingerprint)

	counts := cat.CountByType()
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %-16s %d\n", t, counts[t])
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tCONFIDENCE\tVARIANTS\tPAGE")
	for _, rec := range cat.Records {
		verified := ""
		if rec.IsVerified {
			verified = " (verified)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s%s\t%.2f\t%d\t%s\n",
			rec.ID, rec.Name, rec.SuggestedType, verified,
			rec.Confidence, len(rec.VariantGroups), rec.Page.PageName)
	}
	w.Flush()
}
