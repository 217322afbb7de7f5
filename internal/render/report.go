// Package render materializes a typed layout tree into live document
// nodes: property separation, variant validation, text binding and the
// recursive tree renderer itself, plus the pre-render component id
// resolution pass.
//
// Failure policy: anything local to one tree node (a dead component
// reference, an invalid variant, a missing text slot, a font that will
// not load) degrades gracefully and is recorded as a warning; only an
// unresolvable component type aborts the whole operation, and it does
// so before any document mutation.
package render

import (
	"fmt"
	"strings"
)

// WarningKind classifies non-fatal render degradations.
type WarningKind string

const (
	WarnVariant          WarningKind = "variant"
	WarnMissingReference WarningKind = "missing-reference"
	WarnTextBinding      WarningKind = "text-binding"
	WarnFontLoad         WarningKind = "font-load"
)

// Warning is one recorded degradation.
type Warning struct {
	Kind    WarningKind
	Message string
}

// Report accumulates the outcome of one render invocation.
type Report struct {
	Warnings         []Warning
	NodesCreated     int
	InstancesCreated int
	ItemsSkipped     int
}

// NewReport creates an empty report.
func NewReport() *Report { return &Report{} }

func (r *Report) warnf(kind WarningKind, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// HasWarnings reports whether anything degraded during the render.
func (r *Report) HasWarnings() bool { return len(r.Warnings) > 0 }

// Summary renders a short human-readable report.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d nodes created (%d component instances)", r.NodesCreated, r.InstancesCreated)
	if r.ItemsSkipped > 0 {
		fmt.Fprintf(&b, ", %d items skipped", r.ItemsSkipped)
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, ", %d warnings", len(r.Warnings))
	}
	return b.String()
}

// ResolutionError aborts a generation request: the named abstract type
// has no catalog match and proceeding would silently drop content the
// caller explicitly asked for.
type ResolutionError struct {
	RequestedType string
	Path          string
	Suggestions   []string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("cannot resolve component type %q at %s", e.RequestedType, e.Path)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}
