// Package resolve maps abstract component type names ("button",
// "list-item") to concrete catalog records. Matching runs through three
// tiers - exact, semantic bucket, fuzzy - and the first tier producing a
// candidate wins. Each tier is a pure strategy function so it can be
// unit-tested in isolation.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/logging"
)

// Scoring floors per tier. A candidate below the floor is discarded
// rather than returned as a bad guess.
const (
	semanticFloor = 0.3
	fuzzyFloor    = 0.4
)

// ErrNotFound is the sentinel wrapped by NotFoundError.
var ErrNotFound = errors.New("no matching component")

// NotFoundError reports a request no tier could satisfy, with up to
// three human-facing suggestions. Suggestions are hints only, never
// auto-applied.
type NotFoundError struct {
	Requested   string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no component in the catalog matches %q", e.Requested)
	}
	return fmt.Sprintf("no component in the catalog matches %q (did you mean: %s?)",
		e.Requested, strings.Join(e.Suggestions, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// strategy is one matching tier: returns the best record or nil.
type strategy func(request string, cat *catalog.Catalog) *catalog.ComponentRecord

// tiers are tried in order; the first non-nil result wins.
var tiers = []struct {
	name string
	fn   strategy
}{
	{"exact", exactMatch},
	{"semantic", semanticMatch},
	{"fuzzy", fuzzyMatch},
}

// Resolve finds the catalog record best matching the requested abstract
// type. The request is case-insensitive.
func Resolve(requested string, cat *catalog.Catalog) (*catalog.ComponentRecord, error) {
	request := strings.ToLower(strings.TrimSpace(requested))
	if request == "" || cat.Len() == 0 {
		return nil, &NotFoundError{Requested: requested}
	}

	for _, tier := range tiers {
		if rec := tier.fn(request, cat); rec != nil {
			logging.ResolveDebug("Resolved %q to %s (%q) via %s tier",
				requested, rec.ID, rec.Name, tier.name)
			return rec, nil
		}
	}

	logging.Resolve("No match for %q in catalog of %d records", requested, cat.Len())
	return nil, &NotFoundError{
		Requested:   requested,
		Suggestions: Suggestions(requested, cat, 3),
	}
}

// exactMatch: request equals a record's suggested type or name,
// case-insensitively.
func exactMatch(request string, cat *catalog.Catalog) *catalog.ComponentRecord {
	for _, rec := range cat.Records {
		if strings.ToLower(rec.SuggestedType) == request || strings.ToLower(rec.Name) == request {
			return rec
		}
	}
	return nil
}

// semanticMatch: find the bucket the request belongs to, then score
// every record against the bucket's synonym list weighted by the
// record's own classification confidence.
func semanticMatch(request string, cat *catalog.Catalog) *catalog.ComponentRecord {
	bucket := bucketFor(request)
	if bucket == nil {
		return nil
	}

	var best *catalog.ComponentRecord
	bestScore := 0.0
	for _, rec := range cat.Records {
		score := scoreAgainstBucket(rec, bucket) * rec.Confidence
		if score > bestScore {
			best = rec
			bestScore = score
		}
	}

	if bestScore < semanticFloor {
		return nil
	}
	return best
}

// scoreAgainstBucket returns the strongest synonym hit for a record:
// exact equality outweighs substring containment, which outweighs a
// shared delimited token.
func scoreAgainstBucket(rec *catalog.ComponentRecord, bucket *semanticBucket) float64 {
	name := strings.ToLower(rec.Name)
	suggested := strings.ToLower(rec.SuggestedType)

	best := 0.0
	for _, syn := range bucket.Synonyms {
		score := 0.0
		switch {
		case suggested == syn || name == syn:
			score = 1.0
		case strings.Contains(name, syn) || strings.Contains(suggested, syn) ||
			(len(suggested) >= 4 && strings.Contains(syn, suggested)):
			score = 0.7
		case sharesToken(name, syn) || sharesToken(suggested, syn):
			score = 0.5
		}
		if score > best {
			best = score
		}
	}
	return best
}

func sharesToken(s, syn string) bool {
	synTokens := tokenize(syn)
	for _, st := range tokenize(s) {
		for _, tt := range synTokens {
			if st == tt {
				return true
			}
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '/' || r == '.'
	})
}

// fuzzyMatch: normalized edit-distance similarity against each record's
// name and suggested type.
func fuzzyMatch(request string, cat *catalog.Catalog) *catalog.ComponentRecord {
	var best *catalog.ComponentRecord
	bestScore := 0.0
	for _, rec := range cat.Records {
		score := recordSimilarity(request, rec)
		if score > bestScore {
			best = rec
			bestScore = score
		}
	}
	if bestScore < fuzzyFloor {
		return nil
	}
	return best
}

func recordSimilarity(request string, rec *catalog.ComponentRecord) float64 {
	byName := similarity(request, strings.ToLower(rec.Name))
	byType := similarity(request, strings.ToLower(rec.SuggestedType))
	if byType > byName {
		return byType
	}
	return byName
}

// similarity is 1 - dist/maxLen, in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1.0 - float64(dist)/float64(maxLen)
}

// Suggestions returns up to n catalog names closest to the request by
// edit distance, for "did you mean" hints.
func Suggestions(requested string, cat *catalog.Catalog, n int) []string {
	request := strings.ToLower(strings.TrimSpace(requested))

	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	for _, rec := range cat.Records {
		candidates = append(candidates, scored{
			name:  rec.Name,
			score: recordSimilarity(request, rec),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var out []string
	for _, c := range candidates {
		if len(out) >= n || c.score <= 0 {
			break
		}
		out = append(out, c.name)
	}
	return out
}
