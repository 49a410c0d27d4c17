package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultErrorListCap bounds how many row errors a summary keeps verbatim.
const DefaultErrorListCap = 10

// Summary is the machine-inspectable result of one import run. Row-level
// failures land in the counts and the capped error list; they never fail the
// run itself.
type Summary struct {
	Entity          string         `json:"entity"`
	Total           int            `json:"total"`
	Imported        int            `json:"imported"`
	Updated         int            `json:"updated"`
	Staged          int            `json:"staged"`
	Skipped         int            `json:"skipped"`
	Failed          int            `json:"failed"`
	Errors          []string       `json:"errors,omitempty"`
	ErrorsOmitted   int            `json:"errors_omitted,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
	UnmappedSources []UnmappedRef `json:"unmapped_sources,omitempty"`

	unmappedCounts map[string]int
	errorCap       int
	startedAt      time.Time
}

// UnmappedRef is one unresolved legacy source reference and how many rows
// carried it.
type UnmappedRef struct {
	Ref   string `json:"ref"`
	Count int    `json:"count"`
}

// NewSummary starts an empty summary for the named entity.
func NewSummary(entity string, errorCap int) *Summary {
	if errorCap <= 0 {
		errorCap = DefaultErrorListCap
	}
	return &Summary{Entity: entity, errorCap: errorCap, startedAt: time.Now()}
}

// Elapsed is how long the pass has been running, measured from NewSummary.
func (s *Summary) Elapsed() time.Duration {
	return time.Since(s.startedAt)
}

// AddError records one row failure, keeping at most the configured number of
// messages verbatim.
func (s *Summary) AddError(err error) {
	s.Failed++
	if len(s.Errors) < s.errorCap {
		s.Errors = append(s.Errors, err.Error())
		return
	}
	s.ErrorsOmitted++
}

// AddWarning records a non-fatal observation, e.g. a flagged phone number.
func (s *Summary) AddWarning(message string) {
	s.Warnings = append(s.Warnings, message)
}

// AddUnmappedSource counts one occurrence of an unresolved source reference.
func (s *Summary) AddUnmappedSource(ref string) {
	if s.unmappedCounts == nil {
		s.unmappedCounts = make(map[string]int)
	}
	s.unmappedCounts[ref]++
}

// Finalize sorts the unmapped references most-used first so operators see
// the highest-impact backfills at the top.
func (s *Summary) Finalize() {
	if len(s.unmappedCounts) == 0 {
		return
	}
	refs := make([]UnmappedRef, 0, len(s.unmappedCounts))
	for ref, count := range s.unmappedCounts {
		refs = append(refs, UnmappedRef{Ref: ref, Count: count})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Count != refs[j].Count {
			return refs[i].Count > refs[j].Count
		}
		return refs[i].Ref < refs[j].Ref
	})
	s.UnmappedSources = refs
}

// Render formats the human-readable final block the CLI prints.
func (s *Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s import: %d total, %d imported, %d updated, %d staged, %d skipped, %d failed\n",
		s.Entity, s.Total, s.Imported, s.Updated, s.Staged, s.Skipped, s.Failed)
	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "errors (first %d):\n", len(s.Errors))
		for _, msg := range s.Errors {
			fmt.Fprintf(&b, "  - %s\n", msg)
		}
		if s.ErrorsOmitted > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", s.ErrorsOmitted)
		}
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(&b, "warnings: %d\n", len(s.Warnings))
	}
	if len(s.UnmappedSources) > 0 {
		b.WriteString("unmapped source refs (most used first):\n")
		for _, ref := range s.UnmappedSources {
			fmt.Fprintf(&b, "  - %s (%d)\n", ref.Ref, ref.Count)
		}
	}
	return b.String()
}
