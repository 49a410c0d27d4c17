package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/discfound/discfound-backend/internal/importer"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
)

// UnmappedSourceRef is one unresolved legacy source reference and how many
// stored items still carry it.
type UnmappedSourceRef struct {
	Ref   string `json:"ref"`
	Count int64  `json:"count"`
}

// MigratedCounts is the raw tally the progress report is computed from.
type MigratedCounts struct {
	Profiles       int64
	StagedProfiles int64
	Sources        int64
	Items          int64
}

// EntityProgress reports one entity's migration state against the external
// system's row count.
type EntityProgress struct {
	Entity   string  `json:"entity"`
	Expected int64   `json:"expected"`
	Migrated int64   `json:"migrated"`
	Staged   int64   `json:"staged,omitempty"`
	Percent  float64 `json:"percent"`
}

// ExpectedTotals carries the row counts of the external exports, supplied by
// the operator running the report.
type ExpectedTotals struct {
	Profiles int64
	Sources  int64
	Items    int64
}

// ReconciliationReport is the full migration picture: per-entity progress
// plus the source references that still resolve nowhere.
type ReconciliationReport struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	Progress        []EntityProgress    `json:"progress"`
	UnmappedSources []UnmappedSourceRef `json:"unmapped_sources"`
}

type reportStore interface {
	UnmappedSourceRefs(ctx context.Context) ([]UnmappedSourceRef, error)
	MigratedCounts(ctx context.Context) (*MigratedCounts, error)
}

// Service assembles reconciliation reports.
type Service struct {
	repo reportStore
	logg *logger.Logger
}

// NewService constructs the reports service.
func NewService(repo *Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// Reconciliation builds the migration report. Expected totals of zero mean
// "unknown" and yield a zero percent rather than a division error.
func (s *Service) Reconciliation(ctx context.Context, expected ExpectedTotals) (*ReconciliationReport, error) {
	counts, err := s.repo.MigratedCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to count migrated rows")
	}
	unmapped, err := s.repo.UnmappedSourceRefs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list unmapped source refs")
	}

	report := &ReconciliationReport{
		GeneratedAt: time.Now().UTC(),
		Progress: []EntityProgress{
			{
				Entity:   importer.EntityProfiles,
				Expected: expected.Profiles,
				Migrated: counts.Profiles,
				Staged:   counts.StagedProfiles,
				Percent:  percent(counts.Profiles, expected.Profiles),
			},
			{
				Entity:   importer.EntitySources,
				Expected: expected.Sources,
				Migrated: counts.Sources,
				Percent:  percent(counts.Sources, expected.Sources),
			},
			{
				Entity:   importer.EntityItems,
				Expected: expected.Items,
				Migrated: counts.Items,
				Percent:  percent(counts.Items, expected.Items),
			},
		},
		UnmappedSources: unmapped,
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"profiles_migrated": counts.Profiles,
		"profiles_staged":   counts.StagedProfiles,
		"sources_migrated":  counts.Sources,
		"items_migrated":    counts.Items,
		"unmapped_refs":     len(unmapped),
	}), "reconciliation report generated")
	return report, nil
}

func percent(migrated, expected int64) float64 {
	if expected <= 0 {
		return 0
	}
	return math.Round(float64(migrated)/float64(expected)*1000) / 10
}

// Render formats the report for the CLI.
func (r *ReconciliationReport) Render() string {
	var b strings.Builder
	b.WriteString("migration progress:\n")
	for _, entry := range r.Progress {
		fmt.Fprintf(&b, "  %-9s %d/%d (%.1f%%)", entry.Entity, entry.Migrated, entry.Expected, entry.Percent)
		if entry.Staged > 0 {
			fmt.Fprintf(&b, ", %d staged", entry.Staged)
		}
		b.WriteString("\n")
	}
	if len(r.UnmappedSources) > 0 {
		b.WriteString("unmapped source refs (most used first):\n")
		for _, ref := range r.UnmappedSources {
			fmt.Fprintf(&b, "  - %s (%d)\n", ref.Ref, ref.Count)
		}
	}
	return b.String()
}

// DuplicateValue is one cell value appearing on more than one row of an
// export batch.
type DuplicateValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DuplicateValues scans one column of a parsed export for values that appear
// more than once, worst offender first. Blank cells are not duplicates of
// each other.
func DuplicateValues(table *importer.Table, column string) []DuplicateValue {
	seen := make(map[string]int)
	for _, row := range table.Rows {
		value := table.Get(row, column)
		if value == "" {
			continue
		}
		seen[value]++
	}

	var duplicates []DuplicateValue
	for value, count := range seen {
		if count > 1 {
			duplicates = append(duplicates, DuplicateValue{Value: value, Count: count})
		}
	}
	sort.Slice(duplicates, func(i, j int) bool {
		if duplicates[i].Count != duplicates[j].Count {
			return duplicates[i].Count > duplicates[j].Count
		}
		return duplicates[i].Value < duplicates[j].Value
	})
	return duplicates
}
