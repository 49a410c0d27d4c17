package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestSummaryErrorCap(t *testing.T) {
	summary := NewSummary(EntityProfiles, 2)

	for i := 0; i < 5; i++ {
		summary.AddError(errors.New("row failed"))
	}

	if summary.Failed != 5 {
		t.Fatalf("expected 5 failures counted, got %d", summary.Failed)
	}
	if len(summary.Errors) != 2 {
		t.Fatalf("expected capped error list of 2, got %d", len(summary.Errors))
	}
	if summary.ErrorsOmitted != 3 {
		t.Fatalf("expected 3 omitted errors, got %d", summary.ErrorsOmitted)
	}
}

func TestSummaryUnmappedSourcesMostUsedFirst(t *testing.T) {
	summary := NewSummary(EntityItems, 0)

	summary.AddUnmappedSource("rare")
	summary.AddUnmappedSource("common")
	summary.AddUnmappedSource("common")
	summary.AddUnmappedSource("common")
	summary.AddUnmappedSource("middle")
	summary.AddUnmappedSource("middle")
	summary.Finalize()

	if len(summary.UnmappedSources) != 3 {
		t.Fatalf("expected 3 unmapped refs, got %d", len(summary.UnmappedSources))
	}
	if summary.UnmappedSources[0].Ref != "common" || summary.UnmappedSources[0].Count != 3 {
		t.Fatalf("expected common first with count 3, got %+v", summary.UnmappedSources[0])
	}
	if summary.UnmappedSources[1].Ref != "middle" {
		t.Fatalf("expected middle second, got %+v", summary.UnmappedSources[1])
	}
	if summary.UnmappedSources[2].Ref != "rare" {
		t.Fatalf("expected rare last, got %+v", summary.UnmappedSources[2])
	}
}

func TestSummaryRender(t *testing.T) {
	summary := NewSummary(EntityItems, 5)
	summary.Total = 3
	summary.Imported = 2
	summary.AddError(errors.New("row x: bad"))
	summary.AddUnmappedSource("XYZ")
	summary.Finalize()

	rendered := summary.Render()
	if !strings.Contains(rendered, "items import: 3 total") {
		t.Fatalf("expected counts line, got %q", rendered)
	}
	if !strings.Contains(rendered, "row x: bad") {
		t.Fatalf("expected error line, got %q", rendered)
	}
	if !strings.Contains(rendered, "XYZ (1)") {
		t.Fatalf("expected unmapped ref with count, got %q", rendered)
	}
}
