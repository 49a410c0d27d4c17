package importer

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/types"
)

func TestMergeProfileIncomingWinsNilPreserves(t *testing.T) {
	profile := &models.Profile{
		Email:       "stored@example.com",
		DisplayName: stringPtr("Old Name"),
		PDGANumber:  stringPtr("111"),
		Role:        enums.RoleOperator,
	}
	record := &ProfileRecord{
		Email:       "other@example.com",
		DisplayName: stringPtr("New Name"),
		Phone:       stringPtr("+15551234567"),
		Social:      types.Social{Instagram: stringPtr("@newhandle")},
	}

	mergeProfile(profile, record)

	if profile.Email != "stored@example.com" {
		t.Fatalf("email must never be rewritten, got %q", profile.Email)
	}
	if profile.DisplayName == nil || *profile.DisplayName != "New Name" {
		t.Fatalf("expected incoming display name to win, got %v", profile.DisplayName)
	}
	if profile.PDGANumber == nil || *profile.PDGANumber != "111" {
		t.Fatalf("expected nil incoming to preserve pdga number, got %v", profile.PDGANumber)
	}
	if profile.Phone == nil || *profile.Phone != "+15551234567" {
		t.Fatalf("expected phone filled in, got %v", profile.Phone)
	}
	if profile.Social.Instagram == nil || *profile.Social.Instagram != "@newhandle" {
		t.Fatalf("expected social handle filled in, got %v", profile.Social.Instagram)
	}
	if profile.Role != enums.RoleOperator {
		t.Fatalf("expected blank role column to preserve stored role, got %q", profile.Role)
	}
}

func TestMergeProfileExplicitRoleWins(t *testing.T) {
	profile := &models.Profile{Email: "stored@example.com", Role: enums.RoleOperator}
	role := enums.RoleVisitor
	record := &ProfileRecord{Email: "stored@example.com", Role: &role}

	mergeProfile(profile, record)

	if profile.Role != enums.RoleVisitor {
		t.Fatalf("expected explicit role to win even when lower, got %q", profile.Role)
	}
}

func TestMergeProfileLegacyIDBackfillOnly(t *testing.T) {
	t.Run("backfill", func(t *testing.T) {
		profile := &models.Profile{Email: "a@example.com"}
		mergeProfile(profile, &ProfileRecord{Email: "a@example.com", LegacyRowID: stringPtr("row-1")})
		if profile.LegacyRowID == nil || *profile.LegacyRowID != "row-1" {
			t.Fatalf("expected legacy id backfilled, got %v", profile.LegacyRowID)
		}
	})

	t.Run("neverReplaced", func(t *testing.T) {
		profile := &models.Profile{Email: "a@example.com", LegacyRowID: stringPtr("row-1")}
		mergeProfile(profile, &ProfileRecord{Email: "a@example.com", LegacyRowID: stringPtr("row-2")})
		if *profile.LegacyRowID != "row-1" {
			t.Fatalf("expected stored legacy id kept, got %q", *profile.LegacyRowID)
		}
	})
}

func TestMergeStagedProfileCoalesces(t *testing.T) {
	staged := &models.StagedProfile{
		Email:       "a@example.com",
		DisplayName: stringPtr("Stored"),
		Role:        enums.RoleMember,
	}
	mergeStagedProfile(staged, &ProfileRecord{
		Email:      "a@example.com",
		PDGANumber: stringPtr("222"),
	})

	if *staged.DisplayName != "Stored" {
		t.Fatalf("expected stored display name kept, got %q", *staged.DisplayName)
	}
	if staged.PDGANumber == nil || *staged.PDGANumber != "222" {
		t.Fatalf("expected pdga number filled in, got %v", staged.PDGANumber)
	}
	if staged.Role != enums.RoleMember {
		t.Fatalf("expected stored role kept, got %q", staged.Role)
	}
}

func TestNewStagedProfileDefaults(t *testing.T) {
	staged := newStagedProfile(&ProfileRecord{Email: "a@example.com"})
	if staged.Role != enums.RoleVisitor {
		t.Fatalf("expected visitor default, got %q", staged.Role)
	}
	if !staged.NeedsActivation {
		t.Fatal("expected staged profile to need activation")
	}
}

func TestMergeSourceTotalFieldsAlwaysWin(t *testing.T) {
	source := &models.SourceLocation{
		Name:               "Old Name",
		Active:             true,
		SortOrder:          7,
		SMSInitialTemplate: stringPtr("stored template"),
	}
	mergeSource(source, &SourceRecord{
		LegacyRowID: "src-1",
		Name:        "New Name",
		Active:      false,
	})

	if source.Name != "New Name" {
		t.Fatalf("expected name overwritten, got %q", source.Name)
	}
	if source.Active {
		t.Fatal("expected active overwritten to false")
	}
	if source.SortOrder != 7 {
		t.Fatalf("expected blank sort to preserve stored order, got %d", source.SortOrder)
	}
	if source.SMSInitialTemplate == nil || *source.SMSInitialTemplate != "stored template" {
		t.Fatalf("expected stored template kept, got %v", source.SMSInitialTemplate)
	}
}

func TestMergeFoundItemUnknownPreservesDiscFields(t *testing.T) {
	item := &models.FoundItem{
		Brand:       "Innova",
		Mold:        "Destroyer",
		Color:       mapping.Unknown,
		Disposition: enums.DispositionAvailable,
	}
	record := &ItemRecord{
		LegacyRowID: "item-1",
		Disc:        mapping.DiscFields{Brand: mapping.Unknown, Mold: "Wraith", Color: "red"},
	}

	mergeFoundItem(item, record, nil)

	if item.Brand != "Innova" {
		t.Fatalf("expected Unknown incoming to preserve brand, got %q", item.Brand)
	}
	if item.Mold != "Wraith" {
		t.Fatalf("expected extracted mold to win, got %q", item.Mold)
	}
	if item.Color != "red" {
		t.Fatalf("expected extracted color to fill sentinel, got %q", item.Color)
	}
}

func TestMergeFoundItemSourceResolution(t *testing.T) {
	storedSource := uuid.New()
	resolved := uuid.New()

	t.Run("resolvedWins", func(t *testing.T) {
		item := &models.FoundItem{SourceLocationID: &storedSource, Disposition: enums.DispositionAvailable}
		mergeFoundItem(item, &ItemRecord{LegacyRowID: "item-1", SourceRef: stringPtr("XYZ")}, &resolved)
		if item.SourceLocationID == nil || *item.SourceLocationID != resolved {
			t.Fatalf("expected resolved source to win, got %v", item.SourceLocationID)
		}
		if item.LegacySourceRef == nil || *item.LegacySourceRef != "XYZ" {
			t.Fatalf("expected raw ref retained, got %v", item.LegacySourceRef)
		}
	})

	t.Run("unresolvedPreserves", func(t *testing.T) {
		item := &models.FoundItem{SourceLocationID: &storedSource, Disposition: enums.DispositionAvailable}
		mergeFoundItem(item, &ItemRecord{LegacyRowID: "item-1"}, nil)
		if item.SourceLocationID == nil || *item.SourceLocationID != storedSource {
			t.Fatalf("expected stored source kept, got %v", item.SourceLocationID)
		}
	})
}

func TestMergeFoundItemReturnedTransition(t *testing.T) {
	returned := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)

	t.Run("shelfItemTransitions", func(t *testing.T) {
		item := &models.FoundItem{Disposition: enums.DispositionAvailable}
		mergeFoundItem(item, &ItemRecord{
			LegacyRowID:    "item-1",
			ReturnedAt:     &returned,
			ReturnedByName: stringPtr("Pat"),
		}, nil)
		if item.Disposition != enums.DispositionReturnedToOwner {
			t.Fatalf("expected returned disposition, got %q", item.Disposition)
		}
		if item.ReturnedAt == nil || !item.ReturnedAt.Equal(returned) {
			t.Fatalf("expected returned date recorded, got %v", item.ReturnedAt)
		}
		if item.ReturnedByName == nil || *item.ReturnedByName != "Pat" {
			t.Fatalf("expected returned-by name recorded, got %v", item.ReturnedByName)
		}
	})

	t.Run("terminalUntouched", func(t *testing.T) {
		item := &models.FoundItem{Disposition: enums.DispositionSold}
		mergeFoundItem(item, &ItemRecord{LegacyRowID: "item-1", ReturnedAt: &returned}, nil)
		if item.Disposition != enums.DispositionSold {
			t.Fatalf("expected sold item untouched, got %q", item.Disposition)
		}
	})
}

func TestNewFoundItemDisposition(t *testing.T) {
	record := &ItemRecord{
		LegacyRowID: "item-1",
		Disc:        mapping.DiscFields{Brand: mapping.Unknown, Mold: mapping.Unknown, Color: mapping.Unknown},
	}

	item := newFoundItem(record, nil)
	if item.Disposition != enums.DispositionAvailable {
		t.Fatalf("expected available default, got %q", item.Disposition)
	}

	returned := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	record.ReturnedAt = &returned
	item = newFoundItem(record, nil)
	if item.Disposition != enums.DispositionReturnedToOwner {
		t.Fatalf("expected returned disposition for historical return, got %q", item.Disposition)
	}
}

func stringPtr(s string) *string {
	return &s
}
