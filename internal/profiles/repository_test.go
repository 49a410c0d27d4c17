package profiles

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
)

func mustCreateTestProfile(t *testing.T, tx *gorm.DB, legacyRowID *string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:          uuid.New(),
		Email:       fmt.Sprintf("df_test_%s@example.com", uuid.NewString()),
		Role:        enums.RoleMember,
		LegacyRowID: legacyRowID,
	}
	if err := tx.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return profile
}

func mustCreateTestStagedProfile(t *testing.T, tx *gorm.DB, legacyRowID *string) *models.StagedProfile {
	t.Helper()
	staged := &models.StagedProfile{
		Email:           fmt.Sprintf("df_staged_%s@example.com", uuid.NewString()),
		Role:            enums.RoleVisitor,
		LegacyRowID:     legacyRowID,
		NeedsActivation: true,
	}
	if err := tx.Create(staged).Error; err != nil {
		t.Fatalf("create staged profile: %v", err)
	}
	return staged
}

func TestRepositoryDualKeyLookup(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	legacyID := fmt.Sprintf("row-%s", uuid.NewString())
	created := mustCreateTestProfile(t, tx, &legacyID)

	byEmail, err := repo.FindByEmailOrLegacyID(ctx, created.Email, nil)
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("expected profile %s, got %s", created.ID, byEmail.ID)
	}

	byLegacy, err := repo.FindByEmailOrLegacyID(ctx, "nobody@example.com", &legacyID)
	if err != nil {
		t.Fatalf("lookup by legacy id: %v", err)
	}
	if byLegacy.ID != created.ID {
		t.Fatalf("expected profile %s, got %s", created.ID, byLegacy.ID)
	}

	missing := "row-missing"
	if _, err := repo.FindByEmailOrLegacyID(ctx, "nobody@example.com", &missing); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestRepositoryEmailWinsOverLegacyID(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	legacyA := fmt.Sprintf("row-%s", uuid.NewString())
	legacyB := fmt.Sprintf("row-%s", uuid.NewString())
	byEmailRow := mustCreateTestProfile(t, tx, &legacyA)
	mustCreateTestProfile(t, tx, &legacyB)

	found, err := repo.FindByEmailOrLegacyID(ctx, byEmailRow.Email, &legacyB)
	if err != nil {
		t.Fatalf("dual key lookup: %v", err)
	}
	if found.ID != byEmailRow.ID {
		t.Fatalf("expected email match %s to win, got %s", byEmailRow.ID, found.ID)
	}
}

func TestStagedRepositoryFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewStagedRepository(tx)
	ctx := context.Background()

	legacyID := fmt.Sprintf("row-%s", uuid.NewString())
	created := mustCreateTestStagedProfile(t, tx, &legacyID)
	if created.ID == uuid.Nil {
		t.Fatal("expected staged id to be generated")
	}
	if !created.NeedsActivation {
		t.Fatal("expected staged row to need activation")
	}

	found, err := repo.FindByEmailOrLegacyID(ctx, "nobody@example.com", &legacyID)
	if err != nil {
		t.Fatalf("staged lookup by legacy id: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected staged %s, got %s", created.ID, found.ID)
	}

	name := "Staged Owner"
	found.DisplayName = &name
	if _, err := repo.Save(ctx, found); err != nil {
		t.Fatalf("save staged: %v", err)
	}

	if err := repo.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("delete staged: %v", err)
	}
	if _, err := repo.FindByEmail(ctx, created.Email); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected staged row gone, got %v", err)
	}
}
