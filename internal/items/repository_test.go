package items

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/pagination"
)

func mustCreateTestItem(t *testing.T, tx *gorm.DB, mutate func(*models.FoundItem)) *models.FoundItem {
	t.Helper()
	legacyID := fmt.Sprintf("itm-%s", uuid.NewString())
	item := &models.FoundItem{
		Brand:       "Innova",
		Mold:        "Destroyer",
		Color:       "blue",
		Disposition: enums.DispositionAvailable,
		LegacyRowID: &legacyID,
	}
	if mutate != nil {
		mutate(item)
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestRepositoryItemFlow(t *testing.T) {
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

	created := mustCreateTestItem(t, tx, nil)
	if created.ID == uuid.Nil {
		t.Fatal("expected item id to be generated")
	}

	byLegacy, err := repo.FindByLegacyRowID(ctx, *created.LegacyRowID)
	if err != nil {
		t.Fatalf("find by legacy id: %v", err)
	}
	if byLegacy.ID != created.ID {
		t.Fatalf("expected item %s, got %s", created.ID, byLegacy.ID)
	}

	byLegacy.Disposition = enums.DispositionDonated
	if _, err := repo.Save(ctx, byLegacy); err != nil {
		t.Fatalf("save item: %v", err)
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.Disposition != enums.DispositionDonated {
		t.Fatalf("expected donated, got %s", fetched.Disposition)
	}
}

func TestRepositoryListItemSummaries(t *testing.T) {
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

	source := &models.SourceLocation{Name: "List Test Course", Active: true}
	if err := tx.Create(source).Error; err != nil {
		t.Fatalf("create source: %v", err)
	}

	mustCreateTestItem(t, tx, func(item *models.FoundItem) {
		item.SourceLocationID = &source.ID
	})
	mustCreateTestItem(t, tx, func(item *models.FoundItem) {
		item.Brand = "Discraft"
		item.Mold = "Buzzz"
		item.Disposition = enums.DispositionDonated
	})

	available, err := repo.ListItemSummaries(ctx, itemListQuery{
		Filters: ItemFilters{
			Dispositions:     []enums.ItemDisposition{enums.DispositionAvailable},
			SourceLocationID: &source.ID,
		},
		Pagination: pagination.Params{Limit: 10},
	})
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available.Items) != 1 {
		t.Fatalf("expected 1 available item at source, got %d", len(available.Items))
	}
	if available.Items[0].SourceName == nil || *available.Items[0].SourceName != source.Name {
		t.Fatal("expected joined source name")
	}

	searched, err := repo.ListItemSummaries(ctx, itemListQuery{
		Filters:    ItemFilters{Query: "buzzz"},
		Pagination: pagination.Params{Limit: 10},
	})
	if err != nil {
		t.Fatalf("search items: %v", err)
	}
	foundBuzzz := false
	for _, row := range searched.Items {
		if row.Mold == "Buzzz" {
			foundBuzzz = true
		}
	}
	if !foundBuzzz {
		t.Fatal("expected search to match mold")
	}
}

func TestRepositoryListItemSummariesCursor(t *testing.T) {
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

	for i := 0; i < 3; i++ {
		mustCreateTestItem(t, tx, nil)
	}

	first, err := repo.ListItemSummaries(ctx, itemListQuery{
		Pagination: pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 items on first page, got %d", len(first.Items))
	}
	if first.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	second, err := repo.ListItemSummaries(ctx, itemListQuery{
		Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor},
	})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) == 0 {
		t.Fatal("expected items on second page")
	}
	for _, row := range second.Items {
		for _, prev := range first.Items {
			if row.ID == prev.ID {
				t.Fatalf("item %s repeated across pages", row.ID)
			}
		}
	}
}
