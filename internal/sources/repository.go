package sources

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
)

// Repository persists source locations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new source location.
func (r *Repository) Create(ctx context.Context, source *models.SourceLocation) (*models.SourceLocation, error) {
	if err := r.db.WithContext(ctx).Create(source).Error; err != nil {
		return nil, err
	}
	return source, nil
}

// FindByID loads a source location by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SourceLocation, error) {
	var source models.SourceLocation
	if err := r.db.WithContext(ctx).First(&source, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

// FindByLegacyRowID loads a source location by its legacy import key.
func (r *Repository) FindByLegacyRowID(ctx context.Context, legacyRowID string) (*models.SourceLocation, error) {
	var source models.SourceLocation
	if err := r.db.WithContext(ctx).First(&source, "legacy_row_id = ?", legacyRowID).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

// List returns source locations in display order. Inactive rows are included
// only when requested; they sort after active ones either way.
func (r *Repository) List(ctx context.Context, includeInactive bool) ([]models.SourceLocation, error) {
	query := r.db.WithContext(ctx).Model(&models.SourceLocation{})
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var rows []models.SourceLocation
	if err := query.Order("active DESC, sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LegacyIDMap returns legacy_row_id -> id for every source location that has
// a legacy key. The importer resolves foreign references against this map
// instead of one query per row.
func (r *Repository) LegacyIDMap(ctx context.Context) (map[string]uuid.UUID, error) {
	var rows []models.SourceLocation
	if err := r.db.WithContext(ctx).
		Where("legacy_row_id IS NOT NULL").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		if row.LegacyRowID != nil && *row.LegacyRowID != "" {
			result[*row.LegacyRowID] = row.ID
		}
	}
	return result, nil
}

// Save writes the full source location row back.
func (r *Repository) Save(ctx context.Context, source *models.SourceLocation) (*models.SourceLocation, error) {
	if err := r.db.WithContext(ctx).Save(source).Error; err != nil {
		return nil, err
	}
	return source, nil
}
