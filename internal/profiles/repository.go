package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
)

// Repository persists canonical profiles.
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

// Create inserts a new profile row. The id must already be set; canonical
// ids come from the auth platform, not the database.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a profile by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail loads a profile by its (normalized) email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmailOrLegacyID loads a profile matching either dedup key. The email
// lookup runs first so it wins when the two keys hit different rows.
func (r *Repository) FindByEmailOrLegacyID(ctx context.Context, email string, legacyRowID *string) (*models.Profile, error) {
	profile, err := r.FindByEmail(ctx, email)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if legacyRowID == nil || *legacyRowID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var byLegacy models.Profile
	if err := r.db.WithContext(ctx).First(&byLegacy, "legacy_row_id = ?", *legacyRowID).Error; err != nil {
		return nil, err
	}
	return &byLegacy, nil
}

// Save writes the full profile row back.
func (r *Repository) Save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
