package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
)

// StagedRepository persists staged (pre-signup) profiles.
type StagedRepository struct {
	db *gorm.DB
}

// NewStagedRepository builds a staged-profile repository.
func NewStagedRepository(db *gorm.DB) *StagedRepository {
	return &StagedRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *StagedRepository) WithTx(tx *gorm.DB) *StagedRepository {
	return &StagedRepository{db: tx}
}

// Create inserts a new staged profile row.
func (r *StagedRepository) Create(ctx context.Context, staged *models.StagedProfile) (*models.StagedProfile, error) {
	if err := r.db.WithContext(ctx).Create(staged).Error; err != nil {
		return nil, err
	}
	return staged, nil
}

// FindByEmail loads a staged profile by its (normalized) email.
func (r *StagedRepository) FindByEmail(ctx context.Context, email string) (*models.StagedProfile, error) {
	var staged models.StagedProfile
	if err := r.db.WithContext(ctx).First(&staged, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &staged, nil
}

// FindByEmailOrLegacyID loads a staged profile matching either dedup key,
// email first.
func (r *StagedRepository) FindByEmailOrLegacyID(ctx context.Context, email string, legacyRowID *string) (*models.StagedProfile, error) {
	staged, err := r.FindByEmail(ctx, email)
	if err == nil {
		return staged, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if legacyRowID == nil || *legacyRowID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var byLegacy models.StagedProfile
	if err := r.db.WithContext(ctx).First(&byLegacy, "legacy_row_id = ?", *legacyRowID).Error; err != nil {
		return nil, err
	}
	return &byLegacy, nil
}

// Save writes the full staged row back.
func (r *StagedRepository) Save(ctx context.Context, staged *models.StagedProfile) (*models.StagedProfile, error) {
	if err := r.db.WithContext(ctx).Save(staged).Error; err != nil {
		return nil, err
	}
	return staged, nil
}

// DeleteByID removes a staged row. Called from the linking transaction once
// the canonical profile absorbed the staged data.
func (r *StagedRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StagedProfile{}).Error
}
