package contacts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
)

// Repository persists contact attempts. The table is append-only; there is
// no update or delete path.
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

// Create appends one contact attempt.
func (r *Repository) Create(ctx context.Context, attempt *models.ContactAttempt) (*models.ContactAttempt, error) {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListByItem returns an item's contact history newest first.
func (r *Repository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.ContactAttempt, error) {
	var rows []models.ContactAttempt
	if err := r.db.WithContext(ctx).
		Where("found_item_id = ?", itemID).
		Order("attempted_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ExistsByDigest reports whether an imported attempt with this digest is
// already stored.
func (r *Repository) ExistsByDigest(ctx context.Context, digest string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ContactAttempt{}).
		Where("import_digest = ?", digest).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
