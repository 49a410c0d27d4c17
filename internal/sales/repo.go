package sales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
)

// Repository is the narrow item access the sale flow needs, swappable for a
// transaction-scoped copy.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindItemByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error)
	SaveItem(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a gorm-backed sales repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error) {
	var item models.FoundItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) SaveItem(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}
