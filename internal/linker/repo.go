package linker

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a linker repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindStagedByEmail(ctx context.Context, email string) (*models.StagedProfile, error) {
	var staged models.StagedProfile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&staged).Error; err != nil {
		return nil, err
	}
	return &staged, nil
}

func (r *repository) DeleteStagedByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StagedProfile{}).Error
}

func (r *repository) FindProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) CreateTask(ctx context.Context, task *models.LinkTask) (*models.LinkTask, error) {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (r *repository) FindTaskByID(ctx context.Context, id uuid.UUID) (*models.LinkTask, error) {
	var task models.LinkTask
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindPendingTasks returns queued tasks oldest first so the sweep burns down
// the backlog in arrival order.
func (r *repository) FindPendingTasks(ctx context.Context, limit int) ([]models.LinkTask, error) {
	var tasks []models.LinkTask
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.LinkTaskPending).
		Order("created_at ASC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) ListTasks(ctx context.Context, status *enums.LinkTaskStatus, limit int) ([]models.LinkTask, error) {
	query := r.db.WithContext(ctx).Model(&models.LinkTask{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var tasks []models.LinkTask
	err := query.
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repository) SaveTask(ctx context.Context, task *models.LinkTask) (*models.LinkTask, error) {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}
