package linker

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/outbox"
)

// Repository spans the tables one link touches: the staged row it consumes,
// the canonical profile it produces, and the retry queue.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindStagedByEmail(ctx context.Context, email string) (*models.StagedProfile, error)
	DeleteStagedByID(ctx context.Context, id uuid.UUID) error

	FindProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)

	CreateTask(ctx context.Context, task *models.LinkTask) (*models.LinkTask, error)
	FindTaskByID(ctx context.Context, id uuid.UUID) (*models.LinkTask, error)
	FindPendingTasks(ctx context.Context, limit int) ([]models.LinkTask, error)
	ListTasks(ctx context.Context, status *enums.LinkTaskStatus, limit int) ([]models.LinkTask, error)
	SaveTask(ctx context.Context, task *models.LinkTask) (*models.LinkTask, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}
