package importer

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Lock guards the single-writer import run.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type profileStore interface {
	FindByEmailOrLegacyID(ctx context.Context, email string, legacyRowID *string) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

type stagedProfileStore interface {
	FindByEmailOrLegacyID(ctx context.Context, email string, legacyRowID *string) (*models.StagedProfile, error)
	Create(ctx context.Context, staged *models.StagedProfile) (*models.StagedProfile, error)
	Save(ctx context.Context, staged *models.StagedProfile) (*models.StagedProfile, error)
}

type sourceStore interface {
	FindByLegacyRowID(ctx context.Context, legacyRowID string) (*models.SourceLocation, error)
	Create(ctx context.Context, source *models.SourceLocation) (*models.SourceLocation, error)
	Save(ctx context.Context, source *models.SourceLocation) (*models.SourceLocation, error)
	LegacyIDMap(ctx context.Context) (map[string]uuid.UUID, error)
}

type foundItemStore interface {
	FindByLegacyRowID(ctx context.Context, legacyRowID string) (*models.FoundItem, error)
	Create(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error)
	Save(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error)
}

type contactAttemptStore interface {
	Create(ctx context.Context, attempt *models.ContactAttempt) (*models.ContactAttempt, error)
	ExistsByDigest(ctx context.Context, digest string) (bool, error)
}
