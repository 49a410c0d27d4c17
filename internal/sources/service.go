package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
)

// Service exposes operator-facing management of the source vocabulary.
type Service interface {
	CreateSource(ctx context.Context, input CreateSourceInput) (*SourceLocationDTO, error)
	GetSource(ctx context.Context, id uuid.UUID) (*SourceLocationDTO, error)
	ListSources(ctx context.Context, includeInactive bool) ([]SourceLocationDTO, error)
	UpdateSource(ctx context.Context, id uuid.UUID, input UpdateSourceInput) (*SourceLocationDTO, error)
}

// CreateSourceInput holds the fields for a new source location.
type CreateSourceInput struct {
	Name                string
	SortOrder           int
	SMSInitialTemplate  *string
	SMSReminderTemplate *string
}

// UpdateSourceInput holds optional mutation values. Nil fields are left
// untouched; deactivation is Active=false.
type UpdateSourceInput struct {
	Name                *string
	Active              *bool
	SortOrder           *int
	SMSInitialTemplate  *string
	SMSReminderTemplate *string
}

type sourceStore interface {
	Create(ctx context.Context, source *models.SourceLocation) (*models.SourceLocation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SourceLocation, error)
	List(ctx context.Context, includeInactive bool) ([]models.SourceLocation, error)
	Save(ctx context.Context, source *models.SourceLocation) (*models.SourceLocation, error)
}

type service struct {
	store sourceStore
}

// NewService constructs a source vocabulary service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("source repository required")
	}
	return &service{store: repo}, nil
}

func (s *service) CreateSource(ctx context.Context, input CreateSourceInput) (*SourceLocationDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	source := &models.SourceLocation{
		Name:                name,
		Active:              true,
		SortOrder:           input.SortOrder,
		SMSInitialTemplate:  trimOrNil(input.SMSInitialTemplate),
		SMSReminderTemplate: trimOrNil(input.SMSReminderTemplate),
	}

	created, err := s.store.Create(ctx, source)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create source location")
	}
	return FromModel(created), nil
}

func (s *service) GetSource(ctx context.Context, id uuid.UUID) (*SourceLocationDTO, error) {
	source, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "source location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source location")
	}
	return FromModel(source), nil
}

func (s *service) ListSources(ctx context.Context, includeInactive bool) ([]SourceLocationDTO, error) {
	rows, err := s.store.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list source locations")
	}
	return FromModels(rows), nil
}

func (s *service) UpdateSource(ctx context.Context, id uuid.UUID, input UpdateSourceInput) (*SourceLocationDTO, error) {
	source, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "source location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source location")
	}

	if err := applyUpdateToSource(source, input); err != nil {
		return nil, err
	}

	updated, err := s.store.Save(ctx, source)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update source location")
	}
	return FromModel(updated), nil
}

func applyUpdateToSource(source *models.SourceLocation, input UpdateSourceInput) error {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		source.Name = trimmed
	}
	if input.Active != nil {
		source.Active = *input.Active
	}
	if input.SortOrder != nil {
		source.SortOrder = *input.SortOrder
	}
	if input.SMSInitialTemplate != nil {
		source.SMSInitialTemplate = trimOrNil(input.SMSInitialTemplate)
	}
	if input.SMSReminderTemplate != nil {
		source.SMSReminderTemplate = trimOrNil(input.SMSReminderTemplate)
	}
	return nil
}

func trimOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
