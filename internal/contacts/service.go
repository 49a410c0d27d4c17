package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
)

// Service exposes the contact history of an item.
type Service interface {
	RecordAttempt(ctx context.Context, input RecordAttemptInput) (*ContactAttemptDTO, error)
	ListAttempts(ctx context.Context, itemID uuid.UUID) ([]ContactAttemptDTO, error)
}

// RecordAttemptInput describes one outreach to an item's presumed owner.
type RecordAttemptInput struct {
	FoundItemID          uuid.UUID
	Method               enums.ContactMethod
	Message              *string
	Response             *string
	AttemptedAt          *time.Time
	AttemptedByProfileID *uuid.UUID
	AttemptedByName      *string
}

type attemptStore interface {
	Create(ctx context.Context, attempt *models.ContactAttempt) (*models.ContactAttempt, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.ContactAttempt, error)
}

type itemChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error)
}

type service struct {
	store attemptStore
	items itemChecker
}

// NewService constructs a contact history service.
func NewService(repo *Repository, items itemChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item reader required")
	}
	return &service{store: repo, items: items}, nil
}

// RecordAttempt appends one outreach row after checking the item exists.
func (s *service) RecordAttempt(ctx context.Context, input RecordAttemptInput) (*ContactAttemptDTO, error) {
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact method")
	}

	if _, err := s.items.FindByID(ctx, input.FoundItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	attemptedAt := time.Now().UTC()
	if input.AttemptedAt != nil {
		attemptedAt = input.AttemptedAt.UTC()
	}

	attempt := &models.ContactAttempt{
		FoundItemID:          input.FoundItemID,
		Method:               input.Method,
		Message:              trimOrNil(input.Message),
		Response:             trimOrNil(input.Response),
		AttemptedAt:          attemptedAt,
		AttemptedByProfileID: input.AttemptedByProfileID,
		AttemptedByName:      trimOrNil(input.AttemptedByName),
	}

	created, err := s.store.Create(ctx, attempt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create contact attempt")
	}
	return FromModel(created), nil
}

// ListAttempts returns an item's outreach history newest first.
func (s *service) ListAttempts(ctx context.Context, itemID uuid.UUID) ([]ContactAttemptDTO, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	rows, err := s.store.ListByItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact attempts")
	}
	return FromModels(rows), nil
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
