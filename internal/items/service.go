package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/internal/sources"
	"github.com/discfound/discfound-backend/pkg/db/models"
	dbtypes "github.com/discfound/discfound-backend/pkg/db/types"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/pagination"
	"github.com/discfound/discfound-backend/pkg/types"
	"github.com/discfound/discfound-backend/pkg/visibility"
)

// Actor identifies the caller for visibility decisions.
type Actor struct {
	ID   *uuid.UUID
	Role enums.ProfileRole
}

// Service exposes found item operations.
type Service interface {
	ReportFoundItem(ctx context.Context, reporterID uuid.UUID, input ReportFoundItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID, actor Actor) (*ItemDTO, error)
	ListItems(ctx context.Context, input ListItemsInput) (*ItemListResult, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	TransitionDisposition(ctx context.Context, id uuid.UUID, input TransitionInput) (*ItemDTO, error)
}

// ReportFoundItemInput describes a member-submitted found disc. Brand, mold
// and color are optional; the description extractor fills what it can.
type ReportFoundItemInput struct {
	Description      string
	Brand            *string
	Mold             *string
	Color            *string
	Condition        *string
	LocationFound    *string
	SourceLocationID *uuid.UUID
	FoundAt          *time.Time
	ImageURLs        []string
}

// ListItemsInput combines caller identity with listing filters.
type ListItemsInput struct {
	Actor            Actor
	Disposition      *enums.ItemDisposition
	SourceLocationID *uuid.UUID
	Brand            *string
	Query            string
	Pagination       pagination.Params
}

// UpdateItemInput holds optional operator edits. Nil fields are left
// untouched; SourceLocationID distinguishes "absent" from "set to null".
type UpdateItemInput struct {
	Brand            *string
	Mold             *string
	Color            *string
	Description      *string
	Condition        *string
	LocationFound    *string
	OwnerName        *string
	OwnerPhone       *string
	SourceLocationID types.NullableUUID
	FoundAt          *time.Time
	ImageURLs        *[]string
}

// TransitionInput moves an item to a new disposition.
type TransitionInput struct {
	Disposition    enums.ItemDisposition
	ActorProfileID *uuid.UUID
	ReturnedByName *string
	OwnerName      *string
	OwnerPhone     *string
}

type itemStore interface {
	Create(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error)
	Save(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error)
	ListItemSummaries(ctx context.Context, query itemListQuery) (*ItemListResult, error)
}

type sourceChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.SourceLocation, error)
}

type service struct {
	store   itemStore
	sources sourceChecker
}

// NewService constructs an item service instance.
func NewService(repo *Repository, sourceRepo *sources.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if sourceRepo == nil {
		return nil, fmt.Errorf("source repository required")
	}
	return &service{store: repo, sources: sourceRepo}, nil
}

// ReportFoundItem records a disc a member turned in. Structured fields win
// over the description extractor; anything still missing stays the Unknown
// sentinel so reports can count it.
func (s *service) ReportFoundItem(ctx context.Context, reporterID uuid.UUID, input ReportFoundItemInput) (*ItemDTO, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" && valueOrEmpty(input.Brand) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description or brand is required")
	}

	extracted := mapping.ExtractDisc(description)
	brand := firstNonEmpty(input.Brand, extracted.Brand)
	mold := firstNonEmpty(input.Mold, extracted.Mold)
	color := firstNonEmpty(input.Color, extracted.Color)

	if input.SourceLocationID != nil {
		if err := s.ensureSourceExists(ctx, *input.SourceLocationID); err != nil {
			return nil, err
		}
	}

	foundAt := input.FoundAt
	if foundAt == nil {
		now := time.Now().UTC()
		foundAt = &now
	}

	item := &models.FoundItem{
		Brand:              brand,
		Mold:               mold,
		Color:              color,
		Description:        trimOrNil(description),
		Condition:          trimPtrOrNil(input.Condition),
		Disposition:        enums.DispositionAvailable,
		LocationFound:      trimPtrOrNil(input.LocationFound),
		ReporterProfileID:  &reporterID,
		SourceLocationID:   input.SourceLocationID,
		EnteredByProfileID: &reporterID,
		FoundAt:            foundAt,
		ImageURLs:          dbtypes.StringArray(input.ImageURLs),
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create found item")
	}
	return FromModel(created), nil
}

// GetItem loads one item with the caller's visibility applied.
func (s *service) GetItem(ctx context.Context, id uuid.UUID, actor Actor) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := visibility.EnsureItemVisible(visibility.ItemVisibilityInput{
		Item:      item,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
	}); err != nil {
		return nil, err
	}

	return FromModel(visibility.MaskItem(item, actor.ID, actor.Role)), nil
}

// ListItems pages item summaries. Non-operator callers only ever see shelf
// dispositions regardless of the filter they pass.
func (s *service) ListItems(ctx context.Context, input ListItemsInput) (*ItemListResult, error) {
	dispositions := dispositionsForRole(input.Actor.Role)
	if input.Disposition != nil {
		if !input.Disposition.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid disposition filter")
		}
		// A filter outside the caller's allowed set stays clamped to that set.
		if len(dispositions) == 0 || containsDisposition(dispositions, *input.Disposition) {
			dispositions = []enums.ItemDisposition{*input.Disposition}
		}
	}

	result, err := s.store.ListItemSummaries(ctx, itemListQuery{
		Filters: ItemFilters{
			Dispositions:     dispositions,
			SourceLocationID: input.SourceLocationID,
			Brand:            input.Brand,
			Query:            input.Query,
		},
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return result, nil
}

// UpdateItem applies operator edits to a record.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SourceLocationID.Valid && input.SourceLocationID.Value != nil {
		if err := s.ensureSourceExists(ctx, *input.SourceLocationID.Value); err != nil {
			return nil, err
		}
	}

	if err := applyUpdateToItem(item, input); err != nil {
		return nil, err
	}

	updated, err := s.store.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update found item")
	}
	return FromModel(updated), nil
}

// TransitionDisposition moves an item between shelf and terminal states.
// Sales are excluded: recording a sale needs a payment and goes through the
// sale flow, which owns the sold transition.
func (s *service) TransitionDisposition(ctx context.Context, id uuid.UUID, input TransitionInput) (*ItemDTO, error) {
	if !input.Disposition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid disposition")
	}
	if input.Disposition == enums.DispositionSold {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sold is recorded through the sale flow")
	}

	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if item.Disposition == input.Disposition {
		return FromModel(item), nil
	}
	if item.Disposition.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item already left the shelf")
	}

	item.Disposition = input.Disposition
	if input.Disposition == enums.DispositionReturnedToOwner {
		now := time.Now().UTC()
		item.ReturnedAt = &now
		item.ReturnedByProfileID = input.ActorProfileID
		if name := trimPtrOrNil(input.ReturnedByName); name != nil {
			item.ReturnedByName = name
		}
		if name := trimPtrOrNil(input.OwnerName); name != nil {
			item.OwnerName = name
		}
		if phone := trimPtrOrNil(input.OwnerPhone); phone != nil {
			normalized, _ := mapping.NormalizePhone(*phone)
			if normalized == nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner phone must contain digits")
			}
			item.OwnerPhone = normalized
		}
	}

	updated, err := s.store.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: transition item")
	}
	return FromModel(updated), nil
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.FoundItem, error) {
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) ensureSourceExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.sources.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "source location does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source location")
	}
	return nil
}

func applyUpdateToItem(item *models.FoundItem, input UpdateItemInput) error {
	if input.Brand != nil {
		item.Brand = orUnknown(*input.Brand)
	}
	if input.Mold != nil {
		item.Mold = orUnknown(*input.Mold)
	}
	if input.Color != nil {
		item.Color = orUnknown(*input.Color)
	}
	if input.Description != nil {
		item.Description = trimPtrOrNil(input.Description)
	}
	if input.Condition != nil {
		item.Condition = trimPtrOrNil(input.Condition)
	}
	if input.LocationFound != nil {
		item.LocationFound = trimPtrOrNil(input.LocationFound)
	}
	if input.OwnerName != nil {
		item.OwnerName = trimPtrOrNil(input.OwnerName)
	}
	if input.OwnerPhone != nil {
		raw := strings.TrimSpace(*input.OwnerPhone)
		if raw == "" {
			item.OwnerPhone = nil
		} else {
			normalized, _ := mapping.NormalizePhone(raw)
			if normalized == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "owner phone must contain digits")
			}
			item.OwnerPhone = normalized
		}
	}
	if input.SourceLocationID.Valid {
		item.SourceLocationID = input.SourceLocationID.Value
	}
	if input.FoundAt != nil {
		item.FoundAt = input.FoundAt
	}
	if input.ImageURLs != nil {
		item.ImageURLs = dbtypes.StringArray(*input.ImageURLs)
	}
	return nil
}

// dispositionsForRole returns the dispositions a role may list. Empty means
// unrestricted.
func dispositionsForRole(role enums.ProfileRole) []enums.ItemDisposition {
	switch role {
	case enums.RoleOperator:
		return nil
	case enums.RoleCollector:
		return []enums.ItemDisposition{enums.DispositionAvailable, enums.DispositionAvailableForSale}
	default:
		return []enums.ItemDisposition{enums.DispositionAvailable}
	}
}

func containsDisposition(haystack []enums.ItemDisposition, needle enums.ItemDisposition) bool {
	for _, candidate := range haystack {
		if candidate == needle {
			return true
		}
	}
	return false
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func firstNonEmpty(explicit *string, fallback string) string {
	if explicit != nil {
		if trimmed := strings.TrimSpace(*explicit); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func orUnknown(value string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return mapping.Unknown
}

func trimOrNil(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimPtrOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	return trimOrNil(*value)
}
