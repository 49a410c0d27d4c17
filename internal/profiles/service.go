package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/pkg/db/models"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/types"
)

// Service exposes profile self-management operations.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
}

// UpdateProfileInput holds optional mutation values for a profile. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	DisplayName *string
	PDGANumber  *string
	Social      *types.Social
	Phone       *string
	AvatarURL   *string
}

type profileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

type service struct {
	store profileStore
}

// NewService constructs a profile service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{store: repo}, nil
}

// GetProfile returns the caller's own profile.
func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}

// UpdateProfile applies the provided fields and persists the row. Phone input
// goes through the same normalizer the importer uses, so stored numbers stay
// in one shape regardless of where they came from.
func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if err := applyUpdateToProfile(profile, input); err != nil {
		return nil, err
	}

	updated, err := s.store.Save(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update profile")
	}
	return FromModel(updated), nil
}

func applyUpdateToProfile(profile *models.Profile, input UpdateProfileInput) error {
	if input.DisplayName != nil {
		trimmed := strings.TrimSpace(*input.DisplayName)
		if trimmed == "" {
			profile.DisplayName = nil
		} else {
			profile.DisplayName = &trimmed
		}
	}
	if input.PDGANumber != nil {
		trimmed := strings.TrimSpace(*input.PDGANumber)
		if trimmed == "" {
			profile.PDGANumber = nil
		} else {
			profile.PDGANumber = &trimmed
		}
	}
	if input.Social != nil {
		profile.Social = *input.Social
	}
	if input.AvatarURL != nil {
		trimmed := strings.TrimSpace(*input.AvatarURL)
		if trimmed == "" {
			profile.AvatarURL = nil
		} else {
			profile.AvatarURL = &trimmed
		}
	}
	if input.Phone != nil {
		raw := strings.TrimSpace(*input.Phone)
		if raw == "" {
			profile.Phone = nil
			return nil
		}
		normalized, _ := mapping.NormalizePhone(raw)
		if normalized == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "phone must contain digits")
		}
		profile.Phone = normalized
	}
	return nil
}

// NormalizeEmail lowers and trims an email address before any lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
