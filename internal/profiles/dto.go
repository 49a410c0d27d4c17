package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/types"
)

// ProfileDTO is the transport shape for a canonical profile.
type ProfileDTO struct {
	ID          uuid.UUID    `json:"id"`
	Email       string       `json:"email"`
	DisplayName *string      `json:"display_name,omitempty"`
	Role        string       `json:"role"`
	PDGANumber  *string      `json:"pdga_number,omitempty"`
	Social      types.Social `json:"social"`
	Phone       *string      `json:"phone,omitempty"`
	AvatarURL   *string      `json:"avatar_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// FromModel maps a persisted profile to its DTO.
func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        string(p.Role),
		PDGANumber:  p.PDGANumber,
		Social:      p.Social,
		Phone:       p.Phone,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
