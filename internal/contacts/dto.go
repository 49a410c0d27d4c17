package contacts

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
)

// ContactAttemptDTO is the transport shape for one outreach record.
type ContactAttemptDTO struct {
	ID                   uuid.UUID           `json:"id"`
	FoundItemID          uuid.UUID           `json:"found_item_id"`
	Method               enums.ContactMethod `json:"method"`
	Message              *string             `json:"message,omitempty"`
	Response             *string             `json:"response,omitempty"`
	AttemptedAt          time.Time           `json:"attempted_at"`
	AttemptedByProfileID *uuid.UUID          `json:"attempted_by_profile_id,omitempty"`
	AttemptedByName      *string             `json:"attempted_by_name,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
}

// FromModel maps a persisted attempt to its DTO.
func FromModel(a *models.ContactAttempt) *ContactAttemptDTO {
	if a == nil {
		return nil
	}
	return &ContactAttemptDTO{
		ID:                   a.ID,
		FoundItemID:          a.FoundItemID,
		Method:               a.Method,
		Message:              a.Message,
		Response:             a.Response,
		AttemptedAt:          a.AttemptedAt,
		AttemptedByProfileID: a.AttemptedByProfileID,
		AttemptedByName:      a.AttemptedByName,
		CreatedAt:            a.CreatedAt,
	}
}

// FromModels maps a slice of attempts preserving order.
func FromModels(rows []models.ContactAttempt) []ContactAttemptDTO {
	out := make([]ContactAttemptDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
