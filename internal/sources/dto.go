package sources

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/db/models"
)

// SourceLocationDTO is the transport shape for a source location.
type SourceLocationDTO struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Active              bool      `json:"active"`
	SortOrder           int       `json:"sort_order"`
	SMSInitialTemplate  *string   `json:"sms_initial_template,omitempty"`
	SMSReminderTemplate *string   `json:"sms_reminder_template,omitempty"`
	LegacyRowID         *string   `json:"legacy_row_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// FromModel maps a persisted source location to its DTO.
func FromModel(s *models.SourceLocation) *SourceLocationDTO {
	if s == nil {
		return nil
	}
	return &SourceLocationDTO{
		ID:                  s.ID,
		Name:                s.Name,
		Active:              s.Active,
		SortOrder:           s.SortOrder,
		SMSInitialTemplate:  s.SMSInitialTemplate,
		SMSReminderTemplate: s.SMSReminderTemplate,
		LegacyRowID:         s.LegacyRowID,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// FromModels maps a slice of source locations preserving order.
func FromModels(rows []models.SourceLocation) []SourceLocationDTO {
	out := make([]SourceLocationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
