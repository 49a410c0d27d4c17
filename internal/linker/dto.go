package linker

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
)

// LinkTaskDTO is the admin-facing view of one queued link retry.
type LinkTaskDTO struct {
	ID        uuid.UUID            `json:"id"`
	Email     string               `json:"email"`
	ProfileID uuid.UUID            `json:"profile_id"`
	Status    enums.LinkTaskStatus `json:"status"`
	Attempts  int                  `json:"attempts"`
	LastError *string              `json:"last_error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// FromModel converts a link task model into its DTO.
func FromModel(task *models.LinkTask) *LinkTaskDTO {
	if task == nil {
		return nil
	}
	return &LinkTaskDTO{
		ID:        task.ID,
		Email:     task.Email,
		ProfileID: task.ProfileID,
		Status:    task.Status,
		Attempts:  task.Attempts,
		LastError: task.LastError,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// FromModels converts a slice of link tasks.
func FromModels(tasks []models.LinkTask) []LinkTaskDTO {
	dtos := make([]LinkTaskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, *FromModel(&tasks[i]))
	}
	return dtos
}
