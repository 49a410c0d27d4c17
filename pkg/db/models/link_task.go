package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/enums"
)

// LinkTask is a deferred staged-profile migration. One is enqueued when the
// identity-created handler had to fall back to a direct signup, and the cron
// sweep retries it until the staged data is folded in.
type LinkTask struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string               `gorm:"type:text;not null;index"`
	ProfileID uuid.UUID            `gorm:"column:profile_id;type:uuid;not null"`
	Status    enums.LinkTaskStatus `gorm:"column:status;type:link_task_status_enum;not null;default:'pending'"`
	Attempts  int                  `gorm:"column:attempts;not null;default:0"`
	LastError *string              `gorm:"column:last_error"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
