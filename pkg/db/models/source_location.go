package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceLocation is a place items are turned in from, e.g. a course pro shop
// or a lost-and-found bin.
type SourceLocation struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string    `gorm:"type:text;not null"`
	Active              bool      `gorm:"column:active;not null;default:true"`
	SortOrder           int       `gorm:"column:sort_order;not null;default:0"`
	SMSInitialTemplate  *string   `gorm:"column:sms_initial_template"`
	SMSReminderTemplate *string   `gorm:"column:sms_reminder_template"`
	LegacyRowID         *string   `gorm:"column:legacy_row_id;uniqueIndex"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
