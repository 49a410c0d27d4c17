package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/enums"
)

// ContactAttempt records one outreach to an item's presumed owner. Rows are
// append-only.
//
// ImportDigest is set only on rows synthesized from legacy imports; the
// unique index on it is what makes re-imports idempotent.
type ContactAttempt struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FoundItemID          uuid.UUID           `gorm:"column:found_item_id;type:uuid;not null;index"`
	Method               enums.ContactMethod `gorm:"column:method;type:contact_method_enum;not null"`
	Message              *string             `gorm:"column:message"`
	Response             *string             `gorm:"column:response"`
	AttemptedAt          time.Time           `gorm:"column:attempted_at;not null"`
	AttemptedByProfileID *uuid.UUID          `gorm:"column:attempted_by_profile_id;type:uuid"`
	AttemptedByName      *string             `gorm:"column:attempted_by_name"`
	ImportDigest         *string             `gorm:"column:import_digest;uniqueIndex"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
}
