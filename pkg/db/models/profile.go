package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/types"
)

// Profile represents a canonical identity. The id is assigned by the auth
// platform when the account is created, never generated here.
type Profile struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Email       string            `gorm:"type:text;not null;uniqueIndex"`
	DisplayName *string           `gorm:"column:display_name"`
	Role        enums.ProfileRole `gorm:"column:role;type:profile_role_enum;not null;default:'member'"`
	PDGANumber  *string           `gorm:"column:pdga_number"`
	Social      types.Social      `gorm:"column:social;type:social_t"`
	Phone       *string           `gorm:"column:phone"`
	AvatarURL   *string           `gorm:"column:avatar_url"`
	LegacyRowID *string           `gorm:"column:legacy_row_id;uniqueIndex"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
