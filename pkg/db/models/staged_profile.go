package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/types"
)

// StagedProfile holds an imported legacy identity that has no auth account
// yet. Rows are migrated into profiles and deleted when the owner signs up.
type StagedProfile struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string            `gorm:"type:text;not null;uniqueIndex"`
	DisplayName     *string           `gorm:"column:display_name"`
	Role            enums.ProfileRole `gorm:"column:role;type:profile_role_enum;not null;default:'visitor'"`
	PDGANumber      *string           `gorm:"column:pdga_number"`
	Social          types.Social      `gorm:"column:social;type:social_t"`
	Phone           *string           `gorm:"column:phone"`
	AvatarURL       *string           `gorm:"column:avatar_url"`
	LegacyRowID     *string           `gorm:"column:legacy_row_id;uniqueIndex"`
	NeedsActivation bool              `gorm:"column:needs_activation;not null;default:true"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
