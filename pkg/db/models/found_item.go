package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/discfound/discfound-backend/pkg/db/types"
	"github.com/discfound/discfound-backend/pkg/enums"
)

// FoundItem is a disc (or bag, towel, ...) turned in to a source location.
//
// Reporter, entered-by and returned-by references are kept both as profile
// ids and as free-text name fallbacks: legacy rows often carry only a name,
// and the profile link is filled in later when that person signs up.
type FoundItem struct {
	ID                  uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Brand               string                `gorm:"type:text;not null"`
	Mold                string                `gorm:"type:text;not null"`
	Color               string                `gorm:"type:text;not null"`
	Description         *string               `gorm:"column:description"`
	Condition           *string               `gorm:"column:condition"`
	Disposition         enums.ItemDisposition `gorm:"column:disposition;type:item_disposition_enum;not null;default:'available'"`
	LocationFound       *string               `gorm:"column:location_found"`
	OwnerName           *string               `gorm:"column:owner_name"`
	OwnerPhone          *string               `gorm:"column:owner_phone"`
	OwnerProfileID      *uuid.UUID            `gorm:"column:owner_profile_id;type:uuid;index"`
	ReporterProfileID   *uuid.UUID            `gorm:"column:reporter_profile_id;type:uuid;index"`
	SourceLocationID    *uuid.UUID            `gorm:"column:source_location_id;type:uuid;index"`
	LegacySourceRef     *string               `gorm:"column:legacy_source_ref"`
	EnteredByProfileID  *uuid.UUID            `gorm:"column:entered_by_profile_id;type:uuid"`
	EnteredByName       *string               `gorm:"column:entered_by_name"`
	ReturnedByProfileID *uuid.UUID            `gorm:"column:returned_by_profile_id;type:uuid"`
	ReturnedByName      *string               `gorm:"column:returned_by_name"`
	FoundAt             *time.Time            `gorm:"column:found_at"`
	ReturnedAt          *time.Time            `gorm:"column:returned_at"`
	ImageURLs           dbtypes.StringArray   `gorm:"column:image_urls;type:text[]"`
	SalePrice           *decimal.Decimal      `gorm:"column:sale_price;type:numeric(10,2)"`
	SalePaymentRef      *string               `gorm:"column:sale_payment_ref"`
	ClaimCodeHash       *string               `gorm:"column:claim_code_hash"`
	LegacyRowID         *string               `gorm:"column:legacy_row_id;uniqueIndex"`
	CreatedAt           time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
