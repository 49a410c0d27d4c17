package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/discfound/discfound-backend/pkg/db/models"
	dbtypes "github.com/discfound/discfound-backend/pkg/db/types"
	"github.com/discfound/discfound-backend/pkg/enums"
)

// ItemDTO is the full transport shape for a found item. Owner contact fields
// are already masked by the service for non-operator callers.
type ItemDTO struct {
	ID                  uuid.UUID             `json:"id"`
	Brand               string                `json:"brand"`
	Mold                string                `json:"mold"`
	Color               string                `json:"color"`
	Description         *string               `json:"description,omitempty"`
	Condition           *string               `json:"condition,omitempty"`
	Disposition         enums.ItemDisposition `json:"disposition"`
	LocationFound       *string               `json:"location_found,omitempty"`
	OwnerName           *string               `json:"owner_name,omitempty"`
	OwnerPhone          *string               `json:"owner_phone,omitempty"`
	OwnerProfileID      *uuid.UUID            `json:"owner_profile_id,omitempty"`
	ReporterProfileID   *uuid.UUID            `json:"reporter_profile_id,omitempty"`
	SourceLocationID    *uuid.UUID            `json:"source_location_id,omitempty"`
	EnteredByProfileID  *uuid.UUID            `json:"entered_by_profile_id,omitempty"`
	EnteredByName       *string               `json:"entered_by_name,omitempty"`
	ReturnedByProfileID *uuid.UUID            `json:"returned_by_profile_id,omitempty"`
	ReturnedByName      *string               `json:"returned_by_name,omitempty"`
	FoundAt             *time.Time            `json:"found_at,omitempty"`
	ReturnedAt          *time.Time            `json:"returned_at,omitempty"`
	ImageURLs           []string              `json:"image_urls"`
	SalePrice           *decimal.Decimal      `json:"sale_price,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// ItemSummary is the lighter listing shape.
type ItemSummary struct {
	ID               uuid.UUID             `json:"id"`
	Brand            string                `json:"brand"`
	Mold             string                `json:"mold"`
	Color            string                `json:"color"`
	Condition        *string               `json:"condition,omitempty"`
	Disposition      enums.ItemDisposition `json:"disposition"`
	LocationFound    *string               `json:"location_found,omitempty"`
	SourceLocationID *uuid.UUID            `json:"source_location_id,omitempty"`
	SourceName       *string               `json:"source_name,omitempty"`
	FoundAt          *time.Time            `json:"found_at,omitempty"`
	ImageURLs        dbtypes.StringArray   `json:"image_urls"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// FromModel maps a persisted item to its DTO.
func FromModel(item *models.FoundItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:                  item.ID,
		Brand:               item.Brand,
		Mold:                item.Mold,
		Color:               item.Color,
		Description:         item.Description,
		Condition:           item.Condition,
		Disposition:         item.Disposition,
		LocationFound:       item.LocationFound,
		OwnerName:           item.OwnerName,
		OwnerPhone:          item.OwnerPhone,
		OwnerProfileID:      item.OwnerProfileID,
		ReporterProfileID:   item.ReporterProfileID,
		SourceLocationID:    item.SourceLocationID,
		EnteredByProfileID:  item.EnteredByProfileID,
		EnteredByName:       item.EnteredByName,
		ReturnedByProfileID: item.ReturnedByProfileID,
		ReturnedByName:      item.ReturnedByName,
		FoundAt:             item.FoundAt,
		ReturnedAt:          item.ReturnedAt,
		ImageURLs:           item.ImageURLs,
		SalePrice:           item.SalePrice,
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
	}
}
