package claims

import (
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/internal/contacts"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
)

// ClaimLinkDTO is returned when an operator mints a claim link. The pickup
// code appears here once; only its hash is persisted.
type ClaimLinkDTO struct {
	ItemID     uuid.UUID                   `json:"item_id"`
	Token      string                      `json:"token"`
	ClaimURL   string                      `json:"claim_url"`
	PickupCode string                      `json:"pickup_code"`
	Message    string                      `json:"message"`
	ExpiresAt  time.Time                   `json:"expires_at"`
	Attempt    *contacts.ContactAttemptDTO `json:"attempt,omitempty"`
}

// PublicItemDTO is the unauthenticated claim-page view of an item. No owner
// contact data and no reporter identity ever appear here.
type PublicItemDTO struct {
	ID            uuid.UUID             `json:"id"`
	Brand         string                `json:"brand"`
	Mold          string                `json:"mold"`
	Color         string                `json:"color"`
	Description   *string               `json:"description,omitempty"`
	Condition     *string               `json:"condition,omitempty"`
	Disposition   enums.ItemDisposition `json:"disposition"`
	LocationFound *string               `json:"location_found,omitempty"`
	SourceName    *string               `json:"source_name,omitempty"`
	FoundAt       *time.Time            `json:"found_at,omitempty"`
	ImageURLs     []string              `json:"image_urls"`
}

func publicItemFromModel(item *models.FoundItem, sourceName *string) *PublicItemDTO {
	if item == nil {
		return nil
	}
	return &PublicItemDTO{
		ID:            item.ID,
		Brand:         item.Brand,
		Mold:          item.Mold,
		Color:         item.Color,
		Description:   item.Description,
		Condition:     item.Condition,
		Disposition:   item.Disposition,
		LocationFound: item.LocationFound,
		SourceName:    sourceName,
		FoundAt:       item.FoundAt,
		ImageURLs:     item.ImageURLs,
	}
}
