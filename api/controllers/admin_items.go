package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	itemsvc "github.com/discfound/discfound-backend/internal/items"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/types"
)

// AdminUpdateItem applies operator edits to a found item's descriptive fields.
func AdminUpdateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), itemID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// AdminTransitionItem moves an item to a new disposition. Sales go through
// the dedicated sale endpoint instead.
func AdminTransitionItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		operatorID, err := parseProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		disposition, err := enums.ParseItemDisposition(strings.TrimSpace(payload.Disposition))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid disposition"))
			return
		}

		item, err := svc.TransitionDisposition(r.Context(), itemID, itemsvc.TransitionInput{
			Disposition:    disposition,
			ActorProfileID: &operatorID,
			ReturnedByName: payload.ReturnedByName,
			OwnerName:      payload.OwnerName,
			OwnerPhone:     payload.OwnerPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type updateItemRequest struct {
	Brand            *string            `json:"brand,omitempty" validate:"omitempty,max=120"`
	Mold             *string            `json:"mold,omitempty" validate:"omitempty,max=120"`
	Color            *string            `json:"color,omitempty" validate:"omitempty,max=80"`
	Description      *string            `json:"description,omitempty"`
	Condition        *string            `json:"condition,omitempty" validate:"omitempty,max=80"`
	LocationFound    *string            `json:"location_found,omitempty" validate:"omitempty,max=240"`
	OwnerName        *string            `json:"owner_name,omitempty" validate:"omitempty,max=160"`
	OwnerPhone       *string            `json:"owner_phone,omitempty" validate:"omitempty,max=32"`
	SourceLocationID types.NullableUUID `json:"source_location_id,omitempty"`
	FoundAt          *time.Time         `json:"found_at,omitempty"`
	ImageURLs        *[]string          `json:"image_urls,omitempty"`
}

func (r updateItemRequest) toInput() itemsvc.UpdateItemInput {
	return itemsvc.UpdateItemInput{
		Brand:            r.Brand,
		Mold:             r.Mold,
		Color:            r.Color,
		Description:      r.Description,
		Condition:        r.Condition,
		LocationFound:    r.LocationFound,
		OwnerName:        r.OwnerName,
		OwnerPhone:       r.OwnerPhone,
		SourceLocationID: r.SourceLocationID,
		FoundAt:          r.FoundAt,
		ImageURLs:        r.ImageURLs,
	}
}

type transitionItemRequest struct {
	Disposition    string  `json:"disposition" validate:"required"`
	ReturnedByName *string `json:"returned_by_name,omitempty" validate:"omitempty,max=160"`
	OwnerName      *string `json:"owner_name,omitempty" validate:"omitempty,max=160"`
	OwnerPhone     *string `json:"owner_phone,omitempty" validate:"omitempty,max=32"`
}
