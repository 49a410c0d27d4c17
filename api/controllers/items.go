package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/api/middleware"
	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	itemsvc "github.com/discfound/discfound-backend/internal/items"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/pagination"
)

// ReportItem handles member submissions of found discs.
func ReportItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		reporterID, err := parseProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reportItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.ReportFoundItem(r.Context(), reporterID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ListItems returns a filtered page of found items scoped by the caller's role.
func ListItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := itemsvc.ListItemsInput{
			Actor: actor,
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("disposition")); raw != "" {
			disposition, err := enums.ParseItemDisposition(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid disposition"))
				return
			}
			input.Disposition = &disposition
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("source_location_id")); raw != "" {
			sourceID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source location id"))
				return
			}
			input.SourceLocationID = &sourceID
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("brand")); raw != "" {
			input.Brand = &raw
		}

		list, err := svc.ListItems(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GetItem returns one item. Visibility of owner fields depends on the actor.
func GetItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), itemID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type reportItemRequest struct {
	Description      string     `json:"description" validate:"required"`
	Brand            *string    `json:"brand,omitempty"`
	Mold             *string    `json:"mold,omitempty"`
	Color            *string    `json:"color,omitempty"`
	Condition        *string    `json:"condition,omitempty"`
	LocationFound    *string    `json:"location_found,omitempty"`
	SourceLocationID *string    `json:"source_location_id,omitempty"`
	FoundAt          *time.Time `json:"found_at,omitempty"`
	ImageURLs        []string   `json:"image_urls,omitempty"`
}

func (r reportItemRequest) toInput() (itemsvc.ReportFoundItemInput, error) {
	input := itemsvc.ReportFoundItemInput{
		Description:   strings.TrimSpace(r.Description),
		Brand:         r.Brand,
		Mold:          r.Mold,
		Color:         r.Color,
		Condition:     r.Condition,
		LocationFound: r.LocationFound,
		FoundAt:       r.FoundAt,
		ImageURLs:     r.ImageURLs,
	}

	if r.SourceLocationID != nil && strings.TrimSpace(*r.SourceLocationID) != "" {
		sourceID, err := uuid.Parse(strings.TrimSpace(*r.SourceLocationID))
		if err != nil {
			return itemsvc.ReportFoundItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source location id")
		}
		input.SourceLocationID = &sourceID
	}

	return input, nil
}

func parseProfileID(r *http.Request) (uuid.UUID, error) {
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	parsed, err := uuid.Parse(profileID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid profile id")
	}
	return parsed, nil
}

func actorFromRequest(r *http.Request) (itemsvc.Actor, error) {
	profileID, err := parseProfileID(r)
	if err != nil {
		return itemsvc.Actor{}, err
	}
	return itemsvc.Actor{ID: &profileID, Role: middleware.RoleFromContext(r.Context())}, nil
}

func parseItemID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
	}
	return parsed, nil
}
