package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	sourcesvc "github.com/discfound/discfound-backend/internal/sources"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
)

// AdminCreateSource registers a new drop-off location.
func AdminCreateSource(svc sourcesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "source service unavailable"))
			return
		}

		var payload createSourceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := svc.CreateSource(r.Context(), sourcesvc.CreateSourceInput{
			Name:                strings.TrimSpace(payload.Name),
			SortOrder:           payload.SortOrder,
			SMSInitialTemplate:  payload.SMSInitialTemplate,
			SMSReminderTemplate: payload.SMSReminderTemplate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, source)
	}
}

// AdminListSources returns all source locations, inactive ones included on
// request.
func AdminListSources(svc sourcesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "source service unavailable"))
			return
		}

		includeInactive := strings.EqualFold(r.URL.Query().Get("include_inactive"), "true")

		sources, err := svc.ListSources(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sources)
	}
}

// AdminGetSource returns a single source location.
func AdminGetSource(svc sourcesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "source service unavailable"))
			return
		}

		sourceID, err := parseSourceID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := svc.GetSource(r.Context(), sourceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, source)
	}
}

// AdminUpdateSource applies partial edits to a source location.
func AdminUpdateSource(svc sourcesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "source service unavailable"))
			return
		}

		sourceID, err := parseSourceID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSourceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		source, err := svc.UpdateSource(r.Context(), sourceID, sourcesvc.UpdateSourceInput{
			Name:                payload.Name,
			Active:              payload.Active,
			SortOrder:           payload.SortOrder,
			SMSInitialTemplate:  payload.SMSInitialTemplate,
			SMSReminderTemplate: payload.SMSReminderTemplate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, source)
	}
}

type createSourceRequest struct {
	Name                string  `json:"name" validate:"required,min=1,max=160"`
	SortOrder           int     `json:"sort_order" validate:"omitempty,min=0"`
	SMSInitialTemplate  *string `json:"sms_initial_template,omitempty" validate:"omitempty,max=480"`
	SMSReminderTemplate *string `json:"sms_reminder_template,omitempty" validate:"omitempty,max=480"`
}

type updateSourceRequest struct {
	Name                *string `json:"name,omitempty" validate:"omitempty,min=1,max=160"`
	Active              *bool   `json:"active,omitempty"`
	SortOrder           *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	SMSInitialTemplate  *string `json:"sms_initial_template,omitempty" validate:"omitempty,max=480"`
	SMSReminderTemplate *string `json:"sms_reminder_template,omitempty" validate:"omitempty,max=480"`
}

func parseSourceID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "sourceId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "source id is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source id")
	}
	return parsed, nil
}
