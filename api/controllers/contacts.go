package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	contactsvc "github.com/discfound/discfound-backend/internal/contacts"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
)

// AdminListContacts returns the outreach history for an item, newest first.
func AdminListContacts(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		attempts, err := svc.ListAttempts(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, attempts)
	}
}

// AdminRecordContact logs a manual outreach attempt against an item.
func AdminRecordContact(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
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

		var payload recordContactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseContactMethod(strings.TrimSpace(payload.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact method"))
			return
		}

		attempt, err := svc.RecordAttempt(r.Context(), contactsvc.RecordAttemptInput{
			FoundItemID:          itemID,
			Method:               method,
			Message:              payload.Message,
			Response:             payload.Response,
			AttemptedAt:          payload.AttemptedAt,
			AttemptedByProfileID: &operatorID,
			AttemptedByName:      payload.AttemptedByName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, attempt)
	}
}

type recordContactRequest struct {
	Method          string     `json:"method" validate:"required"`
	Message         *string    `json:"message,omitempty" validate:"omitempty,max=960"`
	Response        *string    `json:"response,omitempty" validate:"omitempty,max=960"`
	AttemptedAt     *time.Time `json:"attempted_at,omitempty"`
	AttemptedByName *string    `json:"attempted_by_name,omitempty" validate:"omitempty,max=160"`
}
