package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	claimsvc "github.com/discfound/discfound-backend/internal/claims"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
)

// PublicClaimLookup resolves a claim-link token to a masked item summary so
// the presumed owner can confirm the disc before coming in.
func PublicClaimLookup(svc claimsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claim service unavailable"))
			return
		}

		token := strings.TrimSpace(chi.URLParam(r, "token"))
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "claim token is required"))
			return
		}

		item, err := svc.LookupToken(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// AdminMintClaimLink issues a claim link and pickup code for an item and logs
// the outreach attempt.
func AdminMintClaimLink(svc claimsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claim service unavailable"))
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

		var payload mintClaimLinkRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.MintClaimLink(r.Context(), itemID, claimsvc.MintClaimLinkInput{
			OperatorProfileID: operatorID,
			OperatorName:      payload.OperatorName,
			OwnerName:         payload.OwnerName,
			OwnerPhone:        payload.OwnerPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// AdminRedeemClaim verifies a pickup code at the counter and hands the item
// back to its owner.
func AdminRedeemClaim(svc claimsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claim service unavailable"))
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

		var payload redeemClaimRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Redeem(r.Context(), itemID, claimsvc.RedeemInput{
			Code:              payload.Code,
			OperatorProfileID: operatorID,
			ReturnedByName:    payload.ReturnedByName,
			OwnerName:         payload.OwnerName,
			OwnerPhone:        payload.OwnerPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type mintClaimLinkRequest struct {
	OperatorName *string `json:"operator_name,omitempty" validate:"omitempty,max=160"`
	OwnerName    *string `json:"owner_name,omitempty" validate:"omitempty,max=160"`
	OwnerPhone   *string `json:"owner_phone,omitempty" validate:"omitempty,max=32"`
}

type redeemClaimRequest struct {
	Code           string  `json:"code" validate:"required"`
	ReturnedByName *string `json:"returned_by_name,omitempty" validate:"omitempty,max=160"`
	OwnerName      *string `json:"owner_name,omitempty" validate:"omitempty,max=160"`
	OwnerPhone     *string `json:"owner_phone,omitempty" validate:"omitempty,max=32"`
}
