package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	salesvc "github.com/discfound/discfound-backend/internal/sales"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
)

// AdminRecordSale sells an unclaimed item, capturing payment when a card
// source is supplied.
func AdminRecordSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
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

		var payload recordSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(operatorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.RecordSale(r.Context(), itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type recordSaleRequest struct {
	Price           decimal.Decimal `json:"price"`
	PaymentSourceID *string         `json:"payment_source_id,omitempty"`
	BuyerProfileID  *string         `json:"buyer_profile_id,omitempty"`
	Note            *string         `json:"note,omitempty" validate:"omitempty,max=240"`
}

func (r recordSaleRequest) toInput(operatorID uuid.UUID) (salesvc.RecordSaleInput, error) {
	input := salesvc.RecordSaleInput{
		Price:             r.Price,
		Note:              r.Note,
		OperatorProfileID: operatorID,
	}

	if r.PaymentSourceID != nil {
		input.PaymentSourceID = strings.TrimSpace(*r.PaymentSourceID)
	}

	if r.BuyerProfileID != nil && strings.TrimSpace(*r.BuyerProfileID) != "" {
		buyerID, err := uuid.Parse(strings.TrimSpace(*r.BuyerProfileID))
		if err != nil {
			return salesvc.RecordSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer profile id")
		}
		input.BuyerProfileID = &buyerID
	}

	return input, nil
}
