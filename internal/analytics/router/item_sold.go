package router

import (
	"context"
	"fmt"

	"github.com/discfound/discfound-backend/internal/analytics/types"
	analyticswriter "github.com/discfound/discfound-backend/internal/analytics/writer"
	"github.com/discfound/discfound-backend/pkg/logger"
	outboxpayloads "github.com/discfound/discfound-backend/pkg/outbox/payloads"
)

type itemSoldHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newItemSoldHandler(writer Writer, logg *logger.Logger) Handler {
	return &itemSoldHandler{writer: writer, logg: logg}
}

func (h *itemSoldHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.ItemSoldEvent)
	if !ok {
		return fmt.Errorf("invalid payload for item_sold")
	}

	fields := map[string]any{
		"event_type":  envelope.EventType,
		"item_id":     event.ItemID,
		"sale_price":  event.SalePrice,
		"payment_ref": event.PaymentRef,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildItemSoldRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build ops row", err)
		return err
	}

	if err := h.writer.InsertOpsEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert ops row", err)
		return err
	}

	h.logg.Info(logCtx, "item_sold handler inserted ops row")
	return nil
}

func buildItemSoldRow(envelope types.Envelope, event *outboxpayloads.ItemSoldEvent) (types.OpsEventRow, error) {
	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		return types.OpsEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	var buyerID *string
	if event.BuyerProfileID != nil {
		buyerID = stringPtr(event.BuyerProfileID.String())
	}

	return types.OpsEventRow{
		EventID:        envelope.EventID,
		EventType:      string(envelope.EventType),
		AggregateType:  string(envelope.AggregateType),
		AggregateID:    envelope.AggregateID,
		OccurredAt:     envelope.OccurredAt,
		ItemID:         stringPtr(event.ItemID.String()),
		SalePriceCents: int64Ptr(event.SalePrice.Shift(2).IntPart()),
		PaymentRef:     stringPtr(event.PaymentRef),
		BuyerProfileID: buyerID,
		Payload:        payloadJSON,
	}, nil
}
