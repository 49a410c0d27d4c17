package router

import (
	"context"
	"fmt"

	"github.com/discfound/discfound-backend/internal/analytics/types"
	analyticswriter "github.com/discfound/discfound-backend/internal/analytics/writer"
	"github.com/discfound/discfound-backend/pkg/logger"
	outboxpayloads "github.com/discfound/discfound-backend/pkg/outbox/payloads"
)

type identityLinkedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newIdentityLinkedHandler(writer Writer, logg *logger.Logger) Handler {
	return &identityLinkedHandler{writer: writer, logg: logg}
}

func (h *identityLinkedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.IdentityLinkedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for identity_linked")
	}

	fields := map[string]any{
		"event_type":        envelope.EventType,
		"profile_id":        event.ProfileID,
		"staged_profile_id": event.StagedProfileID,
		"items_relinked":    event.ItemsRelinked,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildIdentityLinkedRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build ops row", err)
		return err
	}

	if err := h.writer.InsertOpsEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert ops row", err)
		return err
	}

	h.logg.Info(logCtx, "identity_linked handler inserted ops row")
	return nil
}

func buildIdentityLinkedRow(envelope types.Envelope, event *outboxpayloads.IdentityLinkedEvent) (types.OpsEventRow, error) {
	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		return types.OpsEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	return types.OpsEventRow{
		EventID:         envelope.EventID,
		EventType:       string(envelope.EventType),
		AggregateType:   string(envelope.AggregateType),
		AggregateID:     envelope.AggregateID,
		OccurredAt:      envelope.OccurredAt,
		ProfileID:       stringPtr(event.ProfileID.String()),
		StagedProfileID: stringPtr(event.StagedProfileID.String()),
		LegacyRowID:     event.LegacyRowID,
		ItemsRelinked:   int64Ptr(int64(event.ItemsRelinked)),
		Payload:         payloadJSON,
	}, nil
}
