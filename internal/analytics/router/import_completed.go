package router

import (
	"context"
	"fmt"

	"github.com/discfound/discfound-backend/internal/analytics/types"
	analyticswriter "github.com/discfound/discfound-backend/internal/analytics/writer"
	"github.com/discfound/discfound-backend/pkg/logger"
	outboxpayloads "github.com/discfound/discfound-backend/pkg/outbox/payloads"
)

type importCompletedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newImportCompletedHandler(writer Writer, logg *logger.Logger) Handler {
	return &importCompletedHandler{writer: writer, logg: logg}
}

func (h *importCompletedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.ImportCompletedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for import_completed")
	}

	fields := map[string]any{
		"event_type":    envelope.EventType,
		"import_run_id": event.ImportRunID,
		"source":        event.Source,
		"dry_run":       event.DryRun,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildImportCompletedRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build ops row", err)
		return err
	}

	if err := h.writer.InsertOpsEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert ops row", err)
		return err
	}

	h.logg.Info(logCtx, "import_completed handler inserted ops row")
	return nil
}

func buildImportCompletedRow(envelope types.Envelope, event *outboxpayloads.ImportCompletedEvent) (types.OpsEventRow, error) {
	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		return types.OpsEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	var created, updated, staged, skipped, failed int64
	for _, entity := range event.Entities {
		created += int64(entity.Created)
		updated += int64(entity.Updated)
		staged += int64(entity.Staged)
		skipped += int64(entity.Skipped)
		failed += int64(entity.Failed)
	}

	var durationMs *int64
	if !event.StartedAt.IsZero() && !event.CompletedAt.IsZero() {
		durationMs = int64Ptr(event.CompletedAt.Sub(event.StartedAt).Milliseconds())
	}

	return types.OpsEventRow{
		EventID:       envelope.EventID,
		EventType:     string(envelope.EventType),
		AggregateType: string(envelope.AggregateType),
		AggregateID:   envelope.AggregateID,
		OccurredAt:    envelope.OccurredAt,
		ImportRunID:   stringPtr(event.ImportRunID.String()),
		ImportSource:  stringPtr(event.Source),
		DryRun:        boolPtr(event.DryRun),
		RowsCreated:   int64Ptr(created),
		RowsUpdated:   int64Ptr(updated),
		RowsStaged:    int64Ptr(staged),
		RowsSkipped:   int64Ptr(skipped),
		RowsFailed:    int64Ptr(failed),
		DurationMs:    durationMs,
		Payload:       payloadJSON,
	}, nil
}
