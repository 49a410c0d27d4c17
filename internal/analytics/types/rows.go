package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// OpsEventRow mirrors the ops_events BigQuery schema. Every outbox event
// lands in the same table; columns that do not apply to an event type stay
// NULL so dashboards can filter on event_type alone.
type OpsEventRow struct {
	EventID       string    `bigquery:"event_id"`
	EventType     string    `bigquery:"event_type"`
	AggregateType string    `bigquery:"aggregate_type"`
	AggregateID   string    `bigquery:"aggregate_id"`
	OccurredAt    time.Time `bigquery:"occurred_at"`

	ProfileID       *string `bigquery:"profile_id"`
	StagedProfileID *string `bigquery:"staged_profile_id"`
	LegacyRowID     *string `bigquery:"legacy_row_id"`
	ItemsRelinked   *int64  `bigquery:"items_relinked"`

	ImportRunID  *string `bigquery:"import_run_id"`
	ImportSource *string `bigquery:"import_source"`
	DryRun       *bool   `bigquery:"dry_run"`
	RowsCreated  *int64  `bigquery:"rows_created"`
	RowsUpdated  *int64  `bigquery:"rows_updated"`
	RowsStaged   *int64  `bigquery:"rows_staged"`
	RowsSkipped  *int64  `bigquery:"rows_skipped"`
	RowsFailed   *int64  `bigquery:"rows_failed"`
	DurationMs   *int64  `bigquery:"duration_ms"`

	ItemID         *string `bigquery:"item_id"`
	SalePriceCents *int64  `bigquery:"sale_price_cents"`
	PaymentRef     *string `bigquery:"payment_ref"`
	BuyerProfileID *string `bigquery:"buyer_profile_id"`

	Payload cbigquery.NullJSON `bigquery:"payload"`
}
