package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdentityCreatedEvent is the payload published by the auth platform when a
// new account finishes signup. This service consumes it; it never emits it.
type IdentityCreatedEvent struct {
	ProfileID   uuid.UUID `json:"profile_id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdentityLinkedEvent reports that a staged profile was folded into a
// canonical one.
type IdentityLinkedEvent struct {
	ProfileID       uuid.UUID `json:"profile_id"`
	StagedProfileID uuid.UUID `json:"staged_profile_id"`
	Email           string    `json:"email"`
	LegacyRowID     *string   `json:"legacy_row_id,omitempty"`
	ItemsRelinked   int       `json:"items_relinked"`
	LinkedAt        time.Time `json:"linked_at"`
}

// ImportEntityCount summarizes one entity pass inside an import run.
type ImportEntityCount struct {
	Entity  string `json:"entity"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Staged  int    `json:"staged"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// ImportCompletedEvent is emitted once per importer run.
type ImportCompletedEvent struct {
	ImportRunID uuid.UUID           `json:"import_run_id"`
	Source      string              `json:"source"`
	DryRun      bool                `json:"dry_run"`
	Entities    []ImportEntityCount `json:"entities"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at"`
}

// ItemSoldEvent is emitted when an unclaimed item is sold off the shelf.
type ItemSoldEvent struct {
	ItemID         uuid.UUID       `json:"item_id"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	PaymentRef     string          `json:"payment_ref"`
	BuyerProfileID *uuid.UUID      `json:"buyer_profile_id,omitempty"`
	SoldAt         time.Time       `json:"sold_at"`
}
