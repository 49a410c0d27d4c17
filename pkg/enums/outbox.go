package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateProfile   OutboxAggregateType = "profile"
	AggregateFoundItem OutboxAggregateType = "found_item"
	AggregateImportRun OutboxAggregateType = "import_run"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateProfile,
	AggregateFoundItem,
	AggregateImportRun,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
// identity_created originates from the auth platform rather than this
// service's outbox, but shares the envelope vocabulary.
type OutboxEventType string

const (
	EventIdentityCreated OutboxEventType = "identity_created"
	EventIdentityLinked  OutboxEventType = "identity_linked"
	EventImportCompleted OutboxEventType = "import_completed"
	EventItemSold        OutboxEventType = "item_sold"
)

var validOutboxEventTypes = []OutboxEventType{
	EventIdentityCreated,
	EventIdentityLinked,
	EventImportCompleted,
	EventItemSold,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
