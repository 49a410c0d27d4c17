package enums

import "fmt"

// AnalyticsEventType is the canonical event_type for ops analytics rows.
type AnalyticsEventType string

const (
	AnalyticsEventIdentityLinked  AnalyticsEventType = "identity_linked"
	AnalyticsEventImportCompleted AnalyticsEventType = "import_completed"
	AnalyticsEventItemSold        AnalyticsEventType = "item_sold"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventIdentityLinked,
	AnalyticsEventImportCompleted,
	AnalyticsEventItemSold,
}

// IsValid reports whether the value matches the canonical analytics event_type enum.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts the raw string to AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
