package mapping

import (
	"strings"
	"time"
)

// legacyDateLayouts covers the formats observed in exported legacy data.
// Date-only layouts come first; layouts with time suffixes follow.
var legacyDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05",
	"Jan 2, 2006 3:04 PM",
}

// ParseLegacyDate attempts the known loose formats in order and returns the
// first hit in UTC. Unparseable input returns nil so callers can record the
// rejected raw value; the function never panics.
func ParseLegacyDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for _, layout := range legacyDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
