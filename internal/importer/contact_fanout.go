package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
)

// fanOutContactAttempts expands one found-item export row into zero to four
// contact attempts: free-text notes, the initial SMS, the last SMS, and the
// owner's claim response. Each carries a digest so re-running the import
// skips rows it already wrote.
func fanOutContactAttempts(record *ItemRecord, itemID uuid.UUID, fallback time.Time) []models.ContactAttempt {
	var attempts []models.ContactAttempt

	add := func(column string, method enums.ContactMethod, message, response *string) {
		content := firstText(message, response)
		if content == "" {
			return
		}
		digest := importDigest(record.LegacyRowID, method, column, content)
		attempts = append(attempts, models.ContactAttempt{
			FoundItemID:     itemID,
			Method:          method,
			Message:         message,
			Response:        response,
			AttemptedAt:     attemptTime(content, record.EnteredAt, fallback),
			AttemptedByName: record.EnteredByName,
			ImportDigest:    &digest,
		})
	}

	add(ColContactNotes, enums.ContactMethodPhone, record.ContactNotes, nil)
	add(ColInitialSMS, enums.ContactMethodSMS, record.InitialSMS, nil)
	add(ColLastSMS, enums.ContactMethodSMS, record.LastSMS, nil)
	add(ColClaimResponse, enums.ContactMethodSMS, nil, record.ClaimResponse)

	return attempts
}

// attemptTime prefers a timestamp embedded in the cell (Glide SMS columns
// often hold the send time), then the item's entry date, then the import
// time.
func attemptTime(content string, enteredAt *time.Time, fallback time.Time) time.Time {
	if parsed := mapping.ParseLegacyDate(content); parsed != nil {
		return *parsed
	}
	if enteredAt != nil {
		return *enteredAt
	}
	return fallback
}

// importDigest keys a fanned-out attempt for cross-run dedup.
func importDigest(legacyRowID string, method enums.ContactMethod, column, content string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{legacyRowID, string(method), column, content}, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

func firstText(values ...*string) string {
	for _, value := range values {
		if value != nil {
			if trimmed := strings.TrimSpace(*value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
