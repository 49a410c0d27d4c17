package importer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/internal/profiles"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/types"
)

// Literal header strings the legacy exports use. The Glide tables were
// exported as-is, so these match the external system's display names.
const (
	ColRowID = "Row ID"

	ColEmail     = "Email"
	ColName      = "Name"
	ColRole      = "Role"
	ColPDGA      = "PDGA Number"
	ColInstagram = "Instagram"
	ColFacebook  = "Facebook"
	ColTwitter   = "Twitter"
	ColWebsite   = "Website"
	ColPhone     = "Phone"
	ColPhoto     = "Photo"

	ColDescription   = "Description"
	ColSourceID      = "SourceID"
	ColDateEntered   = "Date Entered"
	ColEnteredBy     = "Entered By"
	ColDateReturned  = "Date Returned"
	ColReturnedBy    = "Returned By"
	ColImage1        = "Image 1"
	ColImage2        = "Image 2"
	ColContactNotes  = "Contact Notes"
	ColInitialSMS    = "Initial SMS"
	ColLastSMS       = "Last SMS"
	ColClaimResponse = "Claim Response"

	ColSource      = "Source"
	ColSort        = "Sort"
	ColStatus      = "Status"
	ColSMSInitial  = "SMS Initial"
	ColSMSReminder = "SMS Reminder"
)

// ProfileRecord is one mapped profile row. A nil Role means the column was
// blank, so a merge must preserve whatever role the stored row already has.
type ProfileRecord struct {
	LegacyRowID *string
	Email       string
	DisplayName *string
	Role        *enums.ProfileRole
	PDGANumber  *string
	Social      types.Social
	Phone       *string
	PhoneFlag   mapping.PhoneFlag
	AvatarURL   *string
}

func mapProfileRow(t *Table, row []string) (*ProfileRecord, error) {
	email := profiles.NormalizeEmail(t.Get(row, ColEmail))
	if email == "" {
		return nil, fmt.Errorf("missing required Email")
	}

	record := &ProfileRecord{
		LegacyRowID: t.GetPtr(row, ColRowID),
		Email:       email,
		DisplayName: t.GetPtr(row, ColName),
		PDGANumber:  t.GetPtr(row, ColPDGA),
		Social: types.Social{
			Instagram: t.GetPtr(row, ColInstagram),
			Facebook:  t.GetPtr(row, ColFacebook),
			Twitter:   t.GetPtr(row, ColTwitter),
			Website:   t.GetPtr(row, ColWebsite),
		},
		AvatarURL: t.GetPtr(row, ColPhoto),
	}

	if raw := t.Get(row, ColRole); raw != "" {
		role := mapping.MapRole(raw)
		record.Role = &role
	}

	record.Phone, record.PhoneFlag = mapping.NormalizePhone(t.Get(row, ColPhone))

	return record, nil
}

// ItemRecord is one mapped found-item row plus the contact fields the
// contact-attempt importer fans out from the same export.
type ItemRecord struct {
	LegacyRowID    string
	Description    *string
	Disc           mapping.DiscFields
	SourceRef      *string
	EnteredAt      *time.Time
	EnteredByName  *string
	ReturnedAt     *time.Time
	ReturnedByName *string
	ImageURLs      []string
	ContactNotes   *string
	InitialSMS     *string
	LastSMS        *string
	ClaimResponse  *string
}

func mapItemRow(t *Table, row []string, warn func(string)) (*ItemRecord, error) {
	legacyID := t.Get(row, ColRowID)
	if legacyID == "" {
		return nil, fmt.Errorf("missing required Row ID")
	}

	record := &ItemRecord{
		LegacyRowID:    legacyID,
		Description:    t.GetPtr(row, ColDescription),
		SourceRef:      t.GetPtr(row, ColSourceID),
		EnteredByName:  t.GetPtr(row, ColEnteredBy),
		ReturnedByName: t.GetPtr(row, ColReturnedBy),
		ContactNotes:   t.GetPtr(row, ColContactNotes),
		InitialSMS:     t.GetPtr(row, ColInitialSMS),
		LastSMS:        t.GetPtr(row, ColLastSMS),
		ClaimResponse:  t.GetPtr(row, ColClaimResponse),
	}

	record.Disc = mapping.ExtractDisc(t.Get(row, ColDescription))

	record.EnteredAt = parseDateWarn(t.Get(row, ColDateEntered), legacyID, ColDateEntered, warn)
	record.ReturnedAt = parseDateWarn(t.Get(row, ColDateReturned), legacyID, ColDateReturned, warn)

	for _, column := range []string{ColImage1, ColImage2} {
		if url := t.Get(row, column); url != "" {
			record.ImageURLs = append(record.ImageURLs, url)
		}
	}

	return record, nil
}

func parseDateWarn(raw, legacyID, column string, warn func(string)) *time.Time {
	if raw == "" {
		return nil
	}
	parsed := mapping.ParseLegacyDate(raw)
	if parsed == nil && warn != nil {
		warn(fmt.Sprintf("row %s: unparseable %s %q", legacyID, column, raw))
	}
	return parsed
}

// SourceRecord is one mapped source-location row. A nil SortOrder means the
// column was blank and a merge keeps the stored value.
type SourceRecord struct {
	LegacyRowID string
	Name        string
	SortOrder   *int
	Active      bool
	SMSInitial  *string
	SMSReminder *string
}

func mapSourceRow(t *Table, row []string, warn func(string)) (*SourceRecord, error) {
	legacyID := t.Get(row, ColRowID)
	if legacyID == "" {
		return nil, fmt.Errorf("missing required Row ID")
	}
	name := t.Get(row, ColSource)
	if name == "" {
		return nil, fmt.Errorf("missing required Source name")
	}

	record := &SourceRecord{
		LegacyRowID: legacyID,
		Name:        name,
		Active:      mapping.MapSourceStatus(t.Get(row, ColStatus)),
		SMSInitial:  t.GetPtr(row, ColSMSInitial),
		SMSReminder: t.GetPtr(row, ColSMSReminder),
	}

	if raw := t.Get(row, ColSort); raw != "" {
		sort, err := strconv.Atoi(raw)
		if err != nil {
			if warn != nil {
				warn(fmt.Sprintf("row %s: unparseable Sort %q", legacyID, raw))
			}
		} else {
			record.SortOrder = &sort
		}
	}

	return record, nil
}
