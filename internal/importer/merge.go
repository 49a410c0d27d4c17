package importer

import (
	"github.com/google/uuid"

	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/pkg/db/models"
	dbtypes "github.com/discfound/discfound-backend/pkg/db/types"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/types"
)

// coalesce returns incoming when it carries a value, otherwise existing. An
// incoming nil never clobbers stored data.
func coalesce[T any](existing, incoming *T) *T {
	if incoming != nil {
		return incoming
	}
	return existing
}

func coalesceSocial(existing, incoming types.Social) types.Social {
	return types.Social{
		Facebook:  coalesce(existing.Facebook, incoming.Facebook),
		Instagram: coalesce(existing.Instagram, incoming.Instagram),
		Twitter:   coalesce(existing.Twitter, incoming.Twitter),
		Website:   coalesce(existing.Website, incoming.Website),
	}
}

// mergeProfile folds an imported record into a canonical profile. Email is
// the identity anchor and never rewritten; legacy id is backfilled, never
// replaced.
func mergeProfile(profile *models.Profile, record *ProfileRecord) {
	profile.DisplayName = coalesce(profile.DisplayName, record.DisplayName)
	profile.PDGANumber = coalesce(profile.PDGANumber, record.PDGANumber)
	profile.Social = coalesceSocial(profile.Social, record.Social)
	profile.Phone = coalesce(profile.Phone, record.Phone)
	profile.AvatarURL = coalesce(profile.AvatarURL, record.AvatarURL)
	if record.Role != nil {
		profile.Role = *record.Role
	}
	if profile.LegacyRowID == nil {
		profile.LegacyRowID = record.LegacyRowID
	}
}

// mergeStagedProfile applies the same coalesce rules to a staged row.
func mergeStagedProfile(staged *models.StagedProfile, record *ProfileRecord) {
	staged.DisplayName = coalesce(staged.DisplayName, record.DisplayName)
	staged.PDGANumber = coalesce(staged.PDGANumber, record.PDGANumber)
	staged.Social = coalesceSocial(staged.Social, record.Social)
	staged.Phone = coalesce(staged.Phone, record.Phone)
	staged.AvatarURL = coalesce(staged.AvatarURL, record.AvatarURL)
	if record.Role != nil {
		staged.Role = *record.Role
	}
	if staged.LegacyRowID == nil {
		staged.LegacyRowID = record.LegacyRowID
	}
}

func newStagedProfile(record *ProfileRecord) *models.StagedProfile {
	role := enums.RoleVisitor
	if record.Role != nil {
		role = *record.Role
	}
	return &models.StagedProfile{
		Email:           record.Email,
		DisplayName:     record.DisplayName,
		Role:            role,
		PDGANumber:      record.PDGANumber,
		Social:          record.Social,
		Phone:           record.Phone,
		AvatarURL:       record.AvatarURL,
		LegacyRowID:     record.LegacyRowID,
		NeedsActivation: true,
	}
}

// mergeSource folds an imported record into a stored source location. Name
// and status are total mappings, so they always win; sort coalesces.
func mergeSource(source *models.SourceLocation, record *SourceRecord) {
	source.Name = record.Name
	source.Active = record.Active
	if record.SortOrder != nil {
		source.SortOrder = *record.SortOrder
	}
	source.SMSInitialTemplate = coalesce(source.SMSInitialTemplate, record.SMSInitial)
	source.SMSReminderTemplate = coalesce(source.SMSReminderTemplate, record.SMSReminder)
}

func newSourceLocation(record *SourceRecord) *models.SourceLocation {
	source := &models.SourceLocation{
		Name:                record.Name,
		Active:              record.Active,
		SMSInitialTemplate:  record.SMSInitial,
		SMSReminderTemplate: record.SMSReminder,
		LegacyRowID:         &record.LegacyRowID,
	}
	if record.SortOrder != nil {
		source.SortOrder = *record.SortOrder
	}
	return source
}

// coalesceDiscField treats the Unknown sentinel as "nothing extracted": a
// real incoming value wins, Unknown preserves whatever is stored.
func coalesceDiscField(existing, incoming string) string {
	if incoming != mapping.Unknown && incoming != "" {
		return incoming
	}
	return existing
}

// mergeFoundItem folds an imported record into a stored item. resolvedSource
// is the source FK the importer resolved from the record's legacy reference,
// nil when the reference did not resolve.
func mergeFoundItem(item *models.FoundItem, record *ItemRecord, resolvedSource *uuid.UUID) {
	item.Brand = coalesceDiscField(item.Brand, record.Disc.Brand)
	item.Mold = coalesceDiscField(item.Mold, record.Disc.Mold)
	item.Color = coalesceDiscField(item.Color, record.Disc.Color)
	item.Description = coalesce(item.Description, record.Description)
	item.EnteredByName = coalesce(item.EnteredByName, record.EnteredByName)
	item.FoundAt = coalesce(item.FoundAt, record.EnteredAt)
	if len(record.ImageURLs) > 0 {
		item.ImageURLs = dbtypes.StringArray(record.ImageURLs)
	}
	if resolvedSource != nil {
		item.SourceLocationID = resolvedSource
	}
	item.LegacySourceRef = coalesce(item.LegacySourceRef, record.SourceRef)

	if record.ReturnedAt != nil {
		item.ReturnedAt = coalesce(item.ReturnedAt, record.ReturnedAt)
		item.ReturnedByName = coalesce(item.ReturnedByName, record.ReturnedByName)
		if !item.Disposition.IsTerminal() {
			item.Disposition = enums.DispositionReturnedToOwner
		}
	}
}

func newFoundItem(record *ItemRecord, resolvedSource *uuid.UUID) *models.FoundItem {
	item := &models.FoundItem{
		Brand:            record.Disc.Brand,
		Mold:             record.Disc.Mold,
		Color:            record.Disc.Color,
		Description:      record.Description,
		Disposition:      enums.DispositionAvailable,
		SourceLocationID: resolvedSource,
		LegacySourceRef:  record.SourceRef,
		EnteredByName:    record.EnteredByName,
		FoundAt:          record.EnteredAt,
		ImageURLs:        dbtypes.StringArray(record.ImageURLs),
		LegacyRowID:      &record.LegacyRowID,
	}
	if record.ReturnedAt != nil {
		item.Disposition = enums.DispositionReturnedToOwner
		item.ReturnedAt = record.ReturnedAt
		item.ReturnedByName = record.ReturnedByName
	}
	return item
}
