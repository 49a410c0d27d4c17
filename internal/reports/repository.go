package reports

import (
	"context"

	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
)

// Repository runs the reconciliation queries against the live tables, so the
// numbers reflect every import run so far, not just the last one.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type refRecord struct {
	LegacySourceRef string `gorm:"column:legacy_source_ref"`
	RefCount        int64  `gorm:"column:ref_count"`
}

// UnmappedSourceRefs returns every legacy source reference that still points
// nowhere, most used first.
func (r *Repository) UnmappedSourceRefs(ctx context.Context) ([]UnmappedSourceRef, error) {
	var records []refRecord
	err := r.db.WithContext(ctx).
		Table("found_items").
		Select("legacy_source_ref, COUNT(*) AS ref_count").
		Where("legacy_source_ref IS NOT NULL").
		Where("source_location_id IS NULL").
		Group("legacy_source_ref").
		Order("ref_count DESC, legacy_source_ref ASC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	refs := make([]UnmappedSourceRef, 0, len(records))
	for _, record := range records {
		refs = append(refs, UnmappedSourceRef{Ref: record.LegacySourceRef, Count: record.RefCount})
	}
	return refs, nil
}

// MigratedCounts tallies how much of the legacy data has landed. Canonical
// counts only rows that carry a legacy row id, so direct signups and
// hand-entered items do not inflate migration progress.
func (r *Repository) MigratedCounts(ctx context.Context) (*MigratedCounts, error) {
	counts := &MigratedCounts{}

	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("legacy_row_id IS NOT NULL").
		Count(&counts.Profiles).Error
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&models.StagedProfile{}).Count(&counts.StagedProfiles).Error; err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.SourceLocation{}).
		Where("legacy_row_id IS NOT NULL").
		Count(&counts.Sources).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.FoundItem{}).
		Where("legacy_row_id IS NOT NULL").
		Count(&counts.Items).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}
