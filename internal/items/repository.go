package items

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	dbtypes "github.com/discfound/discfound-backend/pkg/db/types"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/pagination"
)

// Repository persists found items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new found item row.
func (r *Repository) Create(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a found item by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoundItem, error) {
	var item models.FoundItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByLegacyRowID loads a found item by its legacy import key.
func (r *Repository) FindByLegacyRowID(ctx context.Context, legacyRowID string) (*models.FoundItem, error) {
	var item models.FoundItem
	if err := r.db.WithContext(ctx).First(&item, "legacy_row_id = ?", legacyRowID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Save writes the full item row back.
func (r *Repository) Save(ctx context.Context, item *models.FoundItem) (*models.FoundItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ItemFilters narrows the item listing.
type ItemFilters struct {
	Dispositions     []enums.ItemDisposition
	SourceLocationID *uuid.UUID
	Brand            *string
	Query            string
}

type itemListQuery struct {
	Filters    ItemFilters
	Pagination pagination.Params
}

// ItemListResult is one page of item summaries plus the cursor for the next.
type ItemListResult struct {
	Items      []ItemSummary `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ListItemSummaries pages through items newest first with a created_at/id
// cursor.
func (r *Repository) ListItemSummaries(ctx context.Context, query itemListQuery) (*ItemListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("found_items i").
		Select(strings.Join([]string{
			"i.id",
			"i.brand",
			"i.mold",
			"i.color",
			"i.condition",
			"i.disposition",
			"i.location_found",
			"i.source_location_id",
			"sl.name AS source_name",
			"i.found_at",
			"i.image_urls",
			"i.created_at",
			"i.updated_at",
		}, ", ")).
		Joins("LEFT JOIN source_locations sl ON sl.id = i.source_location_id")

	filter := query.Filters
	if len(filter.Dispositions) > 0 {
		qb = qb.Where("i.disposition IN ?", filter.Dispositions)
	}
	if filter.SourceLocationID != nil {
		qb = qb.Where("i.source_location_id = ?", *filter.SourceLocationID)
	}
	if filter.Brand != nil {
		qb = qb.Where("LOWER(i.brand) = ?", strings.ToLower(strings.TrimSpace(*filter.Brand)))
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(i.brand) LIKE ? OR LOWER(i.mold) LIKE ? OR LOWER(i.color) LIKE ? OR LOWER(i.description) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}

	if cursor != nil {
		qb = qb.Where("(i.created_at < ?) OR (i.created_at = ? AND i.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("i.created_at DESC").Order("i.id DESC").Limit(limitWithBuffer)

	var records []itemSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ItemSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ItemListResult{
		Items:      summaries,
		NextCursor: nextCursor,
	}, nil
}

type itemSummaryRecord struct {
	ID               uuid.UUID
	Brand            string
	Mold             string
	Color            string
	Condition        sql.NullString
	Disposition      enums.ItemDisposition
	LocationFound    sql.NullString
	SourceLocationID *uuid.UUID
	SourceName       sql.NullString
	FoundAt          sql.NullTime
	ImageURLs        dbtypes.StringArray
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r itemSummaryRecord) toSummary() ItemSummary {
	return ItemSummary{
		ID:               r.ID,
		Brand:            r.Brand,
		Mold:             r.Mold,
		Color:            r.Color,
		Condition:        nullStringPtr(r.Condition),
		Disposition:      r.Disposition,
		LocationFound:    nullStringPtr(r.LocationFound),
		SourceLocationID: r.SourceLocationID,
		SourceName:       nullStringPtr(r.SourceName),
		FoundAt:          nullTimePtr(r.FoundAt),
		ImageURLs:        r.ImageURLs,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time
	return &v
}
