package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/internal/importer/mapping"
	"github.com/discfound/discfound-backend/pkg/config"
	dbpkg "github.com/discfound/discfound-backend/pkg/db"
	"github.com/discfound/discfound-backend/pkg/enums"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/metrics"
	"github.com/discfound/discfound-backend/pkg/outbox"
)

// Entity names the import targets the CLI exposes.
const (
	EntityProfiles = "profiles"
	EntitySources  = "sources"
	EntityItems    = "items"
	EntityContacts = "contacts"
)

// ErrLockHeld is returned when another import run owns the lock. The CLI
// treats it as a setup failure.
var ErrLockHeld = errors.New("another import is already running")

// Service drives batch imports of legacy exports. Runs are single-writer:
// the Redis lock rejects concurrent invocations, and rows are processed
// sequentially with an optional delay between them.
type Service struct {
	tx       txRunner
	profiles profileStore
	staged   stagedProfileStore
	sources  sourceStore
	items    foundItemStore
	contacts contactAttemptStore
	outbox   outboxPublisher
	lock     Lock
	logg     *logger.Logger
	cfg      config.ImporterConfig
	metrics  *metrics.ImporterMetrics
}

// NewService constructs the import service.
func NewService(
	tx txRunner,
	profiles profileStore,
	staged stagedProfileStore,
	sources sourceStore,
	items foundItemStore,
	contacts contactAttemptStore,
	outboxSvc outboxPublisher,
	lock Lock,
	logg *logger.Logger,
	cfg config.ImporterConfig,
	importMetrics *metrics.ImporterMetrics,
) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if profiles == nil || staged == nil {
		return nil, fmt.Errorf("profile stores required")
	}
	if sources == nil {
		return nil, fmt.Errorf("source store required")
	}
	if items == nil {
		return nil, fmt.Errorf("item store required")
	}
	if contacts == nil {
		return nil, fmt.Errorf("contact store required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if lock == nil {
		return nil, fmt.Errorf("import lock required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		tx:       tx,
		profiles: profiles,
		staged:   staged,
		sources:  sources,
		items:    items,
		contacts: contacts,
		outbox:   outboxSvc,
		lock:     lock,
		logg:     logg,
		cfg:      cfg,
		metrics:  importMetrics,
	}, nil
}

// RunInput selects which exports to import. Empty paths are skipped. Items
// and contacts read the same found-items export, so `ContactsPath` typically
// repeats `ItemsPath`.
type RunInput struct {
	ProfilesPath string
	SourcesPath  string
	ItemsPath    string
	ContactsPath string
}

// Run executes the selected imports under the single-writer lock, in
// dependency order (sources before items so foreign references resolve),
// and emits one import.completed event for the run. Errors are setup-level
// only; row-level failures live in the summaries.
func (s *Service) Run(ctx context.Context, input RunInput) ([]*Summary, error) {
	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !acquired {
		return nil, ErrLockHeld
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "release import lock failed")
		}
	}()

	type step struct {
		path string
		run  func(context.Context, *Table) (*Summary, error)
	}
	steps := []step{
		{input.SourcesPath, s.ImportSources},
		{input.ProfilesPath, s.ImportProfiles},
		{input.ItemsPath, s.ImportItems},
		{input.ContactsPath, s.ImportContacts},
	}

	var summaries []*Summary
	for _, st := range steps {
		if st.path == "" {
			continue
		}
		table, err := ReadTableFile(st.path)
		if err != nil {
			return summaries, err
		}
		summary, err := st.run(ctx, table)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}

	if len(summaries) > 0 {
		if err := s.emitCompleted(ctx, summaries); err != nil {
			// The import itself succeeded; a failed event emit is worth a
			// warning, not a failed run.
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "emit import.completed failed")
		}
	}

	return summaries, nil
}

func (s *Service) emitCompleted(ctx context.Context, summaries []*Summary) error {
	runID := uuid.New()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventImportCompleted,
			AggregateType: enums.AggregateImportRun,
			AggregateID:   runID,
			Data:          map[string]any{"summaries": summaries},
			Version:       1,
		})
	})
}

// ImportProfiles applies the dual-key staged-or-canonical contract to every
// row: canonical match → coalesce-merge; staged match → coalesce-merge;
// neither → new staged row pending activation.
func (s *Service) ImportProfiles(ctx context.Context, table *Table) (*Summary, error) {
	if err := table.RequireColumns(ColEmail); err != nil {
		return nil, err
	}

	summary := s.newSummary(EntityProfiles, table)

	for _, row := range table.Rows {
		s.pause()
		record, err := mapProfileRow(table, row)
		if err != nil {
			summary.AddError(err)
			continue
		}
		if record.PhoneFlag != mapping.PhoneFlagNone {
			summary.AddWarning(fmt.Sprintf("%s: phone %s", record.Email, record.PhoneFlag))
		}

		if err := s.importProfileRecord(ctx, record, summary); err != nil {
			summary.AddError(fmt.Errorf("%s: %w", record.Email, err))
		}
	}

	s.finish(ctx, summary)
	return summary, nil
}

func (s *Service) importProfileRecord(ctx context.Context, record *ProfileRecord, summary *Summary) error {
	profile, err := s.profiles.FindByEmailOrLegacyID(ctx, record.Email, record.LegacyRowID)
	switch {
	case err == nil:
		mergeProfile(profile, record)
		if _, err := s.profiles.Save(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		summary.Updated++
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("lookup profile: %w", err)
	}

	staged, err := s.staged.FindByEmailOrLegacyID(ctx, record.Email, record.LegacyRowID)
	switch {
	case err == nil:
		mergeStagedProfile(staged, record)
		if _, err := s.staged.Save(ctx, staged); err != nil {
			return fmt.Errorf("update staged profile: %w", err)
		}
		summary.Updated++
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("lookup staged profile: %w", err)
	}

	if _, err := s.staged.Create(ctx, newStagedProfile(record)); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			// A row for this email or legacy id appeared since the lookup;
			// the re-run path picks it up as a merge.
			summary.Skipped++
			return nil
		}
		return fmt.Errorf("create staged profile: %w", err)
	}
	summary.Staged++
	return nil
}

// ImportSources upserts the source vocabulary by legacy row id.
func (s *Service) ImportSources(ctx context.Context, table *Table) (*Summary, error) {
	if err := table.RequireColumns(ColRowID, ColSource); err != nil {
		return nil, err
	}

	summary := s.newSummary(EntitySources, table)

	for _, row := range table.Rows {
		s.pause()
		record, err := mapSourceRow(table, row, summary.AddWarning)
		if err != nil {
			summary.AddError(err)
			continue
		}

		existing, err := s.sources.FindByLegacyRowID(ctx, record.LegacyRowID)
		switch {
		case err == nil:
			mergeSource(existing, record)
			if _, err := s.sources.Save(ctx, existing); err != nil {
				summary.AddError(fmt.Errorf("row %s: update source: %w", record.LegacyRowID, err))
				continue
			}
			summary.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := s.sources.Create(ctx, newSourceLocation(record)); err != nil {
				if dbpkg.IsUniqueViolation(err, "") {
					summary.Skipped++
					continue
				}
				summary.AddError(fmt.Errorf("row %s: create source: %w", record.LegacyRowID, err))
				continue
			}
			summary.Imported++
		default:
			summary.AddError(fmt.Errorf("row %s: lookup source: %w", record.LegacyRowID, err))
		}
	}

	s.finish(ctx, summary)
	return summary, nil
}

// ImportItems upserts found items by legacy row id, resolving each row's
// source reference against the vocabulary. An unresolved reference stores a
// nil FK and shows up in the unmapped summary, it is not a row failure.
func (s *Service) ImportItems(ctx context.Context, table *Table) (*Summary, error) {
	if err := table.RequireColumns(ColRowID); err != nil {
		return nil, err
	}

	summary := s.newSummary(EntityItems, table)

	sourceIDs, err := s.sources.LegacyIDMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source legacy ids: %w", err)
	}

	for _, row := range table.Rows {
		s.pause()
		record, err := mapItemRow(table, row, summary.AddWarning)
		if err != nil {
			summary.AddError(err)
			continue
		}

		var resolvedSource *uuid.UUID
		if record.SourceRef != nil {
			if id, ok := sourceIDs[*record.SourceRef]; ok {
				resolvedSource = &id
			} else {
				summary.AddUnmappedSource(*record.SourceRef)
			}
		}

		existing, err := s.items.FindByLegacyRowID(ctx, record.LegacyRowID)
		switch {
		case err == nil:
			mergeFoundItem(existing, record, resolvedSource)
			if _, err := s.items.Save(ctx, existing); err != nil {
				summary.AddError(fmt.Errorf("row %s: update item: %w", record.LegacyRowID, err))
				continue
			}
			summary.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := s.items.Create(ctx, newFoundItem(record, resolvedSource)); err != nil {
				if dbpkg.IsUniqueViolation(err, "") {
					summary.Skipped++
					continue
				}
				summary.AddError(fmt.Errorf("row %s: create item: %w", record.LegacyRowID, err))
				continue
			}
			summary.Imported++
		default:
			summary.AddError(fmt.Errorf("row %s: lookup item: %w", record.LegacyRowID, err))
		}
	}

	s.finish(ctx, summary)
	return summary, nil
}

// ImportContacts fans each found-item row out into its contact attempts.
// The digest dedup makes re-runs skip rows they already wrote, and the skip
// count makes that visible to the operator.
func (s *Service) ImportContacts(ctx context.Context, table *Table) (*Summary, error) {
	if err := table.RequireColumns(ColRowID); err != nil {
		return nil, err
	}

	summary := s.newSummary(EntityContacts, table)
	now := time.Now().UTC()

	for _, row := range table.Rows {
		s.pause()
		record, err := mapItemRow(table, row, nil)
		if err != nil {
			summary.AddError(err)
			continue
		}

		item, err := s.items.FindByLegacyRowID(ctx, record.LegacyRowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				summary.AddError(fmt.Errorf("row %s: found item not imported yet", record.LegacyRowID))
			} else {
				summary.AddError(fmt.Errorf("row %s: lookup item: %w", record.LegacyRowID, err))
			}
			continue
		}

		for _, attempt := range fanOutContactAttempts(record, item.ID, now) {
			exists, err := s.contacts.ExistsByDigest(ctx, *attempt.ImportDigest)
			if err != nil {
				summary.AddError(fmt.Errorf("row %s: digest check: %w", record.LegacyRowID, err))
				continue
			}
			if exists {
				summary.Skipped++
				continue
			}
			if _, err := s.contacts.Create(ctx, &attempt); err != nil {
				if dbpkg.IsUniqueViolation(err, "idx_contact_attempts_import_digest") {
					summary.Skipped++
					continue
				}
				summary.AddError(fmt.Errorf("row %s: create contact attempt: %w", record.LegacyRowID, err))
				continue
			}
			summary.Imported++
		}
	}

	s.finish(ctx, summary)
	return summary, nil
}

func (s *Service) newSummary(entity string, table *Table) *Summary {
	summary := NewSummary(entity, s.cfg.ErrorListCap)
	summary.Total = len(table.Rows) + len(table.Skipped)
	for _, skipped := range table.Skipped {
		summary.AddError(skipped)
	}
	return summary
}

func (s *Service) finish(ctx context.Context, summary *Summary) {
	summary.Finalize()
	s.metrics.AddRows(summary.Entity, "imported", summary.Imported)
	s.metrics.AddRows(summary.Entity, "updated", summary.Updated)
	s.metrics.AddRows(summary.Entity, "staged", summary.Staged)
	s.metrics.AddRows(summary.Entity, "skipped", summary.Skipped)
	s.metrics.AddRows(summary.Entity, "failed", summary.Failed)
	s.metrics.ObserveDuration(summary.Entity, summary.Elapsed())
	fields := map[string]any{
		"entity":   summary.Entity,
		"total":    summary.Total,
		"imported": summary.Imported,
		"updated":  summary.Updated,
		"staged":   summary.Staged,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "import finished")
}

// pause inserts the configured inter-row delay. It exists to stay gentle
// with the database, not for correctness.
func (s *Service) pause() {
	if s.cfg.RowDelay > 0 {
		time.Sleep(s.cfg.RowDelay)
	}
}
