package linker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/internal/profiles"
	"github.com/discfound/discfound-backend/pkg/config"
	dbpkg "github.com/discfound/discfound-backend/pkg/db"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/outbox"
)

// Identity is the auth-platform fact the linker reconciles: the canonical
// profile id is the identity id, assigned outside this service.
type Identity struct {
	ID          uuid.UUID
	Email       string
	DisplayName *string
}

// Service migrates staged profiles into canonical ones when their owner
// signs up, and owns the retry queue for links that could not complete.
type Service struct {
	tx     txRunner
	repo   Repository
	outbox outboxPublisher
	logg   *logger.Logger
	cfg    config.BootstrapConfig
}

// NewService constructs the identity linker.
func NewService(tx txRunner, repo Repository, outboxSvc outboxPublisher, logg *logger.Logger, cfg config.BootstrapConfig) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{tx: tx, repo: repo, outbox: outboxSvc, logg: logg, cfg: cfg}, nil
}

// LinkIdentity folds any staged profile for the identity's email into a
// canonical profile, all in one transaction: the canonical row appears, the
// staged row disappears, and the identity_linked event is recorded, or none
// of it happened. Re-delivery of the same identity is a no-op thanks to the
// EmitIfNotExists guard.
func (s *Service) LinkIdentity(ctx context.Context, identity Identity) error {
	email := profiles.NormalizeEmail(identity.Email)
	if identity.ID == uuid.Nil || email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "identity id and email are required")
	}
	identity.Email = email

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		staged, err := repo.FindStagedByEmail(ctx, email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup staged profile: %w", err)
		}

		profile, err := repo.FindProfileByID(ctx, identity.ID)
		switch {
		case err == nil:
			// Already linked. A staged remnant can still exist when an
			// earlier run created the profile but died before the delete;
			// fold it in now.
			if staged != nil {
				absorbStagedProfile(profile, staged)
				if _, err := repo.SaveProfile(ctx, profile); err != nil {
					return fmt.Errorf("absorb staged profile: %w", err)
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if existing, err := repo.FindProfileByEmail(ctx, email); err == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("email already belongs to profile %s", existing.ID))
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("lookup profile by email: %w", err)
			}
			profile = s.newLinkedProfile(identity, staged)
			if _, err := repo.CreateProfile(ctx, profile); err != nil {
				return fmt.Errorf("create profile: %w", err)
			}
		default:
			return fmt.Errorf("lookup profile: %w", err)
		}

		if staged != nil {
			if err := repo.DeleteStagedByID(ctx, staged.ID); err != nil {
				return fmt.Errorf("delete staged profile: %w", err)
			}
		}

		return s.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventIdentityLinked,
			AggregateType: enums.AggregateProfile,
			AggregateID:   profile.ID,
			Data: map[string]any{
				"email":      profile.Email,
				"had_staged": staged != nil,
				"legacy_row": staged != nil && staged.LegacyRowID != nil,
			},
			Version: 1,
		})
	})
}

// HandleIdentityCreated is the consumer entry point. A link failure must
// never block the signup: the identity still gets its bare profile via the
// direct-signup fallback and the staged merge is queued for the sweep. Only
// queueing itself failing propagates, so the message gets re-delivered.
func (s *Service) HandleIdentityCreated(ctx context.Context, identity Identity) error {
	err := s.LinkIdentity(ctx, identity)
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
		// Retrying malformed input cannot succeed.
		return err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"profile_id": identity.ID,
		"error":      err.Error(),
	})
	s.logg.Warn(logCtx, "identity link failed, falling back to direct signup")

	if signupErr := s.directSignup(ctx, identity); signupErr != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "signup_error", signupErr.Error()),
			"direct signup fallback failed, sweep will retry the whole link")
	}

	message := err.Error()
	if _, qErr := s.repo.CreateTask(ctx, &models.LinkTask{
		Email:     profiles.NormalizeEmail(identity.Email),
		ProfileID: identity.ID,
		Status:    enums.LinkTaskPending,
		Attempts:  1,
		LastError: &message,
	}); qErr != nil {
		return fmt.Errorf("queue link task: %w", qErr)
	}
	return nil
}

// directSignup creates-or-keeps the bare canonical profile with only the
// signup fields, leaving staged data for the queued retry to merge.
func (s *Service) directSignup(ctx context.Context, identity Identity) error {
	email := profiles.NormalizeEmail(identity.Email)
	if _, err := s.repo.FindProfileByID(ctx, identity.ID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup profile: %w", err)
	}

	profile := &models.Profile{
		ID:          identity.ID,
		Email:       email,
		DisplayName: identity.DisplayName,
		Role:        s.linkedRole(email, nil),
	}
	if _, err := s.repo.CreateProfile(ctx, profile); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			// Someone owns the row already; the queued task sorts out whose.
			return nil
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// ProcessPendingTasks retries queued links oldest first and returns how many
// resolved. A task that exhausts the attempt budget flips to failed and
// waits for an operator.
func (s *Service) ProcessPendingTasks(ctx context.Context, batchSize, maxAttempts int) (int, error) {
	tasks, err := s.repo.FindPendingTasks(ctx, batchSize)
	if err != nil {
		return 0, fmt.Errorf("load pending link tasks: %w", err)
	}

	var resolved int
	var errs []error
	for i := range tasks {
		task := tasks[i]
		linkErr := s.LinkIdentity(ctx, Identity{ID: task.ProfileID, Email: task.Email})
		if linkErr != nil {
			task.Attempts++
			message := linkErr.Error()
			task.LastError = &message
			if task.Attempts >= maxAttempts {
				task.Status = enums.LinkTaskFailed
				s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
					"task_id":  task.ID,
					"attempts": task.Attempts,
				}), "link task exhausted its attempts")
			}
		} else {
			task.Status = enums.LinkTaskResolved
			task.LastError = nil
			resolved++
		}
		if _, err := s.repo.SaveTask(ctx, &task); err != nil {
			errs = append(errs, fmt.Errorf("save link task %s: %w", task.ID, err))
		}
	}
	return resolved, multierr.Combine(errs...)
}

// ListTasks returns the retry queue for the admin surface, newest first.
func (s *Service) ListTasks(ctx context.Context, status *enums.LinkTaskStatus, limit int) ([]LinkTaskDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *status))
	}
	tasks, err := s.repo.ListTasks(ctx, status, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list link tasks")
	}
	return FromModels(tasks), nil
}

// RetryTask reruns one task immediately on an operator's request.
func (s *Service) RetryTask(ctx context.Context, taskID uuid.UUID) (*LinkTaskDTO, error) {
	task, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "link task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load link task")
	}
	if task.Status == enums.LinkTaskResolved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "link task already resolved")
	}

	linkErr := s.LinkIdentity(ctx, Identity{ID: task.ProfileID, Email: task.Email})
	if linkErr != nil {
		task.Attempts++
		message := linkErr.Error()
		task.LastError = &message
	} else {
		task.Status = enums.LinkTaskResolved
		task.LastError = nil
	}
	if _, err := s.repo.SaveTask(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save link task")
	}
	if linkErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, linkErr, "link retry failed")
	}
	return FromModel(task), nil
}

// newLinkedProfile builds the canonical row for a fresh identity. The signup
// display name wins over the staged one; everything else the staged row
// carries comes along.
func (s *Service) newLinkedProfile(identity Identity, staged *models.StagedProfile) *models.Profile {
	profile := &models.Profile{
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        s.linkedRole(identity.Email, staged),
	}
	if staged != nil {
		absorbStagedProfile(profile, staged)
	}
	return profile
}

// linkedRole starts everyone as a member. An elevated role staged by the
// import survives activation, and the bootstrap allow-list makes the first
// operators without any imported data.
func (s *Service) linkedRole(email string, staged *models.StagedProfile) enums.ProfileRole {
	role := enums.RoleMember
	if staged != nil && (staged.Role == enums.RoleOperator || staged.Role == enums.RoleCollector) {
		role = staged.Role
	}
	if s.cfg.IsBootstrapOperator(email) {
		role = enums.RoleOperator
	}
	return role
}

// absorbStagedProfile folds staged legacy data into the canonical row. The
// canonical side wins wherever it already carries a value.
func absorbStagedProfile(profile *models.Profile, staged *models.StagedProfile) {
	profile.DisplayName = firstNonNil(profile.DisplayName, staged.DisplayName)
	profile.PDGANumber = firstNonNil(profile.PDGANumber, staged.PDGANumber)
	profile.Phone = firstNonNil(profile.Phone, staged.Phone)
	profile.AvatarURL = firstNonNil(profile.AvatarURL, staged.AvatarURL)
	profile.Social.Instagram = firstNonNil(profile.Social.Instagram, staged.Social.Instagram)
	profile.Social.Facebook = firstNonNil(profile.Social.Facebook, staged.Social.Facebook)
	profile.Social.Twitter = firstNonNil(profile.Social.Twitter, staged.Social.Twitter)
	profile.Social.Website = firstNonNil(profile.Social.Website, staged.Social.Website)
	profile.LegacyRowID = firstNonNil(profile.LegacyRowID, staged.LegacyRowID)
}

func firstNonNil[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}
