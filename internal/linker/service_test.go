package linker

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/outbox"
	"github.com/discfound/discfound-backend/pkg/types"
)

// fakeLinkTx rolls the repo back on error so transactional all-or-nothing
// behavior is observable through the fakes.
type fakeLinkTx struct {
	repo *fakeLinkRepo
}

func (f *fakeLinkTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	snapshot := f.repo.snapshot()
	if err := fn(nil); err != nil {
		f.repo.restore(snapshot)
		return err
	}
	return nil
}

type fakeLinkEmitter struct {
	events []outbox.DomainEvent
	err    error
}

func (f *fakeLinkEmitter) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeLinkRepo struct {
	staged   map[string]*models.StagedProfile
	profiles map[uuid.UUID]*models.Profile
	tasks    map[uuid.UUID]*models.LinkTask

	deletedStaged []uuid.UUID
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{
		staged:   map[string]*models.StagedProfile{},
		profiles: map[uuid.UUID]*models.Profile{},
		tasks:    map[uuid.UUID]*models.LinkTask{},
	}
}

func (f *fakeLinkRepo) snapshot() *fakeLinkRepo {
	clone := newFakeLinkRepo()
	for email, staged := range f.staged {
		s := *staged
		clone.staged[email] = &s
	}
	for id, profile := range f.profiles {
		p := *profile
		clone.profiles[id] = &p
	}
	for id, task := range f.tasks {
		t := *task
		clone.tasks[id] = &t
	}
	clone.deletedStaged = append([]uuid.UUID(nil), f.deletedStaged...)
	return clone
}

func (f *fakeLinkRepo) restore(snapshot *fakeLinkRepo) {
	f.staged = snapshot.staged
	f.profiles = snapshot.profiles
	f.tasks = snapshot.tasks
	f.deletedStaged = snapshot.deletedStaged
}

func (f *fakeLinkRepo) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeLinkRepo) FindStagedByEmail(ctx context.Context, email string) (*models.StagedProfile, error) {
	if staged, ok := f.staged[email]; ok {
		clone := *staged
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLinkRepo) DeleteStagedByID(ctx context.Context, id uuid.UUID) error {
	for email, staged := range f.staged {
		if staged.ID == id {
			delete(f.staged, email)
		}
	}
	f.deletedStaged = append(f.deletedStaged, id)
	return nil
}

func (f *fakeLinkRepo) FindProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if profile, ok := f.profiles[id]; ok {
		clone := *profile
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLinkRepo) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, profile := range f.profiles {
		if profile.Email == email {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLinkRepo) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	for _, existing := range f.profiles {
		if existing.Email == profile.Email {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_profiles_email"`)
		}
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeLinkRepo) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeLinkRepo) CreateTask(ctx context.Context, task *models.LinkTask) (*models.LinkTask, error) {
	task.ID = uuid.New()
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeLinkRepo) FindTaskByID(ctx context.Context, id uuid.UUID) (*models.LinkTask, error) {
	if task, ok := f.tasks[id]; ok {
		clone := *task
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLinkRepo) FindPendingTasks(ctx context.Context, limit int) ([]models.LinkTask, error) {
	var pending []models.LinkTask
	for _, task := range f.tasks {
		if task.Status == enums.LinkTaskPending {
			pending = append(pending, *task)
		}
	}
	return pending, nil
}

func (f *fakeLinkRepo) ListTasks(ctx context.Context, status *enums.LinkTaskStatus, limit int) ([]models.LinkTask, error) {
	var tasks []models.LinkTask
	for _, task := range f.tasks {
		if status == nil || task.Status == *status {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

func (f *fakeLinkRepo) SaveTask(ctx context.Context, task *models.LinkTask) (*models.LinkTask, error) {
	clone := *task
	f.tasks[task.ID] = &clone
	return task, nil
}

func newTestLinker(repo *fakeLinkRepo, emitter *fakeLinkEmitter) *Service {
	return &Service{
		tx:     &fakeLinkTx{repo: repo},
		repo:   repo,
		outbox: emitter,
		logg:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		cfg:    config.BootstrapConfig{OperatorEmails: []string{"boss@example.com"}},
	}
}

func TestLinkIdentityMigratesStagedProfile(t *testing.T) {
	repo := newFakeLinkRepo()
	stagedID := uuid.New()
	repo.staged["jane@example.com"] = &models.StagedProfile{
		ID:          stagedID,
		Email:       "jane@example.com",
		DisplayName: stringPtr("Legacy Jane"),
		Role:        enums.RoleCollector,
		PDGANumber:  stringPtr("12345"),
		Phone:       stringPtr("+15551234567"),
		Social:      types.Social{Instagram: stringPtr("@janedg")},
		LegacyRowID: stringPtr("row-1"),
	}
	emitter := &fakeLinkEmitter{}
	svc := newTestLinker(repo, emitter)

	identityID := uuid.New()
	err := svc.LinkIdentity(context.Background(), Identity{
		ID:          identityID,
		Email:       "Jane@Example.COM",
		DisplayName: stringPtr("Jane D"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := repo.profiles[identityID]
	if profile == nil {
		t.Fatal("expected canonical profile created under the identity id")
	}
	if profile.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %q", profile.Email)
	}
	if profile.DisplayName == nil || *profile.DisplayName != "Jane D" {
		t.Fatalf("expected signup name to win, got %v", profile.DisplayName)
	}
	if profile.Role != enums.RoleCollector {
		t.Fatalf("expected staged collector role to survive, got %q", profile.Role)
	}
	if profile.PDGANumber == nil || *profile.PDGANumber != "12345" {
		t.Fatalf("expected staged pdga number carried over, got %v", profile.PDGANumber)
	}
	if profile.Phone == nil || *profile.Phone != "+15551234567" {
		t.Fatalf("expected staged phone carried over, got %v", profile.Phone)
	}
	if profile.LegacyRowID == nil || *profile.LegacyRowID != "row-1" {
		t.Fatalf("expected legacy row id carried over, got %v", profile.LegacyRowID)
	}

	if len(repo.staged) != 0 {
		t.Fatal("expected staged row deleted")
	}
	if len(repo.deletedStaged) != 1 || repo.deletedStaged[0] != stagedID {
		t.Fatalf("expected staged delete recorded, got %v", repo.deletedStaged)
	}

	if len(emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventIdentityLinked || event.AggregateID != identityID {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestLinkIdentityStagedNameFillsBlankSignup(t *testing.T) {
	repo := newFakeLinkRepo()
	repo.staged["jane@example.com"] = &models.StagedProfile{
		ID:          uuid.New(),
		Email:       "jane@example.com",
		DisplayName: stringPtr("Legacy Jane"),
		Role:        enums.RoleVisitor,
	}
	svc := newTestLinker(repo, &fakeLinkEmitter{})

	identityID := uuid.New()
	if err := svc.LinkIdentity(context.Background(), Identity{ID: identityID, Email: "jane@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := repo.profiles[identityID]
	if profile.DisplayName == nil || *profile.DisplayName != "Legacy Jane" {
		t.Fatalf("expected staged name to fill blank signup, got %v", profile.DisplayName)
	}
	if profile.Role != enums.RoleMember {
		t.Fatalf("expected staged visitor promoted to member on signup, got %q", profile.Role)
	}
}

func TestLinkIdentityDirectSignup(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		repo := newFakeLinkRepo()
		svc := newTestLinker(repo, &fakeLinkEmitter{})
		identityID := uuid.New()

		if err := svc.LinkIdentity(context.Background(), Identity{ID: identityID, Email: "new@example.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.profiles[identityID].Role != enums.RoleMember {
			t.Fatalf("expected member role, got %q", repo.profiles[identityID].Role)
		}
	})

	t.Run("bootstrapOperator", func(t *testing.T) {
		repo := newFakeLinkRepo()
		svc := newTestLinker(repo, &fakeLinkEmitter{})
		identityID := uuid.New()

		if err := svc.LinkIdentity(context.Background(), Identity{ID: identityID, Email: "boss@example.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.profiles[identityID].Role != enums.RoleOperator {
			t.Fatalf("expected allow-listed email to become operator, got %q", repo.profiles[identityID].Role)
		}
	})
}

func TestLinkIdentityAbsorbsRemnantWhenProfileExists(t *testing.T) {
	repo := newFakeLinkRepo()
	identityID := uuid.New()
	repo.profiles[identityID] = &models.Profile{
		ID:          identityID,
		Email:       "jane@example.com",
		DisplayName: stringPtr("Jane D"),
		Role:        enums.RoleMember,
	}
	repo.staged["jane@example.com"] = &models.StagedProfile{
		ID:         uuid.New(),
		Email:      "jane@example.com",
		PDGANumber: stringPtr("12345"),
	}
	emitter := &fakeLinkEmitter{}
	svc := newTestLinker(repo, emitter)

	if err := svc.LinkIdentity(context.Background(), Identity{ID: identityID, Email: "jane@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := repo.profiles[identityID]
	if *profile.DisplayName != "Jane D" {
		t.Fatalf("expected canonical name kept, got %q", *profile.DisplayName)
	}
	if profile.PDGANumber == nil || *profile.PDGANumber != "12345" {
		t.Fatalf("expected staged remnant folded in, got %v", profile.PDGANumber)
	}
	if len(repo.staged) != 0 {
		t.Fatal("expected staged remnant deleted")
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected event emitted, got %d", len(emitter.events))
	}
}

func TestLinkIdentityEmailConflict(t *testing.T) {
	repo := newFakeLinkRepo()
	otherID := uuid.New()
	repo.profiles[otherID] = &models.Profile{ID: otherID, Email: "jane@example.com", Role: enums.RoleMember}
	svc := newTestLinker(repo, &fakeLinkEmitter{})

	err := svc.LinkIdentity(context.Background(), Identity{ID: uuid.New(), Email: "jane@example.com"})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestLinkIdentityValidation(t *testing.T) {
	svc := newTestLinker(newFakeLinkRepo(), &fakeLinkEmitter{})

	err := svc.LinkIdentity(context.Background(), Identity{Email: "jane@example.com"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}

	err = svc.LinkIdentity(context.Background(), Identity{ID: uuid.New(), Email: "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank email, got %v", err)
	}
}

func TestHandleIdentityCreatedQueuesRetryOnFailure(t *testing.T) {
	repo := newFakeLinkRepo()
	otherID := uuid.New()
	repo.profiles[otherID] = &models.Profile{ID: otherID, Email: "jane@example.com", Role: enums.RoleMember}
	svc := newTestLinker(repo, &fakeLinkEmitter{})

	identityID := uuid.New()
	if err := svc.HandleIdentityCreated(context.Background(), Identity{ID: identityID, Email: "jane@example.com"}); err != nil {
		t.Fatalf("expected failure swallowed into a task, got %v", err)
	}

	if len(repo.tasks) != 1 {
		t.Fatalf("expected one queued task, got %d", len(repo.tasks))
	}
	for _, task := range repo.tasks {
		if task.ProfileID != identityID || task.Email != "jane@example.com" {
			t.Fatalf("unexpected task %+v", task)
		}
		if task.Status != enums.LinkTaskPending || task.Attempts != 1 {
			t.Fatalf("expected pending task with one attempt, got %+v", task)
		}
		if task.LastError == nil {
			t.Fatal("expected last error recorded")
		}
	}
}

func TestHandleIdentityCreatedFallsBackToDirectSignup(t *testing.T) {
	repo := newFakeLinkRepo()
	repo.staged["jane@example.com"] = &models.StagedProfile{
		ID:         uuid.New(),
		Email:      "jane@example.com",
		Role:       enums.RoleCollector,
		PDGANumber: stringPtr("12345"),
	}
	emitter := &fakeLinkEmitter{err: errors.New("outbox unavailable")}
	svc := newTestLinker(repo, emitter)

	identityID := uuid.New()
	err := svc.HandleIdentityCreated(context.Background(), Identity{
		ID:          identityID,
		Email:       "Jane@Example.COM",
		DisplayName: stringPtr("Jane D"),
	})
	if err != nil {
		t.Fatalf("expected fallback to absorb the failure, got %v", err)
	}

	profile := repo.profiles[identityID]
	if profile == nil {
		t.Fatal("expected bare profile from the direct-signup fallback")
	}
	if profile.Email != "jane@example.com" || profile.Role != enums.RoleMember {
		t.Fatalf("expected bare member profile, got %+v", profile)
	}
	if profile.PDGANumber != nil {
		t.Fatal("expected staged data left for the sweep, not absorbed")
	}
	if len(repo.staged) != 1 {
		t.Fatal("expected staged row kept for the queued retry")
	}
	if len(repo.tasks) != 1 {
		t.Fatalf("expected one queued task, got %d", len(repo.tasks))
	}
}

func TestHandleIdentityCreatedDoesNotQueueValidationFailures(t *testing.T) {
	repo := newFakeLinkRepo()
	svc := newTestLinker(repo, &fakeLinkEmitter{})

	err := svc.HandleIdentityCreated(context.Background(), Identity{Email: ""})
	if err == nil {
		t.Fatal("expected validation error to propagate")
	}
	if len(repo.tasks) != 0 {
		t.Fatal("expected no task for unretryable input")
	}
}

func TestProcessPendingTasks(t *testing.T) {
	repo := newFakeLinkRepo()
	emitter := &fakeLinkEmitter{}
	svc := newTestLinker(repo, emitter)

	okID := uuid.New()
	okTask := &models.LinkTask{ID: uuid.New(), Email: "works@example.com", ProfileID: okID, Status: enums.LinkTaskPending, Attempts: 1}
	repo.tasks[okTask.ID] = okTask

	conflictOwner := uuid.New()
	repo.profiles[conflictOwner] = &models.Profile{ID: conflictOwner, Email: "conflict@example.com", Role: enums.RoleMember}
	badTask := &models.LinkTask{ID: uuid.New(), Email: "conflict@example.com", ProfileID: uuid.New(), Status: enums.LinkTaskPending, Attempts: 1}
	repo.tasks[badTask.ID] = badTask

	resolved, err := svc.ProcessPendingTasks(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != 1 {
		t.Fatalf("expected one task resolved, got %d", resolved)
	}

	if got := repo.tasks[okTask.ID]; got.Status != enums.LinkTaskResolved || got.LastError != nil {
		t.Fatalf("expected ok task resolved, got %+v", got)
	}
	if repo.profiles[okID] == nil {
		t.Fatal("expected profile created by the sweep")
	}

	if got := repo.tasks[badTask.ID]; got.Status != enums.LinkTaskFailed || got.Attempts != 2 {
		t.Fatalf("expected conflicting task to exhaust its budget, got %+v", got)
	}
}

func TestRetryTask(t *testing.T) {
	t.Run("resolves", func(t *testing.T) {
		repo := newFakeLinkRepo()
		svc := newTestLinker(repo, &fakeLinkEmitter{})
		task := &models.LinkTask{ID: uuid.New(), Email: "works@example.com", ProfileID: uuid.New(), Status: enums.LinkTaskPending, Attempts: 3}
		repo.tasks[task.ID] = task

		dto, err := svc.RetryTask(context.Background(), task.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dto.Status != enums.LinkTaskResolved {
			t.Fatalf("expected resolved, got %q", dto.Status)
		}
	})

	t.Run("alreadyResolved", func(t *testing.T) {
		repo := newFakeLinkRepo()
		svc := newTestLinker(repo, &fakeLinkEmitter{})
		task := &models.LinkTask{ID: uuid.New(), Email: "done@example.com", ProfileID: uuid.New(), Status: enums.LinkTaskResolved}
		repo.tasks[task.ID] = task

		_, err := svc.RetryTask(context.Background(), task.ID)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		svc := newTestLinker(newFakeLinkRepo(), &fakeLinkEmitter{})
		_, err := svc.RetryTask(context.Background(), uuid.New())
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func stringPtr(s string) *string {
	return &s
}
