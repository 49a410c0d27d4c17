package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
)

type fakeAttemptStore struct {
	created *models.ContactAttempt
	rows    []models.ContactAttempt
}

func (f *fakeAttemptStore) Create(_ context.Context, attempt *models.ContactAttempt) (*models.ContactAttempt, error) {
	attempt.ID = uuid.New()
	f.created = attempt
	return attempt, nil
}

func (f *fakeAttemptStore) ListByItem(_ context.Context, itemID uuid.UUID) ([]models.ContactAttempt, error) {
	var out []models.ContactAttempt
	for _, row := range f.rows {
		if row.FoundItemID == itemID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeItemChecker struct {
	known map[uuid.UUID]bool
}

func (f *fakeItemChecker) FindByID(_ context.Context, id uuid.UUID) (*models.FoundItem, error) {
	if f.known[id] {
		return &models.FoundItem{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestRecordAttempt(t *testing.T) {
	itemID := uuid.New()
	store := &fakeAttemptStore{}
	svc := &service{
		store: store,
		items: &fakeItemChecker{known: map[uuid.UUID]bool{itemID: true}},
	}

	operator := uuid.New()
	dto, err := svc.RecordAttempt(context.Background(), RecordAttemptInput{
		FoundItemID:          itemID,
		Method:               enums.ContactMethodSMS,
		Message:              stringPtr("  We found your disc!  "),
		AttemptedByProfileID: &operator,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Method != enums.ContactMethodSMS {
		t.Fatalf("expected sms method, got %s", dto.Method)
	}
	if dto.Message == nil || *dto.Message != "We found your disc!" {
		t.Fatalf("expected trimmed message, got %v", dto.Message)
	}
	if dto.AttemptedAt.IsZero() {
		t.Fatal("expected attempted_at to default")
	}
	if store.created == nil || store.created.ImportDigest != nil {
		t.Fatal("expected operator-recorded attempt without import digest")
	}
}

func TestRecordAttemptValidation(t *testing.T) {
	itemID := uuid.New()
	svc := &service{
		store: &fakeAttemptStore{},
		items: &fakeItemChecker{known: map[uuid.UUID]bool{itemID: true}},
	}

	t.Run("bad method", func(t *testing.T) {
		_, err := svc.RecordAttempt(context.Background(), RecordAttemptInput{
			FoundItemID: itemID,
			Method:      enums.ContactMethod("carrier_pigeon"),
		})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error code, got %v", err)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.RecordAttempt(context.Background(), RecordAttemptInput{
			FoundItemID: uuid.New(),
			Method:      enums.ContactMethodPhone,
		})
		if err == nil {
			t.Fatal("expected not found error")
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found code, got %v", err)
		}
	})
}

func TestListAttempts(t *testing.T) {
	itemID := uuid.New()
	now := time.Now().UTC()
	store := &fakeAttemptStore{rows: []models.ContactAttempt{
		{ID: uuid.New(), FoundItemID: itemID, Method: enums.ContactMethodSMS, AttemptedAt: now},
		{ID: uuid.New(), FoundItemID: uuid.New(), Method: enums.ContactMethodPhone, AttemptedAt: now},
	}}
	svc := &service{
		store: store,
		items: &fakeItemChecker{known: map[uuid.UUID]bool{itemID: true}},
	}

	rows, err := svc.ListAttempts(context.Background(), itemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 attempt for item, got %d", len(rows))
	}
}

func stringPtr(value string) *string {
	return &value
}
