package claims

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/discfound/discfound-backend/internal/contacts"
	"github.com/discfound/discfound-backend/pkg/config"
	"github.com/discfound/discfound-backend/pkg/db/models"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/security"
)

type fakeItemStore struct {
	rows  map[uuid.UUID]*models.FoundItem
	saved *models.FoundItem
}

func (f *fakeItemStore) FindByID(_ context.Context, id uuid.UUID) (*models.FoundItem, error) {
	if row, ok := f.rows[id]; ok {
		clone := *row
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemStore) Save(_ context.Context, item *models.FoundItem) (*models.FoundItem, error) {
	f.saved = item
	f.rows[item.ID] = item
	return item, nil
}

type fakeSourceStore struct {
	rows map[uuid.UUID]*models.SourceLocation
}

func (f *fakeSourceStore) FindByID(_ context.Context, id uuid.UUID) (*models.SourceLocation, error) {
	if row, ok := f.rows[id]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAttemptRecorder struct {
	last *contacts.RecordAttemptInput
}

func (f *fakeAttemptRecorder) RecordAttempt(_ context.Context, input contacts.RecordAttemptInput) (*contacts.ContactAttemptDTO, error) {
	f.last = &input
	return &contacts.ContactAttemptDTO{
		ID:          uuid.New(),
		FoundItemID: input.FoundItemID,
		Method:      input.Method,
		Message:     input.Message,
		AttemptedAt: time.Now().UTC(),
	}, nil
}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
		ClaimCodeLength:  6,
	}
}

func newTestService(itemStore *fakeItemStore, sourceStore *fakeSourceStore, recorder *fakeAttemptRecorder) *service {
	return &service{
		items:    itemStore,
		sources:  sourceStore,
		contacts: recorder,
		tokens:   testTokenConfig(),
		security: testSecurityConfig(),
	}
}

func shelfItem(sourceID *uuid.UUID) *models.FoundItem {
	return &models.FoundItem{
		ID:               uuid.New(),
		Brand:            "Innova",
		Mold:             "Destroyer",
		Color:            "Blue",
		Disposition:      enums.DispositionAvailable,
		SourceLocationID: sourceID,
	}
}

func TestMintClaimLinkStoresHashAndRecordsAttempt(t *testing.T) {
	sourceID := uuid.New()
	template := "Found your disc! Visit {link}, code {code}."
	itemStore := &fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}
	sourceStore := &fakeSourceStore{rows: map[uuid.UUID]*models.SourceLocation{
		sourceID: {ID: sourceID, Name: "Pro Shop", SMSInitialTemplate: &template},
	}}
	recorder := &fakeAttemptRecorder{}
	svc := newTestService(itemStore, sourceStore, recorder)

	item := shelfItem(&sourceID)
	itemStore.rows[item.ID] = item
	operator := uuid.New()

	dto, err := svc.MintClaimLink(context.Background(), item.ID, MintClaimLinkInput{OperatorProfileID: operator})
	if err != nil {
		t.Fatalf("mint claim link: %v", err)
	}

	if dto.PickupCode == "" || len(dto.PickupCode) != 6 {
		t.Fatalf("expected 6-char pickup code, got %q", dto.PickupCode)
	}
	if itemStore.saved == nil || itemStore.saved.ClaimCodeHash == nil {
		t.Fatalf("expected claim code hash to be persisted")
	}
	match, err := security.VerifyClaimCode(dto.PickupCode, *itemStore.saved.ClaimCodeHash)
	if err != nil || !match {
		t.Fatalf("stored hash should verify the issued code (match=%v err=%v)", match, err)
	}

	if !strings.Contains(dto.Message, dto.PickupCode) {
		t.Fatalf("rendered message should contain the code: %q", dto.Message)
	}
	if !strings.Contains(dto.Message, dto.ClaimURL) {
		t.Fatalf("rendered message should contain the link: %q", dto.Message)
	}
	if strings.Contains(dto.Message, "{code}") || strings.Contains(dto.Message, "{link}") {
		t.Fatalf("placeholders should be substituted: %q", dto.Message)
	}

	if recorder.last == nil {
		t.Fatalf("expected a contact attempt to be recorded")
	}
	if recorder.last.Method != enums.ContactMethodSMS {
		t.Fatalf("expected sms attempt got %s", recorder.last.Method)
	}
	if recorder.last.AttemptedByProfileID == nil || *recorder.last.AttemptedByProfileID != operator {
		t.Fatalf("expected attempt attributed to operator")
	}
}

func TestMintClaimLinkFallsBackWithoutTemplate(t *testing.T) {
	itemStore := &fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}
	recorder := &fakeAttemptRecorder{}
	svc := newTestService(itemStore, &fakeSourceStore{rows: map[uuid.UUID]*models.SourceLocation{}}, recorder)

	item := shelfItem(nil)
	itemStore.rows[item.ID] = item

	dto, err := svc.MintClaimLink(context.Background(), item.ID, MintClaimLinkInput{OperatorProfileID: uuid.New()})
	if err != nil {
		t.Fatalf("mint claim link: %v", err)
	}
	if !strings.Contains(dto.Message, dto.PickupCode) {
		t.Fatalf("fallback message should contain the code: %q", dto.Message)
	}
}

func TestMintClaimLinkRejectsTerminalItem(t *testing.T) {
	itemStore := &fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}
	svc := newTestService(itemStore, &fakeSourceStore{}, &fakeAttemptRecorder{})

	item := shelfItem(nil)
	item.Disposition = enums.DispositionReturnedToOwner
	itemStore.rows[item.ID] = item

	_, err := svc.MintClaimLink(context.Background(), item.ID, MintClaimLinkInput{OperatorProfileID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestLookupTokenReturnsPublicView(t *testing.T) {
	sourceID := uuid.New()
	itemStore := &fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}
	sourceStore := &fakeSourceStore{rows: map[uuid.UUID]*models.SourceLocation{
		sourceID: {ID: sourceID, Name: "Disc Barn"},
	}}
	svc := newTestService(itemStore, sourceStore, &fakeAttemptRecorder{})

	phone := "+15551234567"
	item := shelfItem(&sourceID)
	item.OwnerPhone = &phone
	itemStore.rows[item.ID] = item

	token, err := MintClaimToken(testTokenConfig(), time.Now().UTC(), item.ID)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	view, err := svc.LookupToken(context.Background(), token)
	if err != nil {
		t.Fatalf("lookup token: %v", err)
	}
	if view.ID != item.ID {
		t.Fatalf("expected item %s got %s", item.ID, view.ID)
	}
	if view.SourceName == nil || *view.SourceName != "Disc Barn" {
		t.Fatalf("expected source name on public view")
	}
}

func TestLookupTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(&fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}, &fakeSourceStore{}, &fakeAttemptRecorder{})

	_, err := svc.LookupToken(context.Background(), "not-a-token")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRedeemReturnsItemAndClearsHash(t *testing.T) {
	itemStore := &fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}
	svc := newTestService(itemStore, &fakeSourceStore{}, &fakeAttemptRecorder{})

	code := "ABC234"
	hash, err := security.HashClaimCode(code, testSecurityConfig())
	if err != nil {
		t.Fatalf("hash code: %v", err)
	}
	item := shelfItem(nil)
	item.ClaimCodeHash = &hash
	itemStore.rows[item.ID] = item

	operator := uuid.New()
	ownerName := "Jesse Owens"
	dto, err := svc.Redeem(context.Background(), item.ID, RedeemInput{
		Code:              code,
		OperatorProfileID: operator,
		OwnerName:         &ownerName,
	})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if dto.Disposition != enums.DispositionReturnedToOwner {
		t.Fatalf("expected returned_to_owner got %s", dto.Disposition)
	}
	if dto.ReturnedAt == nil {
		t.Fatalf("expected returned_at to be stamped")
	}
	if itemStore.saved.ClaimCodeHash != nil {
		t.Fatalf("expected claim code hash cleared after redeem")
	}
	if itemStore.saved.ReturnedByProfileID == nil || *itemStore.saved.ReturnedByProfileID != operator {
		t.Fatalf("expected redeem audit to record the operator")
	}
	if itemStore.saved.OwnerName == nil || *itemStore.saved.OwnerName != ownerName {
		t.Fatalf("expected owner name recorded")
	}
}

func TestRedeemRejectsWrongCode(t *testing.T) {
	itemStore := &fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}
	svc := newTestService(itemStore, &fakeSourceStore{}, &fakeAttemptRecorder{})

	hash, err := security.HashClaimCode("ABC234", testSecurityConfig())
	if err != nil {
		t.Fatalf("hash code: %v", err)
	}
	item := shelfItem(nil)
	item.ClaimCodeHash = &hash
	itemStore.rows[item.ID] = item

	_, err = svc.Redeem(context.Background(), item.ID, RedeemInput{Code: "XYZ789", OperatorProfileID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRedeemRequiresActiveLink(t *testing.T) {
	itemStore := &fakeItemStore{rows: map[uuid.UUID]*models.FoundItem{}}
	svc := newTestService(itemStore, &fakeSourceStore{}, &fakeAttemptRecorder{})

	item := shelfItem(nil)
	itemStore.rows[item.ID] = item

	_, err := svc.Redeem(context.Background(), item.ID, RedeemInput{Code: "ABC234", OperatorProfileID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
