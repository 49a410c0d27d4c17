package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	claimsvc "github.com/discfound/discfound-backend/internal/claims"
	itemsvc "github.com/discfound/discfound-backend/internal/items"
	"github.com/discfound/discfound-backend/pkg/enums"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
)

type stubClaimService struct {
	mintID      uuid.UUID
	mintInput   claimsvc.MintClaimLinkInput
	link        *claimsvc.ClaimLinkDTO
	lookupToken string
	publicItem  *claimsvc.PublicItemDTO
	redeemID    uuid.UUID
	redeemInput claimsvc.RedeemInput
	item        *itemsvc.ItemDTO
	err         error
}

func (s *stubClaimService) MintClaimLink(ctx context.Context, itemID uuid.UUID, input claimsvc.MintClaimLinkInput) (*claimsvc.ClaimLinkDTO, error) {
	s.mintID = itemID
	s.mintInput = input
	return s.link, s.err
}

func (s *stubClaimService) LookupToken(ctx context.Context, token string) (*claimsvc.PublicItemDTO, error) {
	s.lookupToken = token
	return s.publicItem, s.err
}

func (s *stubClaimService) Redeem(ctx context.Context, itemID uuid.UUID, input claimsvc.RedeemInput) (*itemsvc.ItemDTO, error) {
	s.redeemID = itemID
	s.redeemInput = input
	return s.item, s.err
}

func TestAdminMintClaimLinkSuccess(t *testing.T) {
	itemID := uuid.New()
	operatorID := uuid.New()
	svc := &stubClaimService{link: &claimsvc.ClaimLinkDTO{
		ItemID:     itemID,
		Token:      "token-value",
		ClaimURL:   "https://found.discfound.org/claims/token-value",
		PickupCode: "X7K2M9",
		ExpiresAt:  time.Now().Add(14 * 24 * time.Hour),
	}}
	handler := AdminMintClaimLink(svc, nil)

	payload := []byte(`{"owner_name": "Sam Posey", "owner_phone": "405-555-0133"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/items/"+itemID.String()+"/claim-link", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = memberContext(ctx, operatorID, enums.RoleOperator)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.mintID != itemID {
		t.Fatalf("expected item id %s got %s", itemID, svc.mintID)
	}
	if svc.mintInput.OperatorProfileID != operatorID {
		t.Fatal("expected operator id to be forwarded")
	}
	if svc.mintInput.OwnerName == nil || *svc.mintInput.OwnerName != "Sam Posey" {
		t.Fatal("expected owner name to be forwarded")
	}

	var envelope struct {
		Data claimsvc.ClaimLinkDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.PickupCode != "X7K2M9" {
		t.Fatalf("expected pickup code in response, got %q", envelope.Data.PickupCode)
	}
}

func TestAdminMintClaimLinkTerminalItem(t *testing.T) {
	itemID := uuid.New()
	svc := &stubClaimService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "item already left the shelf")}
	handler := AdminMintClaimLink(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/items/"+itemID.String()+"/claim-link", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = memberContext(ctx, uuid.New(), enums.RoleOperator)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestPublicClaimLookupSuccess(t *testing.T) {
	svc := &stubClaimService{publicItem: &claimsvc.PublicItemDTO{
		ID:          uuid.New(),
		Brand:       "Innova",
		Mold:        "Destroyer",
		Color:       "blue",
		Disposition: enums.DispositionAvailable,
	}}
	handler := PublicClaimLookup(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/claims/some-token", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("token", "some-token")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lookupToken != "some-token" {
		t.Fatalf("expected token forwarded, got %q", svc.lookupToken)
	}

	var envelope struct {
		Data claimsvc.PublicItemDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Brand != "Innova" {
		t.Fatalf("unexpected brand %q", envelope.Data.Brand)
	}
}

func TestPublicClaimLookupExpiredToken(t *testing.T) {
	svc := &stubClaimService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired claim link")}
	handler := PublicClaimLookup(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/claims/stale", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("token", "stale")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAdminRedeemClaimSuccess(t *testing.T) {
	itemID := uuid.New()
	operatorID := uuid.New()
	svc := &stubClaimService{item: &itemsvc.ItemDTO{ID: itemID, Disposition: enums.DispositionReturnedToOwner}}
	handler := AdminRedeemClaim(svc, nil)

	payload := []byte(`{"code": "x7k2m9", "owner_name": "Sam Posey"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/items/"+itemID.String()+"/claim", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = memberContext(ctx, operatorID, enums.RoleOperator)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.redeemID != itemID {
		t.Fatalf("expected item id %s got %s", itemID, svc.redeemID)
	}
	if svc.redeemInput.Code != "x7k2m9" {
		t.Fatalf("expected code forwarded, got %q", svc.redeemInput.Code)
	}
	if svc.redeemInput.OperatorProfileID != operatorID {
		t.Fatal("expected operator id to be forwarded")
	}
}

func TestAdminRedeemClaimRequiresCode(t *testing.T) {
	itemID := uuid.New()
	handler := AdminRedeemClaim(&stubClaimService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/items/"+itemID.String()+"/claim", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = memberContext(ctx, uuid.New(), enums.RoleOperator)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminRedeemClaimWrongCode(t *testing.T) {
	itemID := uuid.New()
	svc := &stubClaimService{err: pkgerrors.New(pkgerrors.CodeForbidden, "pickup code does not match")}
	handler := AdminRedeemClaim(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/items/"+itemID.String()+"/claim", bytes.NewReader([]byte(`{"code": "WRONG1"}`)))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("itemId", itemID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = memberContext(ctx, uuid.New(), enums.RoleOperator)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
