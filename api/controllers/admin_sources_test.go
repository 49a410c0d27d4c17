package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	sourcesvc "github.com/discfound/discfound-backend/internal/sources"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
)

type stubSourceService struct {
	createInput     sourcesvc.CreateSourceInput
	updateID        uuid.UUID
	updateInput     sourcesvc.UpdateSourceInput
	includeInactive bool
	source          *sourcesvc.SourceLocationDTO
	sources         []sourcesvc.SourceLocationDTO
	err             error
}

func (s *stubSourceService) CreateSource(ctx context.Context, input sourcesvc.CreateSourceInput) (*sourcesvc.SourceLocationDTO, error) {
	s.createInput = input
	return s.source, s.err
}

func (s *stubSourceService) GetSource(ctx context.Context, id uuid.UUID) (*sourcesvc.SourceLocationDTO, error) {
	return s.source, s.err
}

func (s *stubSourceService) ListSources(ctx context.Context, includeInactive bool) ([]sourcesvc.SourceLocationDTO, error) {
	s.includeInactive = includeInactive
	return s.sources, s.err
}

func (s *stubSourceService) UpdateSource(ctx context.Context, id uuid.UUID, input sourcesvc.UpdateSourceInput) (*sourcesvc.SourceLocationDTO, error) {
	s.updateID = id
	s.updateInput = input
	return s.source, s.err
}

func TestAdminCreateSourceSuccess(t *testing.T) {
	svc := &stubSourceService{source: &sourcesvc.SourceLocationDTO{ID: uuid.New(), Name: "Hornet's Nest", Active: true}}
	handler := AdminCreateSource(svc, nil)

	payload := []byte(`{"name": "Hornet's Nest", "sort_order": 3, "sms_initial_template": "Found your disc! {link} code {code}"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/sources", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.createInput.Name != "Hornet's Nest" {
		t.Fatalf("unexpected name %q", svc.createInput.Name)
	}
	if svc.createInput.SortOrder != 3 {
		t.Fatalf("expected sort order 3 got %d", svc.createInput.SortOrder)
	}
	if svc.createInput.SMSInitialTemplate == nil {
		t.Fatal("expected sms template to be forwarded")
	}
}

func TestAdminCreateSourceRequiresName(t *testing.T) {
	handler := AdminCreateSource(&stubSourceService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/sources", bytes.NewReader([]byte(`{"sort_order": 1}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminListSourcesIncludesInactiveOnRequest(t *testing.T) {
	svc := &stubSourceService{sources: []sourcesvc.SourceLocationDTO{}}
	handler := AdminListSources(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/sources?include_inactive=true", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.includeInactive {
		t.Fatal("expected include_inactive to be forwarded")
	}
}

func TestListSourcesAlwaysActiveOnly(t *testing.T) {
	svc := &stubSourceService{sources: []sourcesvc.SourceLocationDTO{{ID: uuid.New(), Name: "Lake 9", Active: true}}}
	handler := ListSources(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.includeInactive {
		t.Fatal("member listing must not include inactive sources")
	}

	var envelope struct {
		Data []sourcesvc.SourceLocationDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "Lake 9" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminUpdateSourceSuccess(t *testing.T) {
	sourceID := uuid.New()
	svc := &stubSourceService{source: &sourcesvc.SourceLocationDTO{ID: sourceID, Name: "Pro Shop", Active: false}}
	handler := AdminUpdateSource(svc, nil)

	payload := []byte(`{"active": false, "sort_order": 7}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/sources/"+sourceID.String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("sourceId", sourceID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updateID != sourceID {
		t.Fatalf("expected source id %s got %s", sourceID, svc.updateID)
	}
	if svc.updateInput.Active == nil || *svc.updateInput.Active {
		t.Fatal("expected active=false to be forwarded")
	}
	if svc.updateInput.SortOrder == nil || *svc.updateInput.SortOrder != 7 {
		t.Fatal("expected sort order to be forwarded")
	}
	if svc.updateInput.Name != nil {
		t.Fatal("expected omitted name to stay nil")
	}
}

func TestAdminGetSourceNotFound(t *testing.T) {
	sourceID := uuid.New()
	handler := AdminGetSource(&stubSourceService{err: pkgerrors.New(pkgerrors.CodeNotFound, "missing")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/sources/"+sourceID.String(), nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("sourceId", sourceID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
