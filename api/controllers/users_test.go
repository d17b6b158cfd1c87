package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	internalusers "github.com/he2-ai/backoffice-backend/internal/users"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/pagination"
)

type stubUsersService struct {
	getFn        func(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	listFn       func(ctx context.Context, filter internalusers.ListFilter, params pagination.Params) (*internalusers.ListResponse, error)
	updateFn     func(ctx context.Context, id uuid.UUID, input internalusers.UpdateProfileInput) (*models.UserProfile, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	bulkDeleteFn func(ctx context.Context, ids []uuid.UUID) (*internalusers.BulkDeleteReport, error)
}

func (s stubUsersService) Get(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func (s stubUsersService) List(ctx context.Context, filter internalusers.ListFilter, params pagination.Params) (*internalusers.ListResponse, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter, params)
	}
	return &internalusers.ListResponse{}, nil
}

func (s stubUsersService) Update(ctx context.Context, id uuid.UUID, input internalusers.UpdateProfileInput) (*models.UserProfile, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return nil, nil
}

func (s stubUsersService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s stubUsersService) BulkDelete(ctx context.Context, ids []uuid.UUID) (*internalusers.BulkDeleteReport, error) {
	if s.bulkDeleteFn != nil {
		return s.bulkDeleteFn(ctx, ids)
	}
	return &internalusers.BulkDeleteReport{}, nil
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestListUsersPassesFilters(t *testing.T) {
	userID := uuid.New()
	service := stubUsersService{
		listFn: func(ctx context.Context, filter internalusers.ListFilter, params pagination.Params) (*internalusers.ListResponse, error) {
			if params.Limit != 10 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if filter.Search != "acme" || filter.PlanType != "edge" {
				t.Fatalf("unexpected filter %+v", filter)
			}
			return &internalusers.ListResponse{
				Users: []internalusers.ProfileResponse{{ID: userID, Email: "a@example.com", CreatedAt: time.Now().UTC()}},
			}, nil
		},
	}

	handler := ListUsers(service, nil)
	req := httptest.NewRequest(http.MethodGet, "/?limit=10&search=acme&plan_type=edge", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data internalusers.ListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Users) != 1 || envelope.Data.Users[0].ID != userID {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestGetUserInvalidID(t *testing.T) {
	handler := GetUser(stubUsersService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = withURLParam(req, "userId", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetUserFound(t *testing.T) {
	userID := uuid.New()
	email := "found@example.com"
	service := stubUsersService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
			if id != userID {
				t.Fatalf("unexpected id %s", id)
			}
			return &models.UserProfile{ID: userID, Email: &email}, nil
		},
	}

	handler := GetUser(service, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = withURLParam(req, "userId", userID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data internalusers.ProfileResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Email != email {
		t.Fatalf("unexpected email %q", envelope.Data.Email)
	}
}

func TestBulkDeleteUsersRejectsEmptyBody(t *testing.T) {
	handler := BulkDeleteUsers(stubUsersService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
