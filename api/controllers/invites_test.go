package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	internalinvites "github.com/he2-ai/backoffice-backend/internal/invites"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

type stubInvitesService struct {
	createFn func(ctx context.Context, createdBy uuid.UUID, input internalinvites.CreateInviteInput) (*models.InviteCode, error)
	listFn   func(ctx context.Context) ([]models.InviteCode, error)
	revokeFn func(ctx context.Context, id uuid.UUID) (*models.InviteCode, error)
	redeemFn func(ctx context.Context, code string) (*models.InviteCode, error)
}

func (s stubInvitesService) Create(ctx context.Context, createdBy uuid.UUID, input internalinvites.CreateInviteInput) (*models.InviteCode, error) {
	if s.createFn != nil {
		return s.createFn(ctx, createdBy, input)
	}
	return nil, nil
}

func (s stubInvitesService) List(ctx context.Context) ([]models.InviteCode, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s stubInvitesService) Revoke(ctx context.Context, id uuid.UUID) (*models.InviteCode, error) {
	if s.revokeFn != nil {
		return s.revokeFn(ctx, id)
	}
	return nil, nil
}

func (s stubInvitesService) Redeem(ctx context.Context, code string) (*models.InviteCode, error) {
	if s.redeemFn != nil {
		return s.redeemFn(ctx, code)
	}
	return nil, nil
}

func TestRedeemInvite(t *testing.T) {
	service := stubInvitesService{
		redeemFn: func(ctx context.Context, code string) (*models.InviteCode, error) {
			if code != "ABCDE23456" {
				t.Fatalf("unexpected code %q", code)
			}
			return &models.InviteCode{Code: code, Status: enums.InviteStatusActive, UseCount: 1}, nil
		},
	}

	handler := RedeemInvite(service, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"ABCDE23456"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data models.InviteCode `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UseCount != 1 {
		t.Fatalf("unexpected use count %d", envelope.Data.UseCount)
	}
}

func TestRedeemInviteMissingCode(t *testing.T) {
	handler := RedeemInvite(stubInvitesService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"  "}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateInviteRequiresActor(t *testing.T) {
	handler := CreateInvite(stubInvitesService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
