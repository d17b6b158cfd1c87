package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	internalanalytics "github.com/he2-ai/backoffice-backend/internal/analytics"
	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

type stubAnalyticsService struct {
	demographicsFn func(ctx context.Context, query internalanalytics.DemographicsQuery) (*demographics.Result, error)
}

func (s stubAnalyticsService) Demographics(ctx context.Context, query internalanalytics.DemographicsQuery) (*demographics.Result, error) {
	if s.demographicsFn != nil {
		return s.demographicsFn(ctx, query)
	}
	return &demographics.Result{}, nil
}

func TestDemographicsDefaults(t *testing.T) {
	service := stubAnalyticsService{
		demographicsFn: func(ctx context.Context, query internalanalytics.DemographicsQuery) (*demographics.Result, error) {
			if query.Segment != enums.UserSegmentExternal {
				t.Fatalf("unexpected segment %q", query.Segment)
			}
			if query.Range != enums.DateRangeAll {
				t.Fatalf("unexpected range %q", query.Range)
			}
			if query.Referral != demographics.ReferralAll {
				t.Fatalf("unexpected referral %q", query.Referral)
			}
			return &demographics.Result{Total: 7}, nil
		},
	}

	handler := Demographics(service, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data demographics.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 7 {
		t.Fatalf("unexpected total %d", envelope.Data.Total)
	}
}

func TestDemographicsExplicitParams(t *testing.T) {
	service := stubAnalyticsService{
		demographicsFn: func(ctx context.Context, query internalanalytics.DemographicsQuery) (*demographics.Result, error) {
			if query.Segment != enums.UserSegmentInternal {
				t.Fatalf("unexpected segment %q", query.Segment)
			}
			if query.Range != enums.DateRange90d {
				t.Fatalf("unexpected range %q", query.Range)
			}
			if query.Referral != "twitter" {
				t.Fatalf("unexpected referral %q", query.Referral)
			}
			return &demographics.Result{}, nil
		},
	}

	handler := Demographics(service, nil)
	req := httptest.NewRequest(http.MethodGet, "/?segment=internal&range=90d&referral=twitter", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestDemographicsRejectsBadRange(t *testing.T) {
	handler := Demographics(stubAnalyticsService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/?range=14d", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
