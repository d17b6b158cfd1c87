package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
)

type fakeProfiles struct {
	profiles []models.UserProfile
	err      error
}

func (f *fakeProfiles) ListAll(ctx context.Context) ([]models.UserProfile, error) {
	return f.profiles, f.err
}

type fakeSubs struct {
	records []demographics.SubscriptionRecord
}

func (f *fakeSubs) Snapshot(ctx context.Context) ([]demographics.SubscriptionRecord, error) {
	return f.records, nil
}

func strptr(value string) *string { return &value }

func newTestService(t *testing.T, profiles *fakeProfiles, subs *fakeSubs) Service {
	t.Helper()
	engine := demographics.NewEngine([]string{"he2.ai", "he2.app"}, nil)
	svc, err := NewService(profiles, subs, engine, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestService_DemographicsAggregates(t *testing.T) {
	now := time.Now().UTC()
	edgeUser := uuid.New()
	profiles := &fakeProfiles{profiles: []models.UserProfile{
		{ID: uuid.New(), Email: strptr("a@he2.ai"), CreatedAt: now.AddDate(0, 0, -3), CountryCode: strptr("US")},
		{ID: edgeUser, Email: strptr("b@external.com"), CreatedAt: now.AddDate(0, 0, -4), CountryCode: strptr("DE")},
		{ID: uuid.New(), Email: strptr("c@external.com"), CreatedAt: now.AddDate(0, 0, -5), PlanType: strptr("quantum")},
	}}
	subs := &fakeSubs{records: []demographics.SubscriptionRecord{
		{UserID: edgeUser.String(), Status: enums.SubscriptionStatusActive, PlanName: "Edge Monthly", CreatedAt: now},
	}}
	svc := newTestService(t, profiles, subs)

	result, err := svc.Demographics(context.Background(), DemographicsQuery{
		Segment: enums.UserSegmentExternal,
		Range:   enums.DateRange30d,
	})
	if err != nil {
		t.Fatalf("Demographics error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("total = %d, want 2 external users", result.Total)
	}
	if result.Plans.Edge != 1 || result.Plans.Quantum != 1 {
		t.Fatalf("plans = %+v, want one edge and one quantum", result.Plans)
	}
}

func TestService_DemographicsValidatesQuery(t *testing.T) {
	svc := newTestService(t, &fakeProfiles{}, &fakeSubs{})

	cases := []DemographicsQuery{
		{Segment: "everyone", Range: enums.DateRangeAll},
		{Segment: enums.UserSegmentExternal, Range: "7d"},
	}
	for _, query := range cases {
		_, err := svc.Demographics(context.Background(), query)
		var coded *pkgerrors.Error
		if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
			t.Fatalf("query %+v: expected validation error, got %v", query, err)
		}
	}
}

func TestService_DemographicsWrapsLoadFailure(t *testing.T) {
	svc := newTestService(t, &fakeProfiles{err: errors.New("db down")}, &fakeSubs{})

	_, err := svc.Demographics(context.Background(), DemographicsQuery{
		Segment: enums.UserSegmentExternal,
		Range:   enums.DateRangeAll,
	})
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
