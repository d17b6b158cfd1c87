package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

type fakeRepository struct {
	subs []models.Subscription
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) ListAll(ctx context.Context) ([]models.Subscription, error) {
	return f.subs, nil
}

func (f *fakeRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeRepository) Upsert(ctx context.Context, sub *models.Subscription) error { return nil }

func (f *fakeRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error { return nil }

func strptr(value string) *string { return &value }

func TestService_ResolveTierPrefersLiveSubscription(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRepository{subs: []models.Subscription{
		{
			UserID:    userID,
			Status:    enums.SubscriptionStatusActive,
			PlanName:  strptr("Edge Monthly"),
			CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	tier, err := svc.ResolveTier(context.Background(), userID, "quantum")
	if err != nil {
		t.Fatalf("ResolveTier error: %v", err)
	}
	if tier != enums.PlanTierEdge {
		t.Fatalf("live subscription should override profile, got %s", tier)
	}
}

func TestService_ResolveTierFallsBackToProfile(t *testing.T) {
	userID := uuid.New()
	repo := &fakeRepository{subs: []models.Subscription{
		{
			UserID:    userID,
			Status:    enums.SubscriptionStatusCanceled,
			PlanName:  strptr("Edge Monthly"),
			CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc, _ := NewService(repo)

	tier, err := svc.ResolveTier(context.Background(), userID, "quantum")
	if err != nil {
		t.Fatalf("ResolveTier error: %v", err)
	}
	if tier != enums.PlanTierQuantum {
		t.Fatalf("canceled subscription should not count, got %s", tier)
	}
}

func TestService_SnapshotFlattensOptionalColumns(t *testing.T) {
	repo := &fakeRepository{subs: []models.Subscription{
		{
			UserID:    uuid.New(),
			Status:    enums.SubscriptionStatusTrialing,
			PlanName:  strptr("Quantum Pro"),
			PlanType:  strptr("quantum"),
			CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			UserID:    uuid.New(),
			Status:    enums.SubscriptionStatusActive,
			CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	svc, _ := NewService(repo)

	records, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].PlanName != "Quantum Pro" || records[0].PlanType != "quantum" {
		t.Fatalf("optional columns not flattened: %+v", records[0])
	}
	if records[1].PlanName != "" {
		t.Fatalf("missing plan name should flatten to empty, got %q", records[1].PlanName)
	}
}
