package subscriptions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
)

// Service exposes the subscription read model to the rest of the back office.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	ResolveTier(ctx context.Context, userID uuid.UUID, profilePlanType string) (enums.PlanTier, error)
	Snapshot(ctx context.Context) ([]demographics.SubscriptionRecord, error)
}

type service struct {
	repo Repository
}

// NewService builds a subscription read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	subs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscriptions")
	}
	return subs, nil
}

// ResolveTier returns the user's effective plan tier: their live subscription
// when one exists, otherwise the profile's own plan type.
func (s *service) ResolveTier(ctx context.Context, userID uuid.UUID, profilePlanType string) (enums.PlanTier, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	subs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscriptions")
	}

	index := demographics.BuildPlanIndex(toRecords(subs))
	if tier, ok := index[userID.String()]; ok {
		return tier, nil
	}
	return demographics.TierFromProfile(profilePlanType), nil
}

// Snapshot loads every subscription row in aggregation form.
func (s *service) Snapshot(ctx context.Context) ([]demographics.SubscriptionRecord, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subscription snapshot")
	}
	return toRecords(subs), nil
}

func toRecords(subs []models.Subscription) []demographics.SubscriptionRecord {
	records := make([]demographics.SubscriptionRecord, 0, len(subs))
	for _, sub := range subs {
		record := demographics.SubscriptionRecord{
			UserID:    sub.UserID.String(),
			Status:    sub.Status,
			CreatedAt: sub.CreatedAt,
		}
		if sub.PlanName != nil {
			record.PlanName = *sub.PlanName
		}
		if sub.PlanType != nil {
			record.PlanType = *sub.PlanType
		}
		records = append(records, record)
	}
	return records
}
