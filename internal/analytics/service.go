package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
	"github.com/he2-ai/backoffice-backend/pkg/metrics"
)

type profileLister interface {
	ListAll(ctx context.Context) ([]models.UserProfile, error)
}

type subscriptionSnapshotter interface {
	Snapshot(ctx context.Context) ([]demographics.SubscriptionRecord, error)
}

// Service answers the dashboard's aggregation queries.
type Service interface {
	Demographics(ctx context.Context, query DemographicsQuery) (*demographics.Result, error)
}

// DemographicsQuery carries the parsed filter parameters.
type DemographicsQuery struct {
	Segment  enums.UserSegment
	Range    enums.DateRange
	Referral string
}

type service struct {
	profiles profileLister
	subs     subscriptionSnapshotter
	engine   *demographics.Engine
	metrics  *metrics.APIMetrics
}

// NewService builds the analytics service.
func NewService(profiles profileLister, subs subscriptionSnapshotter, engine *demographics.Engine, apiMetrics *metrics.APIMetrics) (Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile lister required")
	}
	if subs == nil {
		return nil, fmt.Errorf("subscription snapshotter required")
	}
	if engine == nil {
		return nil, fmt.Errorf("demographics engine required")
	}
	return &service{profiles: profiles, subs: subs, engine: engine, metrics: apiMetrics}, nil
}

// Demographics loads the current snapshots and aggregates them in memory.
func (s *service) Demographics(ctx context.Context, query DemographicsQuery) (*demographics.Result, error) {
	if !query.Segment.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid segment %q", query.Segment))
	}
	if !query.Range.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid range %q", query.Range))
	}
	referral := query.Referral
	if referral == "" {
		referral = demographics.ReferralAll
	}

	started := time.Now()
	defer func() {
		s.metrics.ObserveQueryDuration("demographics", time.Since(started))
	}()

	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile snapshot")
	}
	subs, err := s.subs.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subscription snapshot")
	}

	result := s.engine.Aggregate(toRecords(profiles), subs, demographics.FilterSpec{
		Segment:  query.Segment,
		Range:    query.Range,
		Referral: referral,
	})
	return &result, nil
}

func toRecords(profiles []models.UserProfile) []demographics.UserRecord {
	records := make([]demographics.UserRecord, 0, len(profiles))
	for i := range profiles {
		profile := &profiles[i]
		userID := ""
		if profile.ID != uuid.Nil {
			userID = profile.ID.String()
		}
		records = append(records, demographics.UserRecord{
			UserID:         userID,
			Email:          deref(profile.Email),
			CreatedAt:      profile.CreatedAt,
			AccountType:    deref(profile.AccountType),
			PlanType:       deref(profile.PlanType),
			ReferralSource: deref(profile.ReferralSource),
			CountryCode:    deref(profile.CountryCode),
			CountryName:    deref(profile.CountryName),
		})
	}
	return records
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
