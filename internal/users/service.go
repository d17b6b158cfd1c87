package users

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
	"github.com/he2-ai/backoffice-backend/pkg/metrics"
	"github.com/he2-ai/backoffice-backend/pkg/pagination"
)

// Service defines the admin surface over user profiles.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.UserProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (*BulkDeleteReport, error)
}

type service struct {
	repo    Repository
	metrics *metrics.APIMetrics
}

// NewService builds a user profile service.
func NewService(repo Repository, apiMetrics *metrics.APIMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, metrics: apiMetrics}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return profile, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	profiles, err := s.repo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}

	response := &ListResponse{Users: make([]ProfileResponse, 0, len(profiles)), Total: total}
	if len(profiles) > limit {
		last := profiles[limit-1]
		response.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		profiles = profiles[:limit]
	}
	for i := range profiles {
		response.Users = append(response.Users, ToProfileResponse(&profiles[i]))
	}
	return response, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyOptional(&profile.DisplayName, input.DisplayName)
	applyOptional(&profile.AccountType, input.AccountType)
	applyOptional(&profile.PlanType, input.PlanType)
	applyOptional(&profile.ReferralSource, input.ReferralSource)
	applyOptional(&profile.CountryCode, input.CountryCode)
	applyOptional(&profile.CountryName, input.CountryName)

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return profile, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

// BulkDelete removes the given profiles one by one and keeps going on
// failure. The per-id errors are combined into one; the report carries the
// ids that need a retry.
func (s *service) BulkDelete(ctx context.Context, ids []uuid.UUID) (*BulkDeleteReport, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one user id is required")
	}

	report := &BulkDeleteReport{}
	var combined error
	for _, id := range ids {
		if err := s.repo.Delete(ctx, id); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("delete %s: %w", id, err))
			report.Failed = append(report.Failed, id)
			s.metrics.IncBulkOutcome("bulk_delete", false)
			continue
		}
		report.Deleted++
		s.metrics.IncBulkOutcome("bulk_delete", true)
	}

	if combined != nil && report.Deleted == 0 {
		return report, pkgerrors.Wrap(pkgerrors.CodeInternal, combined, "bulk delete failed")
	}
	return report, nil
}

// applyOptional overwrites dst when the patch field is present. An empty
// string in the patch clears the column.
func applyOptional(dst **string, patch *string) {
	if patch == nil {
		return
	}
	trimmed := strings.TrimSpace(*patch)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}
