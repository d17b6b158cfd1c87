package invites

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/pkg/config"
	"github.com/he2-ai/backoffice-backend/pkg/db"
	"github.com/he2-ai/backoffice-backend/pkg/db/models"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
	"github.com/he2-ai/backoffice-backend/pkg/security"
)

// createAttempts bounds retries when a generated code collides.
const createAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the invite code surface.
type Service interface {
	Create(ctx context.Context, createdBy uuid.UUID, input CreateInviteInput) (*models.InviteCode, error)
	List(ctx context.Context) ([]models.InviteCode, error)
	Revoke(ctx context.Context, id uuid.UUID) (*models.InviteCode, error)
	Redeem(ctx context.Context, code string) (*models.InviteCode, error)
}

// CreateInviteInput captures admin-provided invite parameters. Zero values
// fall back to the configured defaults.
type CreateInviteInput struct {
	MaxUses   int        `json:"max_uses" validate:"omitempty,min=1,max=10000"`
	Note      string     `json:"note"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.InvitesConfig
	now  func() time.Time
}

// NewService builds an invite service.
func NewService(repo Repository, tx txRunner, cfg config.InvitesConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invites repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cfg: cfg, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, input CreateInviteInput) (*models.InviteCode, error) {
	if createdBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}

	maxUses := input.MaxUses
	if maxUses <= 0 {
		maxUses = s.cfg.DefaultMaxUses
	}

	expiresAt := input.ExpiresAt
	if expiresAt == nil && s.cfg.DefaultTTL > 0 {
		at := s.now().Add(s.cfg.DefaultTTL)
		expiresAt = &at
	}
	if expiresAt != nil && expiresAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be in the future")
	}

	invite := &models.InviteCode{
		CreatedBy: createdBy,
		Status:    enums.InviteStatusActive,
		MaxUses:   maxUses,
		ExpiresAt: expiresAt,
	}
	if note := strings.TrimSpace(input.Note); note != "" {
		invite.Note = &note
	}

	// Codes are random; a unique collision is possible, so retry with a
	// fresh one before giving up.
	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := security.GenerateCode(s.cfg.CodeLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invite code")
		}
		invite.Code = code

		err = s.repo.Create(ctx, invite)
		if err == nil {
			return invite, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create invite")
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique invite code")
}

func (s *service) List(ctx context.Context) ([]models.InviteCode, error) {
	invites, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invites")
	}
	return invites, nil
}

func (s *service) Revoke(ctx context.Context, id uuid.UUID) (*models.InviteCode, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite id is required")
	}

	invite, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invite")
	}
	if invite.Status == enums.InviteStatusRevoked {
		return invite, nil
	}

	invite.Status = enums.InviteStatusRevoked
	if err := s.repo.Update(ctx, invite); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke invite")
	}
	return invite, nil
}

// Redeem consumes one use of the code. The use counter is bumped with a
// conditional update so two concurrent redemptions cannot both take the
// last slot, and the increment plus the exhausted-status flip commit in one
// transaction.
func (s *service) Redeem(ctx context.Context, code string) (*models.InviteCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invite code is required")
	}

	var redeemed *models.InviteCode
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		invite, err := repo.FindByCode(ctx, code)
		if err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invite")
		}

		switch {
		case invite.Status != enums.InviteStatusActive:
			return pkgerrors.New(pkgerrors.CodeConflict, "invite is no longer active")
		case invite.ExpiresAt != nil && invite.ExpiresAt.Before(s.now()):
			return pkgerrors.New(pkgerrors.CodeConflict, "invite has expired")
		}

		affected, err := repo.IncrementUse(ctx, invite.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "redeem invite")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "invite has no uses left")
		}

		// Re-read the incremented row so a concurrent redemption's slot is
		// counted when deciding whether the code is spent; the copy loaded
		// above may be stale by now.
		fresh, err := repo.FindByID(ctx, invite.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload invite")
		}
		if fresh.UseCount >= fresh.MaxUses {
			fresh.Status = enums.InviteStatusExhausted
			if err := repo.Update(ctx, fresh); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark invite exhausted")
			}
		}
		redeemed = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redeemed, nil
}
