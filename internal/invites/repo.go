package invites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
)

// Repository manages persistence for invite codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invite *models.InviteCode) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InviteCode, error)
	FindByCode(ctx context.Context, code string) (*models.InviteCode, error)
	List(ctx context.Context) ([]models.InviteCode, error)
	Update(ctx context.Context, invite *models.InviteCode) error
	IncrementUse(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invite repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invite *models.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InviteCode, error) {
	var invite models.InviteCode
	if err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	if err := r.db.WithContext(ctx).First(&invite, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *repository) List(ctx context.Context) ([]models.InviteCode, error) {
	var invites []models.InviteCode
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *repository) Update(ctx context.Context, invite *models.InviteCode) error {
	return r.db.WithContext(ctx).Save(invite).Error
}

// IncrementUse bumps use_count only while the invite still has room,
// guarding concurrent redemptions with a conditional update.
func (r *repository) IncrementUse(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InviteCode{}).
		Where("id = ? AND use_count < max_uses", id).
		UpdateColumn("use_count", gorm.Expr("use_count + 1"))
	return result.RowsAffected, result.Error
}
