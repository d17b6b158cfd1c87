package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
)

// Repository manages persistence for admin accounts.
type Repository interface {
	Create(ctx context.Context, admin *models.AdminAccount) error
	FindByEmail(ctx context.Context, email string) (*models.AdminAccount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdminAccount, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an admin account repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, admin *models.AdminAccount) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	if err := r.db.WithContext(ctx).First(&admin, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminAccount{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
