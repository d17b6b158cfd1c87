package campaigns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
)

// Repository manages persistence for email campaigns.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, campaign *models.EmailCampaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.EmailCampaign, error)
	List(ctx context.Context) ([]models.EmailCampaign, error)
	Update(ctx context.Context, campaign *models.EmailCampaign) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a campaign repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, campaign *models.EmailCampaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.EmailCampaign, error) {
	var campaign models.EmailCampaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *repository) List(ctx context.Context) ([]models.EmailCampaign, error) {
	var campaigns []models.EmailCampaign
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *repository) Update(ctx context.Context, campaign *models.EmailCampaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}
