package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

// EmailCampaign is an admin-authored bulk email addressed to a user segment.
type EmailCampaign struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedBy      uuid.UUID            `gorm:"column:created_by;type:uuid;not null"`
	Subject        string               `gorm:"column:subject;not null"`
	BodyHTML       string               `gorm:"column:body_html;not null"`
	Segment        enums.UserSegment    `gorm:"column:segment;not null;default:'external'"`
	PlanTiers      pq.StringArray       `gorm:"column:plan_tiers;type:text[]"`
	Status         enums.CampaignStatus `gorm:"column:status;type:campaign_status_enum;not null;default:'draft'"`
	RecipientCount int                  `gorm:"column:recipient_count;not null;default:0"`
	FailureCount   int                  `gorm:"column:failure_count;not null;default:0"`
	SentAt         *time.Time           `gorm:"column:sent_at"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
