package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

// Subscription is a read-side snapshot of billing subscription state per user.
// A user may accumulate several rows over time; plan resolution only consults
// active/trialing ones.
type Subscription struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	Status             enums.SubscriptionStatus `gorm:"column:status;type:subscription_status_enum;not null;default:'active'"`
	PlanName           *string                  `gorm:"column:plan_name"`
	PlanType           *string                  `gorm:"column:plan_type"`
	CurrentPeriodStart *time.Time               `gorm:"column:current_period_start"`
	CurrentPeriodEnd   *time.Time               `gorm:"column:current_period_end"`
	CanceledAt         *time.Time               `gorm:"column:canceled_at"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
