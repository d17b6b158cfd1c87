package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the product-side account record the back office manages.
// Most demographic fields are optional free text coming from the signup flow.
type UserProfile struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          *string    `gorm:"type:text;uniqueIndex"`
	DisplayName    *string    `gorm:"column:display_name"`
	AccountType    *string    `gorm:"column:account_type"`
	PlanType       *string    `gorm:"column:plan_type"`
	ReferralSource *string    `gorm:"column:referral_source"`
	CountryCode    *string    `gorm:"column:country_code"`
	CountryName    *string    `gorm:"column:country_name"`
	LastSeenAt     *time.Time `gorm:"column:last_seen_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (UserProfile) TableName() string {
	return "user_profiles"
}
