package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

// InviteCode gates self-serve signups behind a redeemable code.
type InviteCode struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string             `gorm:"column:code;not null;uniqueIndex"`
	CreatedBy uuid.UUID          `gorm:"column:created_by;type:uuid;not null"`
	Status    enums.InviteStatus `gorm:"column:status;type:invite_status_enum;not null;default:'active'"`
	MaxUses   int                `gorm:"column:max_uses;not null;default:1"`
	UseCount  int                `gorm:"column:use_count;not null;default:0"`
	Note      *string            `gorm:"column:note"`
	ExpiresAt *time.Time         `gorm:"column:expires_at"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
