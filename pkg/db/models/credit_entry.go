package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

// CreditEntry records an immutable credit balance mutation for a user.
// Balances are never stored; they are the sum of a user's entries.
type CreditEntry struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	ActorID   uuid.UUID             `gorm:"column:actor_id;type:uuid;not null"`
	Type      enums.CreditEntryType `gorm:"column:type;type:credit_entry_type_enum;not null"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	Note      *string               `gorm:"column:note"`
	Metadata  json.RawMessage       `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
