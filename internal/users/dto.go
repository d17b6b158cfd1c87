package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/he2-ai/backoffice-backend/pkg/db/models"
)

// ListFilter narrows the profile listing.
type ListFilter struct {
	Search      string
	AccountType string
	PlanType    string
}

// UpdateProfileInput carries the admin-editable fields. Nil means unchanged;
// a pointer to the empty string clears the column.
type UpdateProfileInput struct {
	DisplayName    *string `json:"display_name"`
	AccountType    *string `json:"account_type"`
	PlanType       *string `json:"plan_type"`
	ReferralSource *string `json:"referral_source"`
	CountryCode    *string `json:"country_code"`
	CountryName    *string `json:"country_name"`
}

// ProfileResponse is the API shape of a user profile.
type ProfileResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email,omitempty"`
	DisplayName    string     `json:"display_name,omitempty"`
	AccountType    string     `json:"account_type,omitempty"`
	PlanType       string     `json:"plan_type,omitempty"`
	ReferralSource string     `json:"referral_source,omitempty"`
	CountryCode    string     `json:"country_code,omitempty"`
	CountryName    string     `json:"country_name,omitempty"`
	LastSeenAt     *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ListResponse is one page of profiles plus the cursor for the next one.
// Total counts every profile in the table, not just the filtered page, so
// the dashboard can show "n of m".
type ListResponse struct {
	Users      []ProfileResponse `json:"users"`
	Total      int64             `json:"total"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// BulkDeleteReport summarizes a bulk delete. Failed IDs are reported
// individually so the operator can retry just those.
type BulkDeleteReport struct {
	Deleted int         `json:"deleted"`
	Failed  []uuid.UUID `json:"failed,omitempty"`
}

// ToProfileResponse flattens the optional columns for transport.
func ToProfileResponse(profile *models.UserProfile) ProfileResponse {
	return ProfileResponse{
		ID:             profile.ID,
		Email:          deref(profile.Email),
		DisplayName:    deref(profile.DisplayName),
		AccountType:    deref(profile.AccountType),
		PlanType:       deref(profile.PlanType),
		ReferralSource: deref(profile.ReferralSource),
		CountryCode:    deref(profile.CountryCode),
		CountryName:    deref(profile.CountryName),
		LastSeenAt:     profile.LastSeenAt,
		CreatedAt:      profile.CreatedAt,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
