package enums

import "fmt"

// InviteStatus maps to the invite_status_enum enum in Postgres.
type InviteStatus string

const (
	InviteStatusActive    InviteStatus = "active"
	InviteStatusRevoked   InviteStatus = "revoked"
	InviteStatusExhausted InviteStatus = "exhausted"
)

var validInviteStatuses = []InviteStatus{
	InviteStatusActive,
	InviteStatusRevoked,
	InviteStatusExhausted,
}

// IsValid reports whether the value is known.
func (s InviteStatus) IsValid() bool {
	for _, candidate := range validInviteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInviteStatus converts raw input into an InviteStatus.
func ParseInviteStatus(value string) (InviteStatus, error) {
	for _, candidate := range validInviteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invite status %q", value)
}
