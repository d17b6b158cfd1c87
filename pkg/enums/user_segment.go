package enums

import "fmt"

// UserSegment splits accounts into staff and customers by email domain.
type UserSegment string

const (
	UserSegmentInternal UserSegment = "internal"
	UserSegmentExternal UserSegment = "external"
)

var validUserSegments = []UserSegment{
	UserSegmentInternal,
	UserSegmentExternal,
}

// String implements fmt.Stringer.
func (s UserSegment) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s UserSegment) IsValid() bool {
	for _, candidate := range validUserSegments {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseUserSegment converts raw input into a UserSegment.
func ParseUserSegment(value string) (UserSegment, error) {
	for _, candidate := range validUserSegments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user segment %q", value)
}
