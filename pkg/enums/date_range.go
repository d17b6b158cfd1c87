package enums

import "fmt"

// DateRange is a signup-date window preset used by the analytics filters.
type DateRange string

const (
	DateRange30d  DateRange = "30d"
	DateRange90d  DateRange = "90d"
	DateRange365d DateRange = "365d"
	DateRangeAll  DateRange = "all"
)

var validDateRanges = []DateRange{
	DateRange30d,
	DateRange90d,
	DateRange365d,
	DateRangeAll,
}

// String implements fmt.Stringer.
func (d DateRange) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d DateRange) IsValid() bool {
	for _, candidate := range validDateRanges {
		if candidate == d {
			return true
		}
	}
	return false
}

// Days returns the day-count cutoff for the preset; ok is false for
// DateRangeAll, which carries no cutoff.
func (d DateRange) Days() (int, bool) {
	switch d {
	case DateRange30d:
		return 30, true
	case DateRange90d:
		return 90, true
	case DateRange365d:
		return 365, true
	default:
		return 0, false
	}
}

// ParseDateRange converts raw input into a DateRange.
func ParseDateRange(value string) (DateRange, error) {
	for _, candidate := range validDateRanges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid date range %q", value)
}
