// Package demographics aggregates user profile snapshots into the breakdowns
// the back-office dashboard charts: continent/country counts, plan tiers,
// account types, and a monthly signup series.
//
// The package is a pure computation over its inputs. It performs no I/O,
// keeps no cross-call state, and never returns an error: malformed optional
// fields degrade to documented fallback buckets instead. Callers may invoke
// it concurrently as long as the input slices are not mutated mid-call.
package demographics

import (
	"time"

	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

// ReferralAll is the filter sentinel matching every referral source.
const ReferralAll = "all"

// fallbackReferral substitutes for profiles that carry no referral source.
const fallbackReferral = "unknown"

// fallbackAccountType labels profiles that carry no account type.
const fallbackAccountType = "unknown"

// OthersBucket collects profiles whose location cannot be resolved.
const OthersBucket = "Others"

// UserRecord is the flat profile snapshot the engine aggregates over.
// Every field except UserID and CreatedAt is optional free text; empty
// strings mean "absent".
type UserRecord struct {
	UserID         string
	Email          string
	CreatedAt      time.Time
	AccountType    string
	PlanType       string
	ReferralSource string
	CountryCode    string
	CountryName    string
}

// SubscriptionRecord is a billing subscription snapshot keyed to a user.
type SubscriptionRecord struct {
	UserID    string
	Status    enums.SubscriptionStatus
	PlanName  string
	PlanType  string
	CreatedAt time.Time
}

// FilterSpec restricts the working set before aggregation.
type FilterSpec struct {
	Segment  enums.UserSegment
	Range    enums.DateRange
	Referral string
}

// CountryGroup is one country row inside a continent bucket.
type CountryGroup struct {
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Count int    `json:"count"`
}

// ContinentGroup is one continent bucket with its country drill-down.
type ContinentGroup struct {
	Name      string         `json:"name"`
	Count     int            `json:"count"`
	Countries []CountryGroup `json:"countries"`
}

// PlanBreakdown counts resolved billing tiers. The three buckets always sum
// to the size of the filtered set.
type PlanBreakdown struct {
	Seed    int `json:"seed"`
	Edge    int `json:"edge"`
	Quantum int `json:"quantum"`
}

// LabelCount is a generic label/count pair used for account types.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthPoint is one point of the signup series, labeled like "Mar 2024".
type MonthPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Result is the full aggregation output for one filter.
type Result struct {
	Continents   []ContinentGroup `json:"continents"`
	Plans        PlanBreakdown    `json:"plans"`
	AccountTypes []LabelCount     `json:"account_types"`
	Signups      []MonthPoint     `json:"signups"`
	Total        int              `json:"total"`
}
