package demographics

import (
	"strings"
	"time"
)

// Engine computes demographic breakdowns over profile snapshots.
type Engine struct {
	internalDomains map[string]struct{}
	now             func() time.Time
}

// NewEngine builds an engine. internalDomains is the email-domain allow-list
// separating internal users from external ones; now may be nil and defaults
// to time.Now (tests inject a fixed clock).
func NewEngine(internalDomains []string, now func() time.Time) *Engine {
	domains := make(map[string]struct{}, len(internalDomains))
	for _, domain := range internalDomains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		domains[domain] = struct{}{}
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{internalDomains: domains, now: now}
}

// Aggregate filters the profile snapshots and produces every breakdown in a
// single pass over the filtered set. Records without a user id or creation
// time are skipped rather than failing the whole computation.
func (e *Engine) Aggregate(profiles []UserRecord, subs []SubscriptionRecord, filter FilterSpec) Result {
	cutoff := e.cutoffFor(filter.Range)

	filtered := make([]UserRecord, 0, len(profiles))
	for _, rec := range profiles {
		if rec.UserID == "" || rec.CreatedAt.IsZero() {
			continue
		}
		if e.passes(rec, filter, cutoff) {
			filtered = append(filtered, rec)
		}
	}

	plans := BuildPlanIndex(subs)

	return Result{
		Continents:   e.groupByContinent(filtered),
		Plans:        e.breakdownPlans(filtered, plans),
		AccountTypes: e.groupByAccountType(filtered),
		Signups:      e.signupSeries(filtered),
		Total:        len(filtered),
	}
}

// groupByAccountType counts profiles per account type, descending.
func (e *Engine) groupByAccountType(records []UserRecord) []LabelCount {
	counts := map[string]int{}
	for _, rec := range records {
		label := strings.TrimSpace(rec.AccountType)
		if label == "" {
			label = fallbackAccountType
		}
		counts[label]++
	}
	return sortedLabelCounts(counts)
}
