package demographics

import (
	"sort"
	"strings"

	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

// BuildPlanIndex resolves each user's effective plan tier from their billing
// subscriptions. Only active or trialing subscriptions whose plan name or
// type carries a tier keyword count; when a user holds several, the most
// recently created one wins, breaking creation-time ties by plan name so the
// result never depends on input order. Users with no keyword-bearing live
// subscription are absent from the index and fall back to their profile's
// plan type.
func BuildPlanIndex(subs []SubscriptionRecord) map[string]enums.PlanTier {
	type indexed struct {
		sub  SubscriptionRecord
		tier enums.PlanTier
	}

	chosen := map[string]indexed{}
	for _, sub := range subs {
		if sub.UserID == "" || !sub.Status.Counts() {
			continue
		}
		tier, ok := tierFromSubscription(sub)
		if !ok {
			continue
		}
		current, seen := chosen[sub.UserID]
		if !seen || sub.CreatedAt.After(current.sub.CreatedAt) ||
			(sub.CreatedAt.Equal(current.sub.CreatedAt) && sub.PlanName > current.sub.PlanName) {
			chosen[sub.UserID] = indexed{sub: sub, tier: tier}
		}
	}

	index := make(map[string]enums.PlanTier, len(chosen))
	for userID, entry := range chosen {
		index[userID] = entry.tier
	}
	return index
}

// tierFromSubscription maps a subscription onto a plan tier by keyword. The
// plan name is checked before the plan type, and within each the edge keyword
// before quantum before seed, so "Quantum Edge Pro" counts as edge. A
// subscription matching no keyword in either field reports false so the
// profile's own plan type can apply instead.
func tierFromSubscription(sub SubscriptionRecord) (enums.PlanTier, bool) {
	for _, candidate := range []string{sub.PlanName, sub.PlanType} {
		candidate = strings.ToLower(candidate)
		if candidate == "" {
			continue
		}
		switch {
		case strings.Contains(candidate, string(enums.PlanTierEdge)):
			return enums.PlanTierEdge, true
		case strings.Contains(candidate, string(enums.PlanTierQuantum)):
			return enums.PlanTierQuantum, true
		case strings.Contains(candidate, string(enums.PlanTierSeed)):
			return enums.PlanTierSeed, true
		}
	}
	return enums.PlanTierSeed, false
}

// TierFromProfile maps the profile's self-reported plan type onto a tier.
// Unlike subscriptions this is an exact match, since the field is set by our
// own signup flow rather than the billing provider.
func TierFromProfile(planType string) enums.PlanTier {
	switch strings.ToLower(strings.TrimSpace(planType)) {
	case string(enums.PlanTierEdge):
		return enums.PlanTierEdge
	case string(enums.PlanTierQuantum):
		return enums.PlanTierQuantum
	}
	return enums.PlanTierSeed
}

// breakdownPlans counts the filtered set per plan tier. A live subscription
// overrides the profile's plan type, which goes stale after billing changes.
func (e *Engine) breakdownPlans(records []UserRecord, plans map[string]enums.PlanTier) PlanBreakdown {
	var out PlanBreakdown
	for _, rec := range records {
		tier, ok := plans[rec.UserID]
		if !ok {
			tier = TierFromProfile(rec.PlanType)
		}
		switch tier {
		case enums.PlanTierEdge:
			out.Edge++
		case enums.PlanTierQuantum:
			out.Quantum++
		default:
			out.Seed++
		}
	}
	return out
}

// sortedLabelCounts flattens a count map into label/count pairs sorted by
// descending count, then label.
func sortedLabelCounts(counts map[string]int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
