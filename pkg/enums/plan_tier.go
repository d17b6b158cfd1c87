package enums

import "fmt"

// PlanTier is one of the three billing tiers an account resolves to.
type PlanTier string

const (
	PlanTierSeed    PlanTier = "seed"
	PlanTierEdge    PlanTier = "edge"
	PlanTierQuantum PlanTier = "quantum"
)

var validPlanTiers = []PlanTier{
	PlanTierSeed,
	PlanTierEdge,
	PlanTierQuantum,
}

// String implements fmt.Stringer.
func (p PlanTier) String() string {
	return string(p)
}

// IsValid reports whether the value is a known tier.
func (p PlanTier) IsValid() bool {
	for _, candidate := range validPlanTiers {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlanTier converts raw input into a PlanTier.
func ParsePlanTier(value string) (PlanTier, error) {
	for _, candidate := range validPlanTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan tier %q", value)
}
