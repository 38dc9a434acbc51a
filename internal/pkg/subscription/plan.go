package subscription

import (
	"fmt"
	"strings"
)

// Plan is a subscription tier label stored in organization metadata.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanEconomic Plan = "economic"
	PlanPremium  Plan = "premium"
	PlanVIP      Plan = "vip"
)

// ParsePlan validates a raw plan value from admin input.
func ParsePlan(raw string) (Plan, error) {
	switch p := Plan(strings.ToLower(strings.TrimSpace(raw))); p {
	case PlanFree, PlanEconomic, PlanPremium, PlanVIP:
		return p, nil
	default:
		return "", fmt.Errorf("unknown subscription plan %q", raw)
	}
}

// normalizePlan maps arbitrary metadata values onto a known plan,
// falling back to free for anything unrecognized.
func normalizePlan(raw string) Plan {
	p, err := ParsePlan(raw)
	if err != nil {
		return PlanFree
	}
	return p
}

// planRank orders tiers for comparisons; higher is better.
func planRank(p Plan) int {
	switch p {
	case PlanVIP:
		return 3
	case PlanPremium:
		return 2
	case PlanEconomic:
		return 1
	default:
		return 0
	}
}

// IsPaid reports whether the plan is a paid tier.
func (p Plan) IsPaid() bool {
	return planRank(p) > 0
}
