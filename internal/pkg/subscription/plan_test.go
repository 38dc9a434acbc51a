package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Plan
		wantErr bool
	}{
		{"Free", "free", PlanFree, false},
		{"Economic", "economic", PlanEconomic, false},
		{"Premium", "premium", PlanPremium, false},
		{"VIP", "vip", PlanVIP, false},
		{"Uppercase", "PREMIUM", PlanPremium, false},
		{"Surrounding whitespace", "  vip ", PlanVIP, false},
		{"Unknown", "platinum", "", true},
		{"Empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlan(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanIsPaid(t *testing.T) {
	assert.False(t, PlanFree.IsPaid())
	assert.True(t, PlanEconomic.IsPaid())
	assert.True(t, PlanPremium.IsPaid())
	assert.True(t, PlanVIP.IsPaid())
}

func TestNormalizePlanFallsBackToFree(t *testing.T) {
	assert.Equal(t, PlanFree, normalizePlan("enterprise"))
	assert.Equal(t, PlanFree, normalizePlan(""))
	assert.Equal(t, PlanVIP, normalizePlan("vip"))
}
