package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockValidate(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		block   Block
		wantErr bool
	}{
		{"Free without end date", Block{Plan: PlanFree}, false},
		{"Premium with end date", Block{Plan: PlanPremium, EndDate: &future}, false},
		{"VIP without end date", Block{Plan: PlanVIP}, false},
		{"VIP with end date", Block{Plan: PlanVIP, EndDate: &future}, true},
		{"Unknown plan", Block{Plan: "platinum"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.block.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBlockExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, Block{Plan: PlanPremium, EndDate: &past}.Expired(now))
	assert.False(t, Block{Plan: PlanPremium, EndDate: &future}.Expired(now))
	assert.False(t, Block{Plan: PlanVIP}.Expired(now))
	// Boundary: an end date equal to now is not yet expired.
	assert.False(t, Block{Plan: PlanPremium, EndDate: &now}.Expired(now))
}

func TestDecodeBlock(t *testing.T) {
	tests := []struct {
		name    string
		public  map[string]interface{}
		private map[string]interface{}
		want    Block
	}{
		{
			name:   "Empty metadata decodes to free",
			public: nil, private: nil,
			want: Block{Plan: PlanFree},
		},
		{
			name:   "Valid paid block",
			public: map[string]interface{}{"subscriptionPlan": "premium", "subscriptionEndDate": "2025-06-01T00:00:00Z"},
			private: map[string]interface{}{
				"hasHadFreeTrial": true,
			},
			want: Block{
				Plan:            PlanPremium,
				EndDate:         timePtr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
				HasHadFreeTrial: true,
			},
		},
		{
			name:   "Malformed end date is dropped",
			public: map[string]interface{}{"subscriptionPlan": "economic", "subscriptionEndDate": "not-a-date"},
			want:   Block{Plan: PlanEconomic},
		},
		{
			name:   "Unknown plan degrades to free",
			public: map[string]interface{}{"subscriptionPlan": "platinum"},
			want:   Block{Plan: PlanFree},
		},
		{
			name:   "Null end date",
			public: map[string]interface{}{"subscriptionPlan": "vip", "subscriptionEndDate": nil},
			want:   Block{Plan: PlanVIP},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeBlock(tt.public, tt.private)
			assert.Equal(t, tt.want.Plan, got.Plan)
			assert.Equal(t, tt.want.HasHadFreeTrial, got.HasHadFreeTrial)
			if tt.want.EndDate == nil {
				assert.Nil(t, got.EndDate)
			} else {
				require.NotNil(t, got.EndDate)
				assert.True(t, tt.want.EndDate.Equal(*got.EndDate))
			}
		})
	}
}

func TestApplyToPreservesUnrelatedKeys(t *testing.T) {
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	public := map[string]interface{}{
		"email":            "billing@acme.test",
		"subscriptionPlan": "free",
	}
	private := map[string]interface{}{
		"internalNote": "migrated 2024",
	}

	pub, priv := Block{Plan: PlanPremium, EndDate: &end}.ApplyTo(public, private)

	assert.Equal(t, "premium", pub["subscriptionPlan"])
	assert.Equal(t, "2025-07-01T00:00:00Z", pub["subscriptionEndDate"])
	assert.Equal(t, "billing@acme.test", pub["email"])
	assert.Equal(t, "migrated 2024", priv["internalNote"])

	// Inputs must not be mutated.
	assert.Equal(t, "free", public["subscriptionPlan"])
	_, hasEnd := public["subscriptionEndDate"]
	assert.False(t, hasEnd)
}

func TestApplyToWritesNullEndDate(t *testing.T) {
	pub, _ := Block{Plan: PlanFree}.ApplyTo(map[string]interface{}{
		"subscriptionEndDate": "2025-01-01T00:00:00Z",
	}, nil)

	val, ok := pub["subscriptionEndDate"]
	assert.True(t, ok, "end date key must be written explicitly")
	assert.Nil(t, val)
}

func TestApplyToKeepsTrialFlagMonotonic(t *testing.T) {
	// Once true, writing false leaves it true.
	_, priv := Block{Plan: PlanFree, HasHadFreeTrial: false}.ApplyTo(nil, map[string]interface{}{
		"hasHadFreeTrial": true,
	})
	assert.Equal(t, true, priv["hasHadFreeTrial"])

	// False stays false until set true.
	_, priv = Block{Plan: PlanFree, HasHadFreeTrial: true}.ApplyTo(nil, nil)
	assert.Equal(t, true, priv["hasHadFreeTrial"])
}

func timePtr(t time.Time) *time.Time {
	return &t
}
