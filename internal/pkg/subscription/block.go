package subscription

import (
	"errors"
	"time"
)

// Metadata keys used inside the organization's provider metadata. Plan
// and end date are public; the free-trial flag is private.
const (
	MetaKeyPlan            = "subscriptionPlan"
	MetaKeyEndDate         = "subscriptionEndDate"
	MetaKeyHasHadFreeTrial = "hasHadFreeTrial"
)

// Block is the typed view of the subscription fields embedded in an
// organization's metadata maps. Everything else in those maps (billing
// contact, onboarding flag, ...) passes through untouched.
type Block struct {
	Plan            Plan
	EndDate         *time.Time // nil = no expiry (free or lifetime)
	HasHadFreeTrial bool
}

// Validate rejects blocks that may not be written: unknown plans, and a
// VIP plan carrying an end date (VIP is lifetime).
func (b Block) Validate() error {
	if _, err := ParsePlan(string(b.Plan)); err != nil {
		return err
	}
	if b.Plan == PlanVIP && b.EndDate != nil {
		return errors.New("vip plan must not carry an end date")
	}
	return nil
}

// Expired reports whether the block's end date lies strictly before now.
// Blocks without an end date never expire.
func (b Block) Expired(now time.Time) bool {
	return b.EndDate != nil && b.EndDate.Before(now)
}

// DecodeBlock reads the subscription fields out of the two metadata
// scopes. Unknown or malformed values degrade to the free/zero state
// rather than failing, mirroring how the dashboard treated legacy rows.
func DecodeBlock(public, private map[string]interface{}) Block {
	var b Block
	b.Plan = PlanFree

	if raw, ok := public[MetaKeyPlan].(string); ok {
		b.Plan = normalizePlan(raw)
	}
	if raw, ok := public[MetaKeyEndDate].(string); ok && raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			b.EndDate = &t
		}
	}
	if v, ok := private[MetaKeyHasHadFreeTrial].(bool); ok {
		b.HasHadFreeTrial = v
	}
	return b
}

// ApplyTo writes the block into copies of the given metadata scopes and
// returns them. Unrelated keys are preserved; the free-trial flag is
// OR-ed with its previous value so it can never flip back to false.
func (b Block) ApplyTo(public, private map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	pub := copyMeta(public)
	priv := copyMeta(private)

	pub[MetaKeyPlan] = string(b.Plan)
	if b.EndDate != nil {
		pub[MetaKeyEndDate] = b.EndDate.UTC().Format(time.RFC3339)
	} else {
		pub[MetaKeyEndDate] = nil
	}

	prev, _ := priv[MetaKeyHasHadFreeTrial].(bool)
	priv[MetaKeyHasHadFreeTrial] = prev || b.HasHadFreeTrial

	return pub, priv
}

func copyMeta(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}
