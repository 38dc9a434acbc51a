package subscription

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
)

// fakeOrganizationAPI is an in-memory OrganizationAPI for tests.
type fakeOrganizationAPI struct {
	orgs        []identity.Organization
	listErrAt   int // fail the list call with this offset, -1 = never
	getErr      error
	updateErr   map[string]error
	listCalls   []identity.ListParams
	updateCalls []string
}

func newFakeAPI(orgs ...identity.Organization) *fakeOrganizationAPI {
	return &fakeOrganizationAPI{orgs: orgs, listErrAt: -1, updateErr: map[string]error{}}
}

func (f *fakeOrganizationAPI) ListOrganizations(_ context.Context, params identity.ListParams) (*identity.OrganizationList, error) {
	f.listCalls = append(f.listCalls, params)
	if f.listErrAt >= 0 && params.Offset == f.listErrAt {
		return nil, errors.New("provider unavailable")
	}

	start := params.Offset
	if start > len(f.orgs) {
		start = len(f.orgs)
	}
	end := start + params.Limit
	if params.Limit <= 0 || end > len(f.orgs) {
		end = len(f.orgs)
	}
	page := make([]identity.Organization, end-start)
	copy(page, f.orgs[start:end])
	return &identity.OrganizationList{Data: page, TotalCount: int64(len(f.orgs))}, nil
}

func (f *fakeOrganizationAPI) GetOrganization(_ context.Context, id string) (*identity.Organization, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			org := f.orgs[i]
			return &org, nil
		}
	}
	return nil, fmt.Errorf("organization %s not found", id)
}

func (f *fakeOrganizationAPI) UpdateOrganization(_ context.Context, id string, params identity.UpdateOrganizationParams) (*identity.Organization, error) {
	f.updateCalls = append(f.updateCalls, id)
	if err := f.updateErr[id]; err != nil {
		return nil, err
	}
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			if params.PublicMetadata != nil {
				f.orgs[i].PublicMetadata = params.PublicMetadata
			}
			if params.PrivateMetadata != nil {
				f.orgs[i].PrivateMetadata = params.PrivateMetadata
			}
			org := f.orgs[i]
			return &org, nil
		}
	}
	return nil, fmt.Errorf("organization %s not found", id)
}

func paidOrg(id, name, plan, endDate string) identity.Organization {
	pub := map[string]interface{}{"subscriptionPlan": plan}
	if endDate != "" {
		pub["subscriptionEndDate"] = endDate
	}
	return identity.Organization{ID: id, Name: name, PublicMetadata: pub}
}

func TestServiceUpdateMergesMetadata(t *testing.T) {
	api := newFakeAPI(identity.Organization{
		ID:   "org_1",
		Name: "Acme",
		PublicMetadata: map[string]interface{}{
			"email":            "billing@acme.test",
			"subscriptionPlan": "free",
		},
		PrivateMetadata: map[string]interface{}{
			"hasHadFreeTrial": true,
		},
	})
	svc := NewService(api)

	end := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), "org_1", UpdateInput{Plan: PlanEconomic, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, "economic", updated.PublicMetadata["subscriptionPlan"])
	assert.Equal(t, "2025-08-01T00:00:00Z", updated.PublicMetadata["subscriptionEndDate"])
	assert.Equal(t, "billing@acme.test", updated.PublicMetadata["email"], "unrelated public keys must survive")
	assert.Equal(t, true, updated.PrivateMetadata["hasHadFreeTrial"], "trial flag must stay true")
}

func TestServiceUpdateRejectsInvalidBlock(t *testing.T) {
	api := newFakeAPI(paidOrg("org_1", "Acme", "free", ""))
	svc := NewService(api)

	end := time.Now().Add(time.Hour)
	_, err := svc.Update(context.Background(), "org_1", UpdateInput{Plan: PlanVIP, EndDate: &end})
	assert.Error(t, err)
	assert.Empty(t, api.updateCalls, "invalid blocks must not reach the provider")
}

func TestServiceUpdateFailsWhenGetFails(t *testing.T) {
	api := newFakeAPI()
	api.getErr = errors.New("timeout")
	svc := NewService(api)

	_, err := svc.Update(context.Background(), "org_1", UpdateInput{Plan: PlanFree})
	assert.Error(t, err)
	assert.Empty(t, api.updateCalls)
}

func TestServiceDowngrade(t *testing.T) {
	api := newFakeAPI(paidOrg("org_1", "Acme", "premium", "2025-01-01T00:00:00Z"))
	svc := NewService(api)

	updated, err := svc.Downgrade(context.Background(), "org_1")
	require.NoError(t, err)

	assert.Equal(t, "free", updated.PublicMetadata["subscriptionPlan"])
	assert.Nil(t, updated.PublicMetadata["subscriptionEndDate"])
}

func TestServiceExtend(t *testing.T) {
	api := newFakeAPI(paidOrg("org_1", "Acme", "free", ""))
	svc := NewService(api)

	end := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	updated, err := svc.Extend(context.Background(), "org_1", PlanPremium, end)
	require.NoError(t, err)

	assert.Equal(t, "premium", updated.PublicMetadata["subscriptionPlan"])
	assert.Equal(t, "2026-01-15T10:30:00Z", updated.PublicMetadata["subscriptionEndDate"])
}
