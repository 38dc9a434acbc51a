package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
)

// OrganizationAPI is the slice of the identity client the subscription
// layer needs. The provider merges nothing inside a metadata scope, so
// every write here goes through read-modify-write.
type OrganizationAPI interface {
	ListOrganizations(ctx context.Context, params identity.ListParams) (*identity.OrganizationList, error)
	GetOrganization(ctx context.Context, organizationID string) (*identity.Organization, error)
	UpdateOrganization(ctx context.Context, organizationID string, params identity.UpdateOrganizationParams) (*identity.Organization, error)
}

// Service owns subscription state transitions on organization metadata.
type Service struct {
	api OrganizationAPI
}

// NewService creates a subscription service over an organization API.
func NewService(api OrganizationAPI) *Service {
	return &Service{api: api}
}

// UpdateInput is an admin-submitted subscription change.
type UpdateInput struct {
	Plan            Plan
	EndDate         *time.Time
	HasHadFreeTrial bool
}

// Update merges a new subscription block into an organization's
// metadata. The current metadata is fetched first so unrelated keys
// survive the write, and the free-trial flag stays monotonic.
func (s *Service) Update(ctx context.Context, organizationID string, in UpdateInput) (*identity.Organization, error) {
	block := Block{Plan: in.Plan, EndDate: in.EndDate, HasHadFreeTrial: in.HasHadFreeTrial}
	if err := block.Validate(); err != nil {
		return nil, err
	}

	org, err := s.api.GetOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	pub, priv := block.ApplyTo(org.PublicMetadata, org.PrivateMetadata)
	updated, err := s.api.UpdateOrganization(ctx, organizationID, identity.UpdateOrganizationParams{
		PublicMetadata:  pub,
		PrivateMetadata: priv,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription for organization %s: %w", organizationID, err)
	}
	return updated, nil
}

// Extend sets a paid plan and end date, used when a payment is verified.
func (s *Service) Extend(ctx context.Context, organizationID string, plan Plan, endDate time.Time) (*identity.Organization, error) {
	return s.Update(ctx, organizationID, UpdateInput{Plan: plan, EndDate: &endDate})
}

// Downgrade resets an organization to the free plan with no end date.
// The free-trial flag is left as-is.
func (s *Service) Downgrade(ctx context.Context, organizationID string) (*identity.Organization, error) {
	return s.Update(ctx, organizationID, UpdateInput{Plan: PlanFree, EndDate: nil})
}
