package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/maksab-hq/maksab-admin/app/models"
	"github.com/maksab-hq/maksab-admin/app/repository"
	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
	"github.com/maksab-hq/maksab-admin/internal/pkg/subscription"
)

// ErrUnknownDuration is returned when a verified payment carries a
// duration other than monthly or yearly. The payment row keeps its new
// status; the organization is left untouched.
var ErrUnknownDuration = errors.New("unknown duration type, expected 'monthly' or 'yearly'")

// organizationLookupLimit caps the org-name resolution fetch for listings.
const organizationLookupLimit = 500

// OrganizationDirectory is the slice of the identity client used to
// resolve organization names and billing contacts.
type OrganizationDirectory interface {
	ListOrganizations(ctx context.Context, params identity.ListParams) (*identity.OrganizationList, error)
	GetOrganization(ctx context.Context, organizationID string) (*identity.Organization, error)
}

// SubscriptionExtender grants an organization a paid plan through a
// paid-through date.
type SubscriptionExtender interface {
	Extend(ctx context.Context, organizationID string, plan subscription.Plan, endDate time.Time) (*identity.Organization, error)
}

// EmailEnqueuer queues a notification email for background delivery.
type EmailEnqueuer interface {
	EnqueueNotificationEmail(to, subject, body string) error
}

// PaymentWithOrganization is a payment row joined with the resolved
// organization display name.
type PaymentWithOrganization struct {
	models.Payment
	Organization string `json:"organization"`
}

// Service drives the payment status lifecycle. Only the transition to
// verified has a subscription side effect; the remaining transitions
// are a stub surface that currently logs and notifies.
type Service struct {
	repo   repository.PaymentRepository
	orgs   OrganizationDirectory
	subs   SubscriptionExtender
	emails EmailEnqueuer
	now    func() time.Time
}

// NewService creates a payment service. emails may be nil; notification
// emails are then skipped.
func NewService(repo repository.PaymentRepository, orgs OrganizationDirectory, subs SubscriptionExtender, emails EmailEnqueuer) *Service {
	return &Service{
		repo:   repo,
		orgs:   orgs,
		subs:   subs,
		emails: emails,
		now:    time.Now,
	}
}

// List returns a page of payments with organization names resolved via
// the identity provider. Unresolvable organizations render as
// "Unknown Organization" instead of failing the listing.
func (s *Service) List(ctx context.Context, offset, limit int, query string) ([]PaymentWithOrganization, int64, error) {
	rows, total, err := s.repo.List(offset, limit, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	names := map[string]string{}
	orgList, err := s.orgs.ListOrganizations(ctx, identity.ListParams{Limit: organizationLookupLimit})
	if err != nil {
		log.Warnf("[Payments] Could not resolve organization names: %v", err)
	} else {
		for _, org := range orgList.Data {
			names[org.ID] = org.Name
		}
	}

	out := make([]PaymentWithOrganization, 0, len(rows))
	for _, p := range rows {
		name, ok := names[p.OrganizationID]
		if !ok {
			name = "Unknown Organization"
		}
		out = append(out, PaymentWithOrganization{Payment: p, Organization: name})
	}

	if query != "" {
		q := strings.ToLower(query)
		filtered := out[:0]
		for _, p := range out {
			if strings.Contains(strings.ToLower(p.Organization), q) ||
				strings.Contains(strings.ToLower(p.Reference), q) {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}

	return out, total, nil
}

// UpdateStatus transitions a payment into the given status and runs the
// status's side effect. The status row is written before the side
// effect, so a failed verification leaves the row verified but the
// organization untouched.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) error {
	if !models.IsValidPaymentStatus(status) {
		return fmt.Errorf("unknown payment status: %s", status)
	}

	payment, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to fetch payment details: %w", err)
	}

	if err := s.repo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	payment.Status = status

	switch status {
	case models.PaymentStatusVerified:
		return s.handleVerified(ctx, payment)
	case models.PaymentStatusPending:
		log.Infof("[Payments] Payment %d for %s (%s) from organization %s is pending",
			payment.ID, payment.Plan, payment.Duration, payment.OrganizationID)
		s.notify(ctx, payment, "Payment received",
			fmt.Sprintf("We received your payment %q and are reviewing it.", payment.Reference))
	case models.PaymentStatusCancelled:
		log.Infof("[Payments] Payment %d for %s (%s) from organization %s has been cancelled",
			payment.ID, payment.Plan, payment.Duration, payment.OrganizationID)
		s.notify(ctx, payment, "Payment cancelled",
			fmt.Sprintf("Your payment %q was cancelled.", payment.Reference))
	case models.PaymentStatusRefunded:
		// A refund does not revoke an already-granted extension.
		log.Infof("[Payments] Payment %d for %s (%s) from organization %s has been refunded",
			payment.ID, payment.Plan, payment.Duration, payment.OrganizationID)
		s.notify(ctx, payment, "Payment refunded",
			fmt.Sprintf("Your payment %q was refunded.", payment.Reference))
	}
	return nil
}

// handleVerified computes the new paid-through date from the payment
// duration and writes plan + end date onto the organization.
func (s *Service) handleVerified(ctx context.Context, payment *models.Payment) error {
	var endDate time.Time
	switch payment.Duration {
	case models.PaymentDurationMonthly:
		endDate = s.now().AddDate(0, 1, 0)
	case models.PaymentDurationYearly:
		endDate = s.now().AddDate(1, 0, 0)
	default:
		return ErrUnknownDuration
	}

	plan, err := subscription.ParsePlan(payment.Plan)
	if err != nil {
		return fmt.Errorf("payment %d carries an invalid plan: %w", payment.ID, err)
	}

	if _, err := s.subs.Extend(ctx, payment.OrganizationID, plan, endDate); err != nil {
		return fmt.Errorf("failed to update organization metadata: %w", err)
	}

	log.Infof("[Payments] Payment %d verified: organization %s now on %s until %s",
		payment.ID, payment.OrganizationID, plan, endDate.UTC().Format(time.RFC3339))
	return nil
}

// Delete removes a payment row entirely.
func (s *Service) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

// notify queues a billing email to the organization's contact address.
// Best-effort: a missing contact or queue failure is logged only.
func (s *Service) notify(ctx context.Context, payment *models.Payment, subject, body string) {
	if s.emails == nil {
		return
	}
	org, err := s.orgs.GetOrganization(ctx, payment.OrganizationID)
	if err != nil {
		log.Warnf("[Payments] Could not resolve billing contact for organization %s: %v", payment.OrganizationID, err)
		return
	}
	to, _ := org.PublicMetadata["email"].(string)
	if to == "" {
		return
	}
	if err := s.emails.EnqueueNotificationEmail(to, subject, body); err != nil {
		log.Warnf("[Payments] Could not queue notification email for payment %d: %v", payment.ID, err)
	}
}
