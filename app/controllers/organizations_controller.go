package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
	"github.com/maksab-hq/maksab-admin/internal/pkg/subscription"
)

// HandleListOrganizations returns a page of organizations from the
// identity provider, newest first.
func HandleListOrganizations(c *fiber.Ctx) error {
	offset, limit := getPagination(c)
	params := identity.ListParams{
		Limit:               limit,
		Offset:              offset,
		Query:               c.Query("query"),
		IncludeMembersCount: c.QueryBool("include_members_count", true),
		OrderBy:             c.Query("order_by", "-created_at"),
	}

	list, err := services.Identity.ListOrganizations(c.Context(), params)
	if err != nil {
		log.Errorf("[Organizations] List failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to list organizations"})
	}

	return c.JSON(fiber.Map{
		"data":        list.Data,
		"total_count": list.TotalCount,
	})
}

// HandleGetOrganization returns one organization with its decoded
// subscription block.
func HandleGetOrganization(c *fiber.Ctx) error {
	org, err := services.Identity.GetOrganization(c.Context(), c.Params("id"))
	if err != nil {
		log.Errorf("[Organizations] Get %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Organization not found"})
	}

	block := subscription.DecodeBlock(org.PublicMetadata, org.PrivateMetadata)
	return c.JSON(fiber.Map{
		"organization": org,
		"subscription": fiber.Map{
			"plan":               block.Plan,
			"paid":               block.Plan.IsPaid(),
			"end_date":           block.EndDate,
			"has_had_free_trial": block.HasHadFreeTrial,
			"expired":            block.Expired(time.Now()),
		},
	})
}

type createOrganizationRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Slug      string `json:"slug" validate:"omitempty,max=100"`
	CreatedBy string `json:"created_by" validate:"required"`
}

// HandleCreateOrganization creates an organization owned by a provider
// user.
func HandleCreateOrganization(c *fiber.Ctx) error {
	var req createOrganizationRequest
	if !parseBody(c, &req) {
		return nil
	}

	org, err := services.Identity.CreateOrganization(c.Context(), identity.CreateOrganizationParams{
		Name:      req.Name,
		Slug:      req.Slug,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		log.Errorf("[Organizations] Create failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to create organization"})
	}

	return c.Status(fiber.StatusCreated).JSON(org)
}

type updateOrganizationRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=100"`
	Slug *string `json:"slug" validate:"omitempty,max=100"`
}

// HandleUpdateOrganization updates organization profile fields.
// Subscription changes go through the subscription endpoint instead.
func HandleUpdateOrganization(c *fiber.Ctx) error {
	var req updateOrganizationRequest
	if !parseBody(c, &req) {
		return nil
	}

	org, err := services.Identity.UpdateOrganization(c.Context(), c.Params("id"), identity.UpdateOrganizationParams{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		log.Errorf("[Organizations] Update %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to update organization"})
	}

	return c.JSON(org)
}

// HandleDeleteOrganization removes an organization from the provider.
func HandleDeleteOrganization(c *fiber.Ctx) error {
	if err := services.Identity.DeleteOrganization(c.Context(), c.Params("id")); err != nil {
		log.Errorf("[Organizations] Delete %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to delete organization"})
	}
	return c.JSON(fiber.Map{"message": "Organization deleted"})
}

type updateSubscriptionRequest struct {
	Plan            string  `json:"plan" validate:"required,oneof=free economic premium vip"`
	EndDate         *string `json:"end_date" validate:"omitempty"`
	HasHadFreeTrial bool    `json:"has_had_free_trial"`
}

// HandleUpdateSubscription writes a new subscription block onto an
// organization. A null end date means the plan does not expire.
func HandleUpdateSubscription(c *fiber.Ctx) error {
	var req updateSubscriptionRequest
	if !parseBody(c, &req) {
		return nil
	}

	plan, err := subscription.ParsePlan(req.Plan)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "end_date must be RFC3339"})
		}
		endDate = &parsed
	}

	org, err := services.Subscriptions.Update(c.Context(), c.Params("id"), subscription.UpdateInput{
		Plan:            plan,
		EndDate:         endDate,
		HasHadFreeTrial: req.HasHadFreeTrial,
	})
	if err != nil {
		log.Errorf("[Organizations] Subscription update for %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "subscription_update_failed", "message": err.Error()})
	}

	return c.JSON(org)
}
