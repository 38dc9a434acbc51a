package controllers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
	"github.com/maksab-hq/maksab-admin/internal/pkg/payments"
	"github.com/maksab-hq/maksab-admin/internal/pkg/statistics"
	"github.com/maksab-hq/maksab-admin/internal/pkg/subscription"
	"github.com/maksab-hq/maksab-admin/internal/pkg/support"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var validate = validator.New()

// Services holds the service instances controllers dispatch to.
type Services struct {
	Identity      *identity.Client
	Subscriptions *subscription.Service
	Sweeper       *subscription.Sweeper
	Payments      *payments.Service
	Support       *support.Service
	Statistics    *statistics.Service
}

var services *Services

// Setup wires the controller layer to its services. Must be called
// before the router is installed.
func Setup(s *Services) {
	services = s
}

// getPagination reads offset/limit query params with sane bounds.
func getPagination(c *fiber.Ctx) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return offset, limit
}

// parseBody decodes and validates a JSON request body. On failure the
// error response has already been written and false is returned.
func parseBody(c *fiber.Ctx, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
		return false
	}
	return true
}
