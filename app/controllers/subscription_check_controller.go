package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HandleSubscriptionCheck runs a full expiry sweep synchronously. The
// endpoint is unauthenticated so external schedulers can hit it, and
// answers in plain text.
func HandleSubscriptionCheck(c *fiber.Ctx) error {
	result, err := services.Sweeper.Sweep(c.Context())
	if err != nil {
		log.Errorf("[Sweep] Subscription check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to check subscriptions.")
	}

	log.Infof("[Sweep] Subscription check done: scanned=%d downgraded=%d failed=%d",
		result.Scanned, result.Downgraded, result.Failed)
	return c.SendString("Subscription check completed successfully.")
}
