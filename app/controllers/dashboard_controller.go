package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HandleGetDashboardStats returns the cached dashboard counters.
func HandleGetDashboardStats(c *fiber.Ctx) error {
	stats, err := services.Statistics.GetDashboardStats()
	if err != nil {
		log.Errorf("[Dashboard] Stats failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to compute dashboard stats"})
	}
	return c.JSON(stats)
}
