package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/internal/pkg/payments"
)

// HandleListPayments returns a page of payments with resolved
// organization names.
func HandleListPayments(c *fiber.Ctx) error {
	offset, limit := getPagination(c)

	rows, total, err := services.Payments.List(c.Context(), offset, limit, c.Query("query"))
	if err != nil {
		log.Errorf("[Payments] List failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list payments"})
	}

	return c.JSON(fiber.Map{
		"data":        rows,
		"total_count": total,
	})
}

type updatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified cancelled refunded"`
}

// HandleUpdatePaymentStatus transitions a payment and runs the status
// side effect. Verifying a payment extends the organization's plan.
func HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid payment ID"})
	}

	var req updatePaymentStatusRequest
	if !parseBody(c, &req) {
		return nil
	}

	if err := services.Payments.UpdateStatus(c.Context(), uint(id), req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Payment not found"})
		}
		if errors.Is(err, payments.ErrUnknownDuration) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "unknown_duration", "message": err.Error()})
		}
		log.Errorf("[Payments] Status update for %d failed: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update payment status"})
	}

	return c.JSON(fiber.Map{"message": "Payment status updated"})
}

// HandleDeletePayment removes a payment row.
func HandleDeletePayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid payment ID"})
	}

	if err := services.Payments.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Payment not found"})
		}
		log.Errorf("[Payments] Delete %d failed: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete payment"})
	}

	return c.JSON(fiber.Map{"message": "Payment deleted"})
}
