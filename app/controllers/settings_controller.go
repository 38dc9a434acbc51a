package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
	"github.com/maksab-hq/maksab-admin/app/repository"
)

// BankDetails is the manual-payment destination shown to customers.
type BankDetails struct {
	IBAN          string `json:"iban" validate:"required,max=50"`
	BankName      string `json:"bank_name" validate:"required,max=200"`
	SwiftCode     string `json:"swift_code" validate:"required,min=8,max=20"`
	AccountName   string `json:"account_name" validate:"required,max=200"`
	AccountNumber string `json:"account_number" validate:"required,max=50"`
	BranchAddress string `json:"branch_address" validate:"required,max=500"`
}

// HandleGetBankDetails returns the configured bank details. Missing
// settings come back as an empty object rather than 404 so the
// dashboard form can render blank.
func HandleGetBankDetails(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetSettingRepository()
	raw, err := repo.GetValue(models.SettingKeyBankDetails)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(BankDetails{})
		}
		log.Errorf("[Settings] Load bank details failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load bank details"})
	}

	var details BankDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		log.Errorf("[Settings] Stored bank details are unreadable: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Stored bank details are unreadable"})
	}

	return c.JSON(details)
}

// HandleUpdateBankDetails validates and stores new bank details.
func HandleUpdateBankDetails(c *fiber.Ctx) error {
	var details BankDetails
	if !parseBody(c, &details) {
		return nil
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to encode bank details"})
	}

	repo := repository.GetGlobalFactory().GetSettingRepository()
	if err := repo.SetValue(models.SettingKeyBankDetails, raw); err != nil {
		log.Errorf("[Settings] Save bank details failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save bank details"})
	}

	return c.JSON(details)
}
