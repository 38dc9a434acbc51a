package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/maksab-hq/maksab-admin/app/models"
)

// HandleListSupportSessions returns support sessions, newest first.
// An optional user_id query param narrows the list to one user.
func HandleListSupportSessions(c *fiber.Ctx) error {
	var sessions []models.SupportSession
	var err error
	if userID := c.Query("user_id"); userID != "" {
		sessions, err = services.Support.ListSessionsByUser(userID)
	} else {
		sessions, err = services.Support.ListSessions()
	}
	if err != nil {
		log.Errorf("[Support] List sessions failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list support sessions"})
	}
	return c.JSON(fiber.Map{"data": sessions})
}

type createSessionRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Subject string `json:"subject" validate:"required,max=200"`
	Issue   string `json:"issue" validate:"required"`
}

// HandleCreateSupportSession opens a new support session.
func HandleCreateSupportSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if !parseBody(c, &req) {
		return nil
	}

	session, err := services.Support.CreateSession(c.Context(), req.UserID, req.Subject, req.Issue)
	if err != nil {
		log.Errorf("[Support] Create session failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create support session"})
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleGetSupportSession returns one session with its messages.
func HandleGetSupportSession(c *fiber.Ctx) error {
	session, err := services.Support.GetSession(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Support session not found"})
		}
		log.Errorf("[Support] Get session %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load support session"})
	}

	messages, err := services.Support.ListMessages(session.ID)
	if err != nil {
		log.Errorf("[Support] List messages for %s failed: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load messages"})
	}

	return c.JSON(fiber.Map{"session": session, "messages": messages})
}

type updateSessionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending resolved"`
}

// HandleUpdateSupportSessionStatus moves a session between statuses.
func HandleUpdateSupportSessionStatus(c *fiber.Ctx) error {
	var req updateSessionStatusRequest
	if !parseBody(c, &req) {
		return nil
	}

	if err := services.Support.UpdateSessionStatus(c.Context(), c.Params("id"), req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Support session not found"})
		}
		log.Errorf("[Support] Status update for %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update session status"})
	}

	return c.JSON(fiber.Map{"message": "Session status updated"})
}

type sendMessageRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	Content string `json:"content" validate:"required"`
	IsAdmin bool   `json:"is_admin"`
}

// HandleSendSupportMessage appends a message to a session.
func HandleSendSupportMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if !parseBody(c, &req) {
		return nil
	}

	message, err := services.Support.SendMessage(c.Context(), c.Params("id"), req.UserID, req.Content, req.IsAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Support session not found"})
		}
		log.Errorf("[Support] Send message to %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to send message"})
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

type updateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleUpdateSupportMessage edits a message's content.
func HandleUpdateSupportMessage(c *fiber.Ctx) error {
	var req updateMessageRequest
	if !parseBody(c, &req) {
		return nil
	}

	if err := services.Support.UpdateMessage(c.Context(), c.Params("id"), c.Params("messageId"), req.Content); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Support message not found"})
		}
		log.Errorf("[Support] Update message %s failed: %v", c.Params("messageId"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update message"})
	}

	return c.JSON(fiber.Map{"message": "Message updated"})
}

// HandleMarkSupportMessagesSeen flags every unseen customer message in
// a session as seen.
func HandleMarkSupportMessagesSeen(c *fiber.Ctx) error {
	if err := services.Support.MarkSeen(c.Context(), c.Params("id")); err != nil {
		log.Errorf("[Support] Mark seen for %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Messages marked as seen"})
}
