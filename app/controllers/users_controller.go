package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/maksab-hq/maksab-admin/internal/pkg/identity"
)

// HandleListUsers returns a page of provider users.
func HandleListUsers(c *fiber.Ctx) error {
	offset, limit := getPagination(c)
	params := identity.ListParams{
		Limit:   limit,
		Offset:  offset,
		Query:   c.Query("query"),
		OrderBy: c.Query("order_by", "-created_at"),
	}

	list, err := services.Identity.ListUsers(c.Context(), params)
	if err != nil {
		log.Errorf("[Users] List failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to list users"})
	}

	return c.JSON(fiber.Map{
		"data":        list.Data,
		"total_count": list.TotalCount,
	})
}

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// HandleCreateUser creates a provider user.
func HandleCreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := services.Identity.CreateUser(c.Context(), identity.CreateUserParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: []string{req.Email},
		Password:     req.Password,
	})
	if err != nil {
		log.Errorf("[Users] Create failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type updateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

// HandleUpdateUser updates a provider user's name fields.
func HandleUpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if !parseBody(c, &req) {
		return nil
	}

	user, err := services.Identity.UpdateUser(c.Context(), c.Params("id"), identity.UpdateUserParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		log.Errorf("[Users] Update %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to update user"})
	}

	return c.JSON(user)
}

// HandleDeleteUser removes one provider user.
func HandleDeleteUser(c *fiber.Ctx) error {
	if err := services.Identity.DeleteUser(c.Context(), c.Params("id")); err != nil {
		log.Errorf("[Users] Delete %s failed: %v", c.Params("id"), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_error", "message": "Failed to delete user"})
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

type deleteUsersRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,required"`
}

// HandleDeleteUsers removes a batch of provider users. Deletion stops
// at the first provider failure.
func HandleDeleteUsers(c *fiber.Ctx) error {
	var req deleteUsersRequest
	if !parseBody(c, &req) {
		return nil
	}

	deleted, err := services.Identity.DeleteUsers(c.Context(), req.UserIDs)
	if err != nil {
		log.Errorf("[Users] Bulk delete failed after %d of %d: %v", deleted, len(req.UserIDs), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "upstream_error",
			"message": "Bulk delete failed",
			"deleted": deleted,
		})
	}

	return c.JSON(fiber.Map{"message": "Users deleted", "deleted": deleted})
}
