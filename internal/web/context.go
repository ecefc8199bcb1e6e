package web

import (
	"fmt"

	"boutique-backend/internal/auth"
	"boutique-backend/internal/database"
	"boutique-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ResolveStoreIDFromBodyOrRole: store users act on their own store from the
// JWT; super admins must name one in the request body.
func ResolveStoreIDFromBodyOrRole(c *fiber.Ctx, bodyStoreID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Could not resolve role")
	}

	if role == models.RoleStoreUser {
		sVal := c.Locals(auth.CtxStoreIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Could not resolve store")
		}
		return *sPtr, nil
	}

	// super_admin
	if bodyStoreID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id is required")
	}
	return *bodyStoreID, nil
}

// ResolveStoreIDFromQueryOrRole: same policy for read endpoints, store id
// from ?store_id= for super admins.
func ResolveStoreIDFromQueryOrRole(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Could not resolve role")
	}

	if role == models.RoleStoreUser {
		sVal := c.Locals(auth.CtxStoreIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Could not resolve store")
		}
		return *sPtr, nil
	}

	sidStr := c.Query("store_id")
	if sidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id is required")
	}
	var sid uint
	if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id is invalid")
	}
	return sid, nil
}

// CurrentUser loads the acting user's id and name for audit trails.
func CurrentUser(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Could not resolve user")
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "User not found")
	}
	return user.ID, user.Name, nil
}
