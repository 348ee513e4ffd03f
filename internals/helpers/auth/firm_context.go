// internals/helpers/auth/firm_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys written by the auth middleware.
const (
	LocUserID       = "user_id"
	LocFirmID       = "firm_id"
	LocFirmIDs      = "firm_ids"
	LocFirmOwnerIDs = "firm_owner_ids"
	LocFirmStaffIDs = "firm_staff_ids"
)

func localsStrings(c *fiber.Ctx, key string) []string {
	if v, ok := c.Locals(key).([]string); ok {
		return v
	}
	return nil
}

func containsID(ids []string, id uuid.UUID) bool {
	want := id.String()
	for _, s := range ids {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}

// GetUserID reads the authenticated user id from locals.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id missing in token")
	}
	return id, nil
}

// EnsureStaffFirm: the caller must be a member (owner or staff) of firmID.
// Denial is a *fiber.Error so controllers can `return err`; the app error
// handler renders it into the JSON envelope.
func EnsureStaffFirm(c *fiber.Ctx, firmID uuid.UUID) error {
	if firmID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid firm_id")
	}
	if containsID(localsStrings(c, LocFirmOwnerIDs), firmID) ||
		containsID(localsStrings(c, LocFirmStaffIDs), firmID) ||
		containsID(localsStrings(c, LocFirmIDs), firmID) {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "אין לך הרשאה למשרד זה")
}

// EnsureOwnerFirm: the caller must be an owner of firmID.
func EnsureOwnerFirm(c *fiber.Ctx, firmID uuid.UUID) error {
	if firmID == uuid.Nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid firm_id")
	}
	if containsID(localsStrings(c, LocFirmOwnerIDs), firmID) {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "נדרשת הרשאת בעלים")
}
