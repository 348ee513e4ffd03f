package helper

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	helper "misradcrm_backend/internals/helpers"
)

func firmApp(staffFirm uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.JsonErrorHandler})
	app.Get("/:firm_id/clients", func(c *fiber.Ctx) error {
		c.Locals(LocFirmStaffIDs, []string{staffFirm.String()})
		firmID, err := uuid.Parse(c.Params("firm_id"))
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid firm_id")
		}
		if err := EnsureStaffFirm(c, firmID); err != nil {
			return err
		}
		return c.SendString("רשימת לקוחות")
	})
	return app
}

func TestEnsureStaffFirmDeniesForeignFirm(t *testing.T) {
	myFirm := uuid.New()
	otherFirm := uuid.New()
	app := firmApp(myFirm)

	resp, err := app.Test(httptest.NewRequest("GET", "/"+otherFirm.String()+"/clients", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// the handler body must never run for a foreign firm
	require.NotContains(t, string(body), "רשימת לקוחות")
}

func TestEnsureStaffFirmAllowsMember(t *testing.T) {
	myFirm := uuid.New()
	app := firmApp(myFirm)

	resp, err := app.Test(httptest.NewRequest("GET", "/"+myFirm.String()+"/clients", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetUserIDMissingClaimIs401(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.JsonErrorHandler})
	app.Post("/payments", func(c *fiber.Ctx) error {
		// no user_id local set; the error must stop the handler so a
		// Nil uuid is never persisted as recorded-by
		userID, err := GetUserID(c)
		if err != nil {
			return err
		}
		require.NotEqual(t, uuid.Nil, userID)
		return c.SendString("recorded")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/payments", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestEnsureOwnerFirmRejectsStaffClaim(t *testing.T) {
	firm := uuid.New()
	app := fiber.New(fiber.Config{ErrorHandler: helper.JsonErrorHandler})
	app.Patch("/:firm_id/firm", func(c *fiber.Ctx) error {
		// staff membership only, no owner claim
		c.Locals(LocFirmStaffIDs, []string{firm.String()})
		firmID, err := uuid.Parse(c.Params("firm_id"))
		require.NoError(t, err)
		if err := EnsureOwnerFirm(c, firmID); err != nil {
			return err
		}
		return c.SendString("updated")
	})

	resp, err := app.Test(httptest.NewRequest("PATCH", "/"+firm.String()+"/firm", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
