package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	clientRoute "misradcrm_backend/internals/features/clients/route"
	declarationRoute "misradcrm_backend/internals/features/declarations/route"
	feeRoute "misradcrm_backend/internals/features/finance/fees/route"
	paymentRoute "misradcrm_backend/internals/features/finance/payments/route"
	letterRoute "misradcrm_backend/internals/features/letters/route"
	authRoute "misradcrm_backend/internals/features/users/auth/route"
	firmRoute "misradcrm_backend/internals/features/users/firm/route"
	authMiddleware "misradcrm_backend/internals/middlewares/auth"
)

// SetupRoutes wires the whole API:
//
//	/api/auth/*                    public auth + token refresh
//	/api/payments/notification     gateway webhook (skipped by auth)
//	/api/firms                     firm management for the caller
//	/api/:firm_id/*                everything tenant-scoped
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	// Public surface.
	authRoute.PublicAuthRoutes(api, db)
	paymentRoute.PaymentWebhookRoutes(api, db)

	// Everything below requires a valid token.
	api.Use(authMiddleware.AuthMiddleware(db))

	authRoute.ProtectedAuthRoutes(api, db)
	firmRoute.FirmRoutes(api, db)

	// Tenant scope: controllers re-check membership against the path id.
	firm := api.Group("/:firm_id")
	firmRoute.FirmScopedRoutes(firm, db)
	clientRoute.ClientRoutes(firm, db)
	feeRoute.FeeRoutes(firm, db)
	paymentRoute.PaymentRoutes(firm, db)
	letterRoute.LetterRoutes(firm, db)
	declarationRoute.DeclarationRoutes(firm, db)
}
