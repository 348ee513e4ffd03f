package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeController "misradcrm_backend/internals/features/finance/fees/controller"
)

// FeeRoutes mounts fee-calculation and tracking endpoints under a
// firm-scoped group (r already carries /:firm_id).
func FeeRoutes(r fiber.Router, db *gorm.DB) {
	calcCtl := feeController.NewFeeCalculationController(db)
	trackCtl := feeController.NewFeeTrackingController(db)

	fees := r.Group("/fee-calculations")
	fees.Post("/", calcCtl.Create)
	fees.Get("/", calcCtl.List)
	fees.Get("/:id", calcCtl.GetByID)
	fees.Patch("/:id", calcCtl.Update)
	fees.Delete("/:id", calcCtl.Delete)
	fees.Post("/:id/cancel", calcCtl.Cancel)

	r.Get("/fee-tracking", trackCtl.Overview)
}
