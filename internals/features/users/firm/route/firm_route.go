package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	firmController "misradcrm_backend/internals/features/users/firm/controller"
	helperOSS "misradcrm_backend/internals/helpers/oss"
)

func newController(db *gorm.DB) *firmController.FirmController {
	blobSvc, err := helperOSS.NewOSSBlobServiceFromEnv("misradcrm/")
	if err != nil {
		log.Println("⚠️  object storage disabled:", err)
	}
	var blob helperOSS.BlobService
	if blobSvc != nil {
		blob = blobSvc
	}
	return firmController.NewFirmController(db, blob)
}

// FirmRoutes: firm management for the authenticated user (not firm-scoped).
func FirmRoutes(api fiber.Router, db *gorm.DB) {
	ctl := newController(db)

	firms := api.Group("/firms")
	firms.Post("/", ctl.Create)
	firms.Get("/", ctl.ListMine)
}

// FirmScopedRoutes: management of one firm, mounted under /:firm_id.
func FirmScopedRoutes(r fiber.Router, db *gorm.DB) {
	ctl := newController(db)

	firm := r.Group("/firm")
	firm.Get("/", ctl.Get)
	firm.Patch("/", ctl.Update)
	firm.Post("/logo", ctl.UploadLogo)
	firm.Post("/members", ctl.AddMember)
	firm.Delete("/members/:user_id", ctl.RemoveMember)
}
