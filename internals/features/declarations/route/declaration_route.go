package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	declarationController "misradcrm_backend/internals/features/declarations/controller"
	helperOSS "misradcrm_backend/internals/helpers/oss"
)

func DeclarationRoutes(r fiber.Router, db *gorm.DB) {
	blobSvc, err := helperOSS.NewOSSBlobServiceFromEnv("misradcrm/")
	if err != nil {
		log.Println("⚠️  object storage disabled:", err)
	}

	var blob helperOSS.BlobService
	if blobSvc != nil {
		blob = blobSvc
	}

	ctl := declarationController.NewCapitalDeclarationController(db, blob)

	decls := r.Group("/capital-declarations")
	decls.Post("/", ctl.Create)
	decls.Get("/", ctl.List)
	decls.Get("/:id", ctl.GetByID)
	decls.Patch("/:id", ctl.Update)
	decls.Post("/:id/transition", ctl.Transition)
	decls.Post("/:id/attachments", ctl.UploadAttachment)
	decls.Get("/:id/attachments/url", ctl.AttachmentURL)
}
