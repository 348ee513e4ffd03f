package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	letterController "misradcrm_backend/internals/features/letters/controller"
	"misradcrm_backend/internals/features/letters/service"
	"misradcrm_backend/internals/middlewares"
)

// LetterRoutes mounts templates, letters, distribution lists and broadcasts
// under a firm-scoped group.
func LetterRoutes(r fiber.Router, db *gorm.DB) {
	mailer, err := service.NewEdgeMailerFromEnv()
	if err != nil {
		log.Println("⚠️  mailer disabled:", err)
	}

	var m service.Mailer
	if mailer != nil {
		m = mailer
	}

	tplCtl := letterController.NewLetterTemplateController(db)
	letterCtl := letterController.NewFeeLetterController(db, m)
	listCtl := letterController.NewDistributionListController(db)
	broadcastCtl := letterController.NewBroadcastController(db, m)

	templates := r.Group("/letter-templates")
	templates.Post("/", tplCtl.Create)
	templates.Get("/", tplCtl.List)
	templates.Get("/:id", tplCtl.GetByID)
	templates.Patch("/:id", tplCtl.Update)
	templates.Delete("/:id", tplCtl.Delete)

	letters := r.Group("/letters")
	letters.Post("/", letterCtl.Generate)
	letters.Get("/", letterCtl.List)
	letters.Get("/:id/pdf", letterCtl.DownloadPDF)

	lists := r.Group("/distribution-lists")
	lists.Post("/", listCtl.Create)
	lists.Get("/", listCtl.List)
	lists.Patch("/:id", listCtl.Update)
	lists.Delete("/:id", listCtl.Delete)
	lists.Post("/:id/members", listCtl.AddMembers)
	lists.Delete("/:id/members", listCtl.RemoveMembers)

	broadcasts := r.Group("/broadcasts")
	// Limit only creation; progress polling must stay cheap and frequent.
	broadcasts.Post("/", middlewares.BroadcastRateLimiter(), broadcastCtl.Create)
	broadcasts.Get("/", broadcastCtl.List)
	broadcasts.Get("/:id", broadcastCtl.Progress)
	broadcasts.Post("/:id/cancel", broadcastCtl.Cancel)
}
