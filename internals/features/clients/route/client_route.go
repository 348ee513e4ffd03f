package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	clientController "misradcrm_backend/internals/features/clients/controller"
)

func ClientRoutes(r fiber.Router, db *gorm.DB) {
	ctl := clientController.NewClientController(db)

	clients := r.Group("/clients")
	clients.Post("/", ctl.Create)
	clients.Get("/", ctl.List)
	clients.Get("/:id", ctl.GetByID)
	clients.Patch("/:id", ctl.Update)
	clients.Delete("/:id", ctl.Delete)
}
