package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "misradcrm_backend/internals/features/finance/payments/controller"
)

// PaymentRoutes mounts firm-scoped payment endpoints.
func PaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)

	payments := r.Group("/payments")
	payments.Post("/", ctl.Record)
	payments.Post("/checkout", ctl.CreateGatewayCheckout)
	payments.Get("/", ctl.List)
}

// PaymentWebhookRoutes mounts the unauthenticated gateway callback.
func PaymentWebhookRoutes(api fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)
	api.Post("/payments/notification", ctl.HandleNotification)
}
