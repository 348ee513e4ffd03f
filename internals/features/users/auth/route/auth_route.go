package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "misradcrm_backend/internals/features/users/auth/controller"
	"misradcrm_backend/internals/middlewares"
)

// PublicAuthRoutes: endpoints reachable without a token.
func PublicAuthRoutes(api fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	auth.Post("/login/google", middlewares.LoginRateLimiter(), ctl.LoginGoogle)
	auth.Post("/refresh", ctl.Refresh)
}

// ProtectedAuthRoutes: endpoints behind the auth middleware.
func ProtectedAuthRoutes(api fiber.Router, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/logout", ctl.Logout)
	auth.Get("/me", ctl.Me)
}
