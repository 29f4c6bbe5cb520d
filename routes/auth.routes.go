package routes

import (
	"robosnap_server/handlers"

	"github.com/gofiber/fiber/v2"
)

func authRoutes(api fiber.Router, h *handlers.Handlers, authenticated fiber.Handler) {
	oauth := api.Group("auth")
	oauth.Post("/register", h.Register)
	oauth.Post("/login", h.Login)
	oauth.Post("/refresh", h.Refresh)
	oauth.Post("/logout", authenticated, h.Logout)
}
