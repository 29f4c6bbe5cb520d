package routes

import (
	"robosnap_server/handlers"

	"github.com/gofiber/fiber/v2"
)

func userRoutes(api fiber.Router, h *handlers.Handlers, authenticated fiber.Handler) {
	user := api.Group("/user", authenticated)
	user.Get("/", h.GetUser)
	user.Put("/location", h.UpdateLocation)

	presence := api.Group("/presence", authenticated)
	presence.Get("/", h.GetPresence)
	presence.Get("/:name", h.ResolveMarker)
}
