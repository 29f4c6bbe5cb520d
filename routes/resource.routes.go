package routes

import (
	"robosnap_server/handlers"

	"github.com/gofiber/fiber/v2"
)

func resourceRoutes(api fiber.Router, h *handlers.Handlers, authenticated fiber.Handler) {
	resources := api.Group("/resource", authenticated)
	resources.Post("/photo", h.AddPhoto)
	resources.Get("/photo", h.GetPhotos)
}
