package routes

import (
	"time"

	"robosnap_server/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

func publicRoutes(api fiber.Router, h *handlers.Handlers) {
	public := api.Group("/public")
	public.Use(cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Query("refresh") == "true"
		},
		Expiration:   5 * time.Minute,
		CacheControl: true,
	}))
	public.Get("/user/:name", h.UserByUsername)
}
