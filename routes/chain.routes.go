package routes

import (
	"robosnap_server/handlers"

	"github.com/gofiber/fiber/v2"
)

func chainRoutes(api fiber.Router, h *handlers.Handlers, authenticated fiber.Handler) {
	chain := api.Group("/chat", authenticated)
	chain.Post("/migrate", h.MigrateChains)

	userChainRoutes(chain, h)
}

func userChainRoutes(api fiber.Router, h *handlers.Handlers) {
	userChain := api.Group("/:peer")
	userChain.Post("/", h.EnsureChain)
	userChain.Get("/", h.GetChain)
	userChain.Post("/message", h.AddMessage)
}
