package routes

import (
	"robosnap_server/handlers"

	"github.com/gofiber/fiber/v2"
)

func relationRoutes(api fiber.Router, h *handlers.Handlers, authenticated fiber.Handler) {
	relation := api.Group("/relation", authenticated)

	relation.Get("/", h.GetAllRelations)
	api.Get("/search", authenticated, h.Search)
	userRelationRoutes(relation, h)
}

func userRelationRoutes(api fiber.Router, h *handlers.Handlers) {
	api.Post("/:name/add", h.AddRelation)
	api.Post("/:key/remove", h.RemoveRelation)
}
