package routes

import (
	"robosnap_server/config"
	"robosnap_server/handlers"
	"robosnap_server/middlewares"
	"robosnap_server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
)

// SetRoutes sets all routes of server
func SetRoutes(app *fiber.App, h *handlers.Handlers, identity *services.Identity) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.Config.Origin,
		AllowCredentials: true,
	}))

	api := app.Group(config.Config.Version)
	authenticated := middlewares.Authenticate(identity)

	api.Use("/stream", middlewares.AuthenticateStream(identity), websocket.New(h.Streams.Stream))

	authRoutes(api, h, authenticated)
	userRoutes(api, h, authenticated)
	relationRoutes(api, h, authenticated)
	chainRoutes(api, h, authenticated)
	resourceRoutes(api, h, authenticated)
	publicRoutes(api, h)
}
