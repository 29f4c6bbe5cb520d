package handlers

import (
	"robosnap_server/services"
	"robosnap_server/socket"

	"github.com/gofiber/fiber/v2"
)

// Handlers adapts the services to fiber
type Handlers struct {
	Services *services.Services
	Streams  *socket.Hub
}

func New(s *services.Services, streams *socket.Hub) *Handlers {
	return &Handlers{Services: s, Streams: streams}
}

func username(c *fiber.Ctx) string {
	name, _ := c.Locals("username").(string)
	return name
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("sessionid").(string)
	return id
}
