package middlewares

import (
	"strings"

	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Authenticate checks the bearer access token and stores its claims in locals
func Authenticate(identity *services.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {

		authorization := string(c.Request().Header.Peek("Authorization"))
		if !strings.HasPrefix(authorization, "Bearer ") {
			return errors.HandleUnauthorizedError(c, "missing")
		}

		claims, err := identity.Authenticate(c.UserContext(), strings.TrimPrefix(authorization, "Bearer "))
		if err != nil {
			return errors.HandleServiceError(c, err)
		}

		c.Locals("username", claims.Username)
		c.Locals("sessionid", claims.SessionID)
		return c.Next()
	}
}

// AuthenticateStream authenticates websocket connection
func AuthenticateStream(identity *services.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {

		if !websocket.IsWebSocketUpgrade(c) {
			global.MonitorLogger.Println("IP: " + c.IP() + "; Problem: websocket_upgrade")
			return fiber.ErrUpgradeRequired
		}

		claims, err := identity.Authenticate(c.UserContext(), c.Query("token"))
		if err != nil {
			return errors.HandleServiceError(c, err)
		}

		c.Locals("username", claims.Username)
		c.Locals("sessionid", claims.SessionID)
		c.Locals("topic", c.Query("topic", "presence"))
		return c.Next()
	}
}
