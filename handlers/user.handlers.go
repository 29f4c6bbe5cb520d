package handlers

import (
	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/helpers"
	"robosnap_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// UpdateLocation records the caller's position
func (h *Handlers) UpdateLocation(c *fiber.Ctx) error {

	req := new(schemas.LocationSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	if err := h.Services.Presence.UpdateLocation(c.UserContext(), username(c), req.Latitude, req.Longitude); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return helpers.OKResponse(c)
}

// GetPresence returns the current presence snapshot
func (h *Handlers) GetPresence(c *fiber.Ctx) error {

	snapshot, err := h.Services.Presence.Snapshot(c.UserContext())
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(snapshot)
}

// ResolveMarker tells the caller what a map marker stands for
func (h *Handlers) ResolveMarker(c *fiber.Ctx) error {

	marker, err := h.Services.Presence.ResolveMarker(c.UserContext(), username(c), c.Params("name"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(marker)
}
