package handlers

import (
	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// EnsureChain opens the thread with a peer
func (h *Handlers) EnsureChain(c *fiber.Ctx) error {

	thread, err := h.Services.Chat.EnsureThread(c.UserContext(), username(c), c.Params("peer"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(thread)
}

// GetChain returns the whole thread with a peer, oldest first
func (h *Handlers) GetChain(c *fiber.Ctx) error {

	chain, err := h.Services.Chat.Messages(c.UserContext(), username(c), c.Params("peer"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(chain)
}

// AddMessage sends a text message to a peer
func (h *Handlers) AddMessage(c *fiber.Ctx) error {

	req := new(schemas.SendMessageSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	msg, err := h.Services.Chat.Send(c.UserContext(), username(c), c.Params("peer"), req.Text)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(msg)
}

// MigrateChains folds the caller's nested threads into pair threads
func (h *Handlers) MigrateChains(c *fiber.Ctx) error {

	report, err := h.Services.Chat.MigrateNestedThreads(c.UserContext(), username(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(report)
}
