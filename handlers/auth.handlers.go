package handlers

import (
	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/helpers"
	"robosnap_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// Register users
func (h *Handlers) Register(c *fiber.Ctx) error {

	req := new(schemas.CredentialsSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	res, err := h.Services.Identity.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(res)
}

// Login log users in
func (h *Handlers) Login(c *fiber.Ctx) error {

	req := new(schemas.CredentialsSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	res, err := h.Services.Identity.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(res)
}

// Refresh restores a session from its refresh token
func (h *Handlers) Refresh(c *fiber.Ctx) error {

	req := new(schemas.RestoreSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	res, err := h.Services.Identity.Restore(c.UserContext(), req.SessionID, req.RefreshToken)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(res)
}

// Logout revokes the session and closes the user's streams
func (h *Handlers) Logout(c *fiber.Ctx) error {

	claims := helpers.AccessClaims{Username: username(c), SessionID: sessionID(c)}

	if err := h.Services.Identity.Logout(c.UserContext(), claims); err != nil {
		return errors.HandleServiceError(c, err)
	}

	h.Streams.CloseSession(claims.SessionID)

	return helpers.OKResponse(c)
}

// GetUser returns the caller with its friend list
func (h *Handlers) GetUser(c *fiber.Ctx) error {

	info, err := h.Services.Identity.UserInfo(c.UserContext(), username(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(info)
}
