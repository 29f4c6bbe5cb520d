package handlers

import (
	"robosnap_server/errors"
	"robosnap_server/helpers"
	"robosnap_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// GetAllRelations lists the caller's friends
func (h *Handlers) GetAllRelations(c *fiber.Ctx) error {

	friends, err := h.Services.Friends.List(c.UserContext(), username(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(helpers.FriendsToSchema(friends))
}

// AddRelation adds the named directory entry as a friend
func (h *Handlers) AddRelation(c *fiber.Ctx) error {

	friend, err := h.Services.Friends.Add(c.UserContext(), username(c), c.Params("name"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(helpers.FriendsToSchema([]schemas.FriendRecord{friend})[0])
}

// RemoveRelation removes a friend edge by key
func (h *Handlers) RemoveRelation(c *fiber.Ctx) error {

	if err := h.Services.Friends.Remove(c.UserContext(), username(c), c.Params("key")); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return helpers.OKResponse(c)
}

// Search searches the robot directory
func (h *Handlers) Search(c *fiber.Ctx) error {

	query := c.Query("q")
	if len(query) > 30 {
		return errors.HandleBadRequestError(c, "q", "max")
	}

	results, err := h.Services.Friends.Search(c.UserContext(), username(c), query)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(results)
}

// UserByUsername tells whether a name is registered
func (h *Handlers) UserByUsername(c *fiber.Ctx) error {

	user, err := h.Services.Friends.Lookup(c.UserContext(), c.Params("name"))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(user)
}
