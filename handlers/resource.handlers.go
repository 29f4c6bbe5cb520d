package handlers

import (
	"robosnap_server/errors"

	"github.com/gofiber/fiber/v2"
)

// MaxPhotoSize caps a single upload
const MaxPhotoSize = 10 * 1024 * 1024

// AddPhoto stores a multipart "photo" in the caller's library
func (h *Handlers) AddPhoto(c *fiber.Ctx) error {

	header, err := c.FormFile("photo")
	if err != nil {
		return errors.HandleBadRequestError(c, "Photo", "missing")
	}

	if header.Size <= 0 {
		return errors.HandleBadRequestError(c, "Photo", "empty")
	}

	if header.Size > MaxPhotoSize {
		return errors.HandleBadRequestError(c, "Photo", "exceeding length")
	}

	photoFile, err := header.Open()
	if err != nil {
		return errors.HandleBadRequestError(c, "Photo", "invalid")
	}
	defer photoFile.Close()

	photo, err := h.Services.Media.Upload(c.UserContext(), username(c), photoFile, header.Size, nil)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(photo)
}

// GetPhotos lists the caller's library
func (h *Handlers) GetPhotos(c *fiber.Ctx) error {

	photos, err := h.Services.Media.List(c.UserContext(), username(c))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.JSON(photos)
}
