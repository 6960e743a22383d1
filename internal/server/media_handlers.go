package server

import (
	"io"

	"creospace/internal/models"
	"creospace/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia accepts a multipart "file" upload into the named bucket and
// returns the public URL of the stored object.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	bucket := c.Params("bucket")
	if !storage.ValidBucket(bucket) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown media bucket"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	url, err := s.media.Save(bucket, userID, content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":    url,
		"bucket": bucket,
	})
}
