package server

import (
	"creospace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateStoryRequest is the payload for posting a story.
type CreateStoryRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
}

// CreateStory posts a story that expires 24 hours after creation.
func (s *Server) CreateStory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	story, err := s.storyService.CreateStory(c.UserContext(), userID, req.Content, req.ImageURL, req.VideoURL)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(story)
}

// GetStoryShelf returns active stories from the viewer and the accounts they
// follow, grouped for the story tray.
func (s *Server) GetStoryShelf(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	stories, err := s.storyService.GetStoryShelf(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"stories": stories,
		"count":   len(stories),
	})
}

// GetUserStories returns a single user's active stories, gated by privacy.
func (s *Server) GetUserStories(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stories, err := s.storyService.GetUserStories(c.UserContext(), viewerID, targetID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"stories": stories,
		"count":   len(stories),
	})
}

// DeleteStory removes the viewer's own story before it expires naturally.
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.storyService.DeleteStory(c.UserContext(), userID, storyID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Story deleted"})
}
