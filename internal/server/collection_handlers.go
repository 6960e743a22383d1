package server

import (
	"creospace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCollectionRequest is the payload for creating a collection.
type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

// UpdateCollectionRequest is the payload for editing a collection. IsPrivate
// is a pointer so "not provided" keeps the current setting.
type UpdateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   *bool  `json:"is_private"`
}

// CreateCollection creates a named collection for saving posts.
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.CreateCollection(c.UserContext(), userID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetMyCollections lists the viewer's collections.
func (s *Server) GetMyCollections(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	collections, err := s.collectionService.ListCollections(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"collections": collections,
		"count":       len(collections),
	})
}

// UpdateCollection edits the viewer's own collection.
func (s *Server) UpdateCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req UpdateCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.UpdateCollection(c.UserContext(), userID, collectionID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(collection)
}

// DeleteCollection removes the viewer's own collection. Saved posts are not
// deleted, only the collection and its membership rows.
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.collectionService.DeleteCollection(c.UserContext(), userID, collectionID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Collection deleted"})
}

// SaveToCollection adds a post to a collection the viewer owns.
func (s *Server) SaveToCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.collectionService.SavePost(c.UserContext(), userID, collectionID, postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post saved"})
}

// RemoveFromCollection removes a post from a collection the viewer owns.
func (s *Server) RemoveFromCollection(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.collectionService.UnsavePost(c.UserContext(), userID, collectionID, postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Post removed"})
}

// GetCollectionPosts lists the posts saved in a collection the viewer may see.
func (s *Server) GetCollectionPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	collectionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.collectionService.GetCollectionPosts(c.UserContext(), userID, collectionID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}
