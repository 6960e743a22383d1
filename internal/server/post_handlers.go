package server

import (
	"creospace/internal/models"
	"creospace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the payload for creating a post.
type CreatePostRequest struct {
	Content    string   `json:"content"`
	ImageURL   string   `json:"image_url"`
	VideoURL   string   `json:"video_url"`
	MediaURLs  []string `json:"media_urls"`
	Visibility string   `json:"visibility"`
}

// UpdatePostRequest is the payload for editing a post.
type UpdatePostRequest struct {
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

// CreatePost creates a new post. Hashtags and mentions are extracted from the
// content by the service layer.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:     userID,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		VideoURL:   req.VideoURL,
		MediaURLs:  req.MediaURLs,
		Visibility: models.PostVisibility(req.Visibility),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if post.Visibility == models.PostVisibilityPublic {
		s.publishBroadcastEvent(c.UserContext(), EventPostCreated, fiber.Map{
			"post_id": post.ID,
			"author":  post.Author,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single post if the viewer may see it.
func (s *Server) GetPost(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), viewerID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(post)
}

// UpdatePost edits a post's content or visibility. Prior content is kept in
// the post's edit history.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:     userID,
		PostID:     postID,
		Content:    req.Content,
		Visibility: models.PostVisibility(req.Visibility),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// DeletePost removes the viewer's own post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), userID, postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// GetUserPosts lists a user's posts, gated by profile and post visibility.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.GetUserPosts(c.UserContext(), viewerID, targetID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// ToggleLike flips the viewer's like on a post.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.postService.ToggleLike(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"liked": liked})
}

// ReactToPost sets the viewer's typed reaction on a post, replacing any
// previous reaction.
func (s *Server) ReactToPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.React(c.UserContext(), userID, postID, models.ReactionType(req.Type)); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	reactions, err := s.postService.GetReactions(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishBroadcastEvent(c.UserContext(), EventPostReactionUpdated, fiber.Map{
		"post_id":   postID,
		"reactions": reactions,
	})

	return c.JSON(fiber.Map{"reactions": reactions})
}

// RemoveReaction clears the viewer's reaction from a post.
func (s *Server) RemoveReaction(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Unreact(c.UserContext(), userID, postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Reaction removed"})
}

// GetReactions returns per-type reaction counts for a post.
func (s *Server) GetReactions(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reactions, err := s.postService.GetReactions(c.UserContext(), viewerID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"reactions": reactions})
}

// BookmarkPost saves a post to the viewer's bookmarks.
func (s *Server) BookmarkPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Bookmark(c.UserContext(), userID, postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post bookmarked"})
}

// UnbookmarkPost removes a post from the viewer's bookmarks.
func (s *Server) UnbookmarkPost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Unbookmark(c.UserContext(), userID, postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Bookmark removed"})
}

// GetBookmarks lists the viewer's bookmarked posts.
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	p := parsePagination(c, 20)
	posts, err := s.postService.GetBookmarks(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}
