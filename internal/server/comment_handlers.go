package server

import (
	"creospace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the payload for creating a comment. ParentID, when
// set, makes this a reply to a top-level comment.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// CreateComment adds a comment (or one-level reply) to a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), userID, postID, req.Content, req.ParentID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Notify the post owner about the new comment.
	if post, perr := s.postService.GetPost(c.UserContext(), userID, postID); perr == nil && post.UserID != userID {
		s.publishUserEvent(c.UserContext(), post.UserID, EventCommentCreated, fiber.Map{
			"post_id":    postID,
			"comment_id": comment.ID,
			"author":     comment.Author,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments lists a post's comments with replies nested one level deep.
func (s *Server) GetComments(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	comments, err := s.commentService.GetComments(c.UserContext(), viewerID, postID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"comments": comments,
		"count":    len(comments),
	})
}

// UpdateComment edits the viewer's own comment.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), userID, commentID, req.Content)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comment)
}

// DeleteComment removes a comment. Allowed for the comment author and the
// post owner.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), userID, commentID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
