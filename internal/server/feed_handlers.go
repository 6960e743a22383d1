package server

import (
	"strings"

	"creospace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HomeFeed returns the viewer's own posts merged with posts from accounts
// they follow.
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	p := parsePagination(c, 20)
	posts, err := s.feedService.HomeFeed(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// FollowingFeed returns posts only from accounts the viewer follows.
func (s *Server) FollowingFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	p := parsePagination(c, 20)
	posts, err := s.feedService.FollowingFeed(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// ExploreFeed returns recent public posts from across the platform.
func (s *Server) ExploreFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	// Kill switch: explore stays on unless the flag is explicitly configured off.
	if s.featureFlags != nil {
		if _, configured := s.featureFlags.Raw()["explore_feed"]; configured &&
			!s.featureFlags.Enabled("explore_feed", userID) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Explore feed is not available"))
		}
	}

	sort := c.Query("sort", "latest")
	if sort == "trending" && s.featureFlags != nil {
		if _, configured := s.featureFlags.Raw()["trending_explore"]; configured &&
			!s.featureFlags.Enabled("trending_explore", userID) {
			sort = "latest"
		}
	}

	p := parsePagination(c, 20)
	posts, err := s.feedService.ExploreFeed(c.UserContext(), userID, sort, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
		"sort":  sort,
	})
}

// HashtagFeed returns visible posts tagged with the given hashtag.
func (s *Server) HashtagFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	tag := strings.TrimSpace(c.Params("tag"))
	if tag == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid hashtag"))
	}

	p := parsePagination(c, 20)
	posts, err := s.feedService.HashtagFeed(c.UserContext(), userID, tag, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"hashtag": tag,
		"posts":   posts,
		"count":   len(posts),
	})
}

// MentionFeed returns visible posts that mention the given username.
func (s *Server) MentionFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid username"))
	}

	p := parsePagination(c, 20)
	posts, err := s.feedService.MentionFeed(c.UserContext(), userID, username, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"username": username,
		"posts":    posts,
		"count":    len(posts),
	})
}

// ActivityFeed returns recent likes, comments and follows on the viewer's
// content, newest first.
func (s *Server) ActivityFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	items, err := s.feedService.ActivityFeed(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"activity": items,
		"count":    len(items),
	})
}
