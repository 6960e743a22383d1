package server

import (
	"creospace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser creates a follow edge to the target user. Public targets are
// followed immediately; private targets get a pending request instead.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	follow, err := s.followService.FollowUser(c.UserContext(), userID, targetID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	ctx := c.UserContext()
	if follow.Status == models.FollowStatusPending {
		s.publishUserEvent(ctx, targetID, EventFollowRequestReceived, fiber.Map{
			"follower": s.profileSummary(ctx, userID),
		})
	} else {
		s.publishUserEvent(ctx, targetID, EventFollowerAdded, fiber.Map{
			"follower": s.profileSummary(ctx, userID),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(follow)
}

// UnfollowUser removes a follow edge (or withdraws a pending request).
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.UnfollowUser(c.UserContext(), userID, targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishUserEvent(c.UserContext(), targetID, EventFollowerRemoved, fiber.Map{
		"user_id": userID,
	})

	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// AcceptFollowRequest approves a pending follow request from requesterID.
func (s *Server) AcceptFollowRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requesterID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	follow, err := s.followService.AcceptFollowRequest(c.UserContext(), userID, requesterID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishUserEvent(c.UserContext(), requesterID, EventFollowRequestAccepted, fiber.Map{
		"user": s.profileSummary(c.UserContext(), userID),
	})

	return c.JSON(follow)
}

// RejectFollowRequest declines a pending follow request from requesterID.
func (s *Server) RejectFollowRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requesterID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followService.RejectFollowRequest(c.UserContext(), userID, requesterID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishUserEvent(c.UserContext(), requesterID, EventFollowRequestRejected, fiber.Map{
		"user_id": userID,
	})

	return c.JSON(fiber.Map{"message": "Request rejected"})
}

// GetFollowStatus returns the viewer's relationship to the target user.
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	relationship, err := s.followService.GetFollowStatus(c.UserContext(), userID, targetID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"relationship": relationship})
}

// GetFollowers lists accepted followers of the target user.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	followers, err := s.followService.GetFollowers(c.UserContext(), viewerID, targetID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"followers": followers,
		"count":     len(followers),
	})
}

// GetFollowing lists accounts the target user follows.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	following, err := s.followService.GetFollowing(c.UserContext(), viewerID, targetID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"following": following,
		"count":     len(following),
	})
}

// GetPendingFollowRequests lists incoming follow requests for the viewer.
func (s *Server) GetPendingFollowRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.followService.GetPendingRequests(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetSentFollowRequests lists the viewer's own outstanding requests.
func (s *Server) GetSentFollowRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requests, err := s.followService.GetSentRequests(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
	})
}
