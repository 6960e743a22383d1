package server

import (
	"strings"
	"time"

	"creospace/internal/models"
	"creospace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the payload for profile edits. Pointer fields
// distinguish "not provided" from zero values.
type UpdateProfileRequest struct {
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	FullName    string     `json:"full_name"`
	Bio         string     `json:"bio"`
	AvatarURL   string     `json:"avatar_url"`
	Department  string     `json:"department"`
	NutechID    string     `json:"nutech_id"`
	PhoneNumber string     `json:"phone_number"`
	DOB         *time.Time `json:"dob"`
	IsPrivate   *bool      `json:"is_private"`
}

// GetMyProfile returns the authenticated user's own profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	view, err := s.profileService.GetProfile(c.UserContext(), userID, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(view)
}

// UpdateMyProfile applies a partial edit to the authenticated user's profile.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:      userID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		FullName:    req.FullName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Department:  req.Department,
		NutechID:    req.NutechID,
		PhoneNumber: req.PhoneNumber,
		DOB:         req.DOB,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// GetProfile returns another user's profile, gated by privacy.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	view, err := s.profileService.GetProfile(c.UserContext(), viewerID, targetID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(view)
}

// GetProfileByUsername resolves a profile by its unique username. Auth is
// optional: anonymous viewers see public profiles in restricted form.
func (s *Server) GetProfileByUsername(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid username"))
	}

	view, err := s.profileService.GetProfileByUsername(c.UserContext(), viewerID, username)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(view)
}

// SearchProfiles performs a case-insensitive search across usernames and
// display names. Public endpoint.
func (s *Server) SearchProfiles(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("q query parameter is required"))
	}

	p := parsePagination(c, 20)
	profiles, err := s.profileService.SearchProfiles(c.UserContext(), query, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"profiles": profiles,
		"count":    len(profiles),
	})
}
