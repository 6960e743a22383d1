package server

import (
	"creospace/internal/models"
	"creospace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProjectRequest is the payload for creating or updating a project.
type ProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	RepoURL      string   `json:"repo_url"`
	DemoURL      string   `json:"demo_url"`
	ImageURL     string   `json:"image_url"`
	Visibility   string   `json:"visibility"`
}

// CreateProject creates a portfolio project.
func (s *Server) CreateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectService.CreateProject(c.UserContext(), service.CreateProjectInput{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		RepoURL:      req.RepoURL,
		DemoURL:      req.DemoURL,
		ImageURL:     req.ImageURL,
		Visibility:   models.ProjectVisibility(req.Visibility),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProject returns a single project if the viewer may see it.
func (s *Server) GetProject(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	project, err := s.projectService.GetProject(c.UserContext(), viewerID, projectID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	return c.JSON(project)
}

// GetUserProjects lists a user's projects, gated by visibility.
func (s *Server) GetUserProjects(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	projects, err := s.projectService.ListUserProjects(c.UserContext(), viewerID, targetID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"count":    len(projects),
	})
}

// DiscoverProjects lists recent public projects. Auth optional: anonymous
// browsers see the public set without star state.
func (s *Server) DiscoverProjects(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	p := parsePagination(c, 20)
	projects, err := s.projectService.DiscoverProjects(c.UserContext(), viewerID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"count":    len(projects),
	})
}

// UpdateProject edits the viewer's own project.
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectService.UpdateProject(c.UserContext(), userID, projectID, service.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		RepoURL:      req.RepoURL,
		DemoURL:      req.DemoURL,
		ImageURL:     req.ImageURL,
		Visibility:   models.ProjectVisibility(req.Visibility),
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(project)
}

// DeleteProject removes the viewer's own project.
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.projectService.DeleteProject(c.UserContext(), userID, projectID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Project deleted"})
}

// ToggleProjectStar flips the viewer's star on a project.
func (s *Server) ToggleProjectStar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	starred, err := s.projectService.ToggleStar(c.UserContext(), userID, projectID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if starred {
		if project, perr := s.projectService.GetProject(c.UserContext(), userID, projectID); perr == nil && project.UserID != userID {
			s.publishUserEvent(c.UserContext(), project.UserID, EventProjectStarred, fiber.Map{
				"project_id": projectID,
				"user":       s.profileSummary(c.UserContext(), userID),
			})
		}
	}

	return c.JSON(fiber.Map{"starred": starred})
}

// ForkProject copies a visible project into the viewer's portfolio, linked
// back to its origin.
func (s *Server) ForkProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	fork, err := s.projectService.ForkProject(c.UserContext(), userID, projectID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if origin, perr := s.projectService.GetProject(c.UserContext(), userID, projectID); perr == nil && origin.UserID != userID {
		s.publishUserEvent(c.UserContext(), origin.UserID, EventProjectForked, fiber.Map{
			"project_id": projectID,
			"fork_id":    fork.ID,
			"user":       s.profileSummary(c.UserContext(), userID),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fork)
}
