package service

import (
	"context"

	"creospace/internal/models"
	"creospace/internal/repository"
)

// ProjectService provides project showcase business logic: visibility-gated
// reads, stars, and forks.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	profileRepo repository.ProfileRepository
}

// CreateProjectInput carries a new project request.
type CreateProjectInput struct {
	UserID       uint
	Title        string
	Description  string
	Technologies []string
	RepoURL      string
	DemoURL      string
	ImageURL     string
	Visibility   models.ProjectVisibility
}

// NewProjectService returns a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, profileRepo repository.ProfileRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		profileRepo: profileRepo,
	}
}

// CreateProject stores a new project.
func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Project title is required")
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = models.ProjectVisibilityPublic
	}
	if !models.ValidProjectVisibility(visibility) {
		return nil, models.NewValidationError("Invalid project visibility")
	}

	project := &models.Project{
		UserID:       in.UserID,
		Title:        in.Title,
		Description:  in.Description,
		Technologies: in.Technologies,
		RepoURL:      in.RepoURL,
		DemoURL:      in.DemoURL,
		ImageURL:     in.ImageURL,
		Visibility:   visibility,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject returns a project the viewer may see. Private projects are
// owner-only; internal ones require a signed-in viewer.
func (s *ProjectService) GetProject(ctx context.Context, viewerID, projectID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.projectVisible(viewerID, project) {
		return nil, models.NewNotFoundError("Project", projectID)
	}
	if err := s.hydrateProjects(ctx, viewerID, []*models.Project{project}); err != nil {
		return nil, err
	}
	return project, nil
}

// ListUserProjects lists a user's projects filtered to what the viewer may see.
func (s *ProjectService) ListUserProjects(ctx context.Context, viewerID, targetID uint, limit, offset int) ([]*models.Project, error) {
	projects, err := s.projectRepo.GetByUserID(ctx, targetID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	visible := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if s.projectVisible(viewerID, p) {
			visible = append(visible, p)
		}
	}
	if err := s.hydrateProjects(ctx, viewerID, visible); err != nil {
		return nil, err
	}
	return visible, nil
}

// DiscoverProjects lists public projects ranked by stars.
func (s *ProjectService) DiscoverProjects(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Project, error) {
	projects, err := s.projectRepo.ListPublic(ctx, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateProjects(ctx, viewerID, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProject edits the caller's own project.
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID uint, in CreateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own projects")
	}

	if in.Title != "" {
		project.Title = in.Title
	}
	if in.Description != "" {
		project.Description = in.Description
	}
	if in.Technologies != nil {
		project.Technologies = in.Technologies
	}
	if in.RepoURL != "" {
		project.RepoURL = in.RepoURL
	}
	if in.DemoURL != "" {
		project.DemoURL = in.DemoURL
	}
	if in.ImageURL != "" {
		project.ImageURL = in.ImageURL
	}
	if in.Visibility != "" {
		if !models.ValidProjectVisibility(in.Visibility) {
			return nil, models.NewValidationError("Invalid project visibility")
		}
		project.Visibility = in.Visibility
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the caller's own project.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID uint) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.UserID != userID {
		return models.NewForbiddenError("You can only delete your own projects")
	}
	return s.projectRepo.Delete(ctx, projectID)
}

// ToggleStar flips the viewer's star on a project and reports the new state.
func (s *ProjectService) ToggleStar(ctx context.Context, viewerID, projectID uint) (bool, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	if !s.projectVisible(viewerID, project) {
		return false, models.NewNotFoundError("Project", projectID)
	}

	starred, err := s.projectRepo.Star(ctx, viewerID, projectID)
	if err != nil {
		return false, err
	}
	if starred {
		return true, nil
	}
	if _, err := s.projectRepo.Unstar(ctx, viewerID, projectID); err != nil {
		return false, err
	}
	return false, nil
}

// ForkProject copies a visible project into the viewer's account and links it
// back to the origin. Forking your own project is rejected.
func (s *ProjectService) ForkProject(ctx context.Context, viewerID, projectID uint) (*models.Project, error) {
	origin, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if origin.UserID == viewerID {
		return nil, models.NewValidationError("Cannot fork your own project")
	}
	if !s.projectVisible(viewerID, origin) {
		return nil, models.NewNotFoundError("Project", projectID)
	}

	originID := origin.ID
	fork := &models.Project{
		UserID:       viewerID,
		Title:        origin.Title,
		Description:  origin.Description,
		Technologies: origin.Technologies,
		RepoURL:      origin.RepoURL,
		DemoURL:      origin.DemoURL,
		ImageURL:     origin.ImageURL,
		Visibility:   origin.Visibility,
		ForkedFrom:   &originID,
	}
	if err := s.projectRepo.Fork(ctx, origin, fork); err != nil {
		return nil, err
	}
	return fork, nil
}

func (s *ProjectService) projectVisible(viewerID uint, project *models.Project) bool {
	if viewerID == project.UserID {
		return true
	}
	switch project.Visibility {
	case models.ProjectVisibilityPrivate:
		return false
	case models.ProjectVisibilityInternal:
		return viewerID != 0
	default:
		return true
	}
}

func (s *ProjectService) hydrateProjects(ctx context.Context, viewerID uint, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ownerIDs := make([]uint, 0, len(projects))
	projectIDs := make([]uint, 0, len(projects))
	for _, p := range projects {
		ownerIDs = append(ownerIDs, p.UserID)
		projectIDs = append(projectIDs, p.ID)
	}

	summaries, err := s.profileRepo.GetSummaries(ctx, ownerIDs)
	if err != nil {
		return err
	}
	for _, p := range projects {
		p.Author = summaries[p.UserID]
	}

	if viewerID == 0 {
		return nil
	}
	starredIDs, err := s.projectRepo.GetStarredProjectIDs(ctx, viewerID, projectIDs)
	if err != nil {
		return err
	}
	starred := make(map[uint]struct{}, len(starredIDs))
	for _, id := range starredIDs {
		starred[id] = struct{}{}
	}
	for _, p := range projects {
		_, p.Starred = starred[p.ID]
	}
	return nil
}
