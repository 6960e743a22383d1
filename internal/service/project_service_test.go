package service

import (
	"context"
	"errors"
	"testing"

	"creospace/internal/models"
)

func TestCreateProjectDefaultsToPublic(t *testing.T) {
	projects := noopProjectRepo()
	var created *models.Project
	projects.createFn = func(_ context.Context, p *models.Project) error {
		created = p
		return nil
	}

	svc := NewProjectService(projects, noopProfileRepo())
	if _, err := svc.CreateProject(context.Background(), CreateProjectInput{
		UserID: 1,
		Title:  "campus map",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Visibility != models.ProjectVisibilityPublic {
		t.Fatalf("expected default public visibility, got %s", created.Visibility)
	}
}

func TestCreateProjectInvalidVisibilityRejected(t *testing.T) {
	svc := NewProjectService(noopProjectRepo(), noopProfileRepo())
	_, err := svc.CreateProject(context.Background(), CreateProjectInput{
		UserID:     1,
		Title:      "x",
		Visibility: "secret",
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProjectVisibilityGating(t *testing.T) {
	projects := noopProjectRepo()
	visibility := models.ProjectVisibilityPrivate
	projects.getByIDFn = func(_ context.Context, id uint) (*models.Project, error) {
		return &models.Project{ID: id, UserID: 2, Visibility: visibility}, nil
	}

	svc := NewProjectService(projects, noopProfileRepo())

	// Private: owner only.
	if _, err := svc.GetProject(context.Background(), 2, 10); err != nil {
		t.Fatalf("owner should see own private project: %v", err)
	}
	if _, err := svc.GetProject(context.Background(), 1, 10); err == nil {
		t.Fatal("expected private project hidden from others")
	}

	// Internal: any signed-in viewer, but not anonymous.
	visibility = models.ProjectVisibilityInternal
	if _, err := svc.GetProject(context.Background(), 1, 10); err != nil {
		t.Fatalf("signed-in viewer should see internal project: %v", err)
	}
	if _, err := svc.GetProject(context.Background(), 0, 10); err == nil {
		t.Fatal("expected internal project hidden from anonymous viewers")
	}

	// Public: open to everyone.
	visibility = models.ProjectVisibilityPublic
	if _, err := svc.GetProject(context.Background(), 0, 10); err != nil {
		t.Fatalf("anonymous viewer should see public project: %v", err)
	}
}

func TestToggleStar(t *testing.T) {
	projects := noopProjectRepo()
	projects.getByIDFn = func(_ context.Context, id uint) (*models.Project, error) {
		return &models.Project{ID: id, UserID: 2, Visibility: models.ProjectVisibilityPublic}, nil
	}
	starredNow := false
	projects.starFn = func(context.Context, uint, uint) (bool, error) {
		if starredNow {
			return false, nil
		}
		starredNow = true
		return true, nil
	}
	unstarred := false
	projects.unstarFn = func(context.Context, uint, uint) (bool, error) {
		unstarred = true
		starredNow = false
		return true, nil
	}

	svc := NewProjectService(projects, noopProfileRepo())

	on, err := svc.ToggleStar(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !on {
		t.Fatal("expected first toggle to star")
	}

	on, err = svc.ToggleStar(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if on || !unstarred {
		t.Fatal("expected second toggle to unstar")
	}
}

func TestForkProjectCopiesAndLinksOrigin(t *testing.T) {
	projects := noopProjectRepo()
	projects.getByIDFn = func(_ context.Context, id uint) (*models.Project, error) {
		return &models.Project{
			ID:           id,
			UserID:       2,
			Title:        "campus map",
			Technologies: []string{"go", "postgres"},
			Visibility:   models.ProjectVisibilityPublic,
		}, nil
	}
	var forked *models.Project
	projects.forkFn = func(_ context.Context, _, fork *models.Project) error {
		forked = fork
		return nil
	}

	svc := NewProjectService(projects, noopProfileRepo())
	fork, err := svc.ForkProject(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if forked.UserID != 1 || forked.Title != "campus map" {
		t.Fatalf("expected fork owned by viewer with copied fields, got %+v", forked)
	}
	if fork.ForkedFrom == nil || *fork.ForkedFrom != 10 {
		t.Fatal("expected fork linked back to origin")
	}
}

func TestForkOwnProjectRejected(t *testing.T) {
	projects := noopProjectRepo()
	projects.getByIDFn = func(_ context.Context, id uint) (*models.Project, error) {
		return &models.Project{ID: id, UserID: 1, Visibility: models.ProjectVisibilityPublic}, nil
	}

	svc := NewProjectService(projects, noopProfileRepo())
	_, err := svc.ForkProject(context.Background(), 1, 10)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestForkHiddenProjectNotFound(t *testing.T) {
	projects := noopProjectRepo()
	projects.getByIDFn = func(_ context.Context, id uint) (*models.Project, error) {
		return &models.Project{ID: id, UserID: 2, Visibility: models.ProjectVisibilityPrivate}, nil
	}

	svc := NewProjectService(projects, noopProfileRepo())
	_, err := svc.ForkProject(context.Background(), 1, 10)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeNotFound {
		t.Fatalf("expected not-found for hidden project, got %v", err)
	}
}

func TestListUserProjectsFiltersByVisibility(t *testing.T) {
	projects := noopProjectRepo()
	projects.getByUserIDFn = func(context.Context, uint, int, int) ([]*models.Project, error) {
		return []*models.Project{
			{ID: 1, UserID: 2, Visibility: models.ProjectVisibilityPublic},
			{ID: 2, UserID: 2, Visibility: models.ProjectVisibilityPrivate},
			{ID: 3, UserID: 2, Visibility: models.ProjectVisibilityInternal},
		}, nil
	}

	svc := NewProjectService(projects, noopProfileRepo())

	list, err := svc.ListUserProjects(context.Background(), 1, 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected signed-in stranger to see public and internal, got %d", len(list))
	}

	list, err = svc.ListUserProjects(context.Background(), 2, 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected owner to see all 3, got %d", len(list))
	}
}
