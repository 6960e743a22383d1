package repository

import (
	"context"
	"errors"

	"creospace/internal/cache"
	"creospace/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Project, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error

	Star(ctx context.Context, userID, projectID uint) (bool, error)
	Unstar(ctx context.Context, userID, projectID uint) (bool, error)
	GetStarredProjectIDs(ctx context.Context, userID uint, projectIDs []uint) ([]uint, error)
	Fork(ctx context.Context, origin *models.Project, fork *models.Project) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	key := cache.ProjectKey(id)

	err := cache.Aside(ctx, key, &project, cache.ProjectTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Project", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Project, error) {
	var projects []*models.Project
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *projectRepository) ListPublic(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	var projects []*models.Project
	if err := readDB(r.db).WithContext(ctx).
		Where("visibility = ?", models.ProjectVisibilityPublic).
		Order("stars_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, project.ID)
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, id)
	return nil
}

// Star inserts the star row and bumps the counter atomically. Returns whether
// a new star was recorded.
func (r *projectRepository) Star(ctx context.Context, userID, projectID uint) (bool, error) {
	var inserted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO project_stars (user_id, project_id, created_at)
			 VALUES (?, ?, NOW())
			 ON CONFLICT (user_id, project_id) DO NOTHING`,
			userID, projectID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		inserted = true
		return tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			UpdateColumn("stars_count", gorm.Expr("stars_count + 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if inserted {
		cache.InvalidateProject(ctx, projectID)
	}
	return inserted, nil
}

func (r *projectRepository) Unstar(ctx context.Context, userID, projectID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND project_id = ?", userID, projectID).
			Delete(&models.ProjectStar{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			UpdateColumn("stars_count", gorm.Expr("GREATEST(stars_count - 1, 0)")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if removed {
		cache.InvalidateProject(ctx, projectID)
	}
	return removed, nil
}

func (r *projectRepository) GetStarredProjectIDs(ctx context.Context, userID uint, projectIDs []uint) ([]uint, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var starred []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.ProjectStar{}).
		Where("user_id = ? AND project_id IN ?", userID, projectIDs).
		Pluck("project_id", &starred).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return starred, nil
}

// Fork creates the copy and bumps the origin's fork counter atomically.
func (r *projectRepository) Fork(ctx context.Context, origin *models.Project, fork *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(fork).Error; err != nil {
			return err
		}
		return tx.Model(&models.Project{}).
			Where("id = ?", origin.ID).
			UpdateColumn("forks_count", gorm.Expr("forks_count + 1")).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, origin.ID)
	return nil
}
