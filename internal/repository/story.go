package repository

import (
	"context"
	"errors"
	"time"

	"creospace/internal/models"

	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	GetActiveByAuthors(ctx context.Context, authorIDs []uint, now time.Time) ([]*models.Story, error)
	GetActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]*models.Story, error)
	Delete(ctx context.Context, id uint) error
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := readDB(r.db).WithContext(ctx).First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Story", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &story, nil
}

// GetActiveByAuthors returns unexpired stories for a set of authors, newest
// first. Expiry is advisory: rows stay in the table, only reads filter them.
func (r *storyRepository) GetActiveByAuthors(ctx context.Context, authorIDs []uint, now time.Time) ([]*models.Story, error) {
	if len(authorIDs) == 0 {
		return []*models.Story{}, nil
	}
	var stories []*models.Story
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id IN ? AND expires_at > ?", authorIDs, now).
		Order("created_at DESC").
		Find(&stories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) GetActiveByUserID(ctx context.Context, userID uint, now time.Time) ([]*models.Story, error) {
	var stories []*models.Story
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&stories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Story{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
