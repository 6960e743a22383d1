package repository

import (
	"context"
	"errors"
	"time"

	"creospace/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow edge data operations
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	GetEdge(ctx context.Context, followerID, followingID uint) (*models.Follow, error)
	UpdateStatus(ctx context.Context, id uint, status models.FollowStatus) error
	Delete(ctx context.Context, id uint) error
	GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error)
	GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error)
	GetSentRequests(ctx context.Context, userID uint) ([]models.Follow, error)
	ListFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	ListAcceptedFollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	GetRecentFollowers(ctx context.Context, userID uint, since time.Time, limit int) ([]models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Follow request already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetEdge returns the directed edge follower->following, or nil when no edge
// exists. Direction matters: A following B says nothing about B following A.
func (r *followRepository) GetEdge(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	var follow models.Follow
	if err := readDB(r.db).WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

func (r *followRepository) UpdateStatus(ctx context.Context, id uint, status models.FollowStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete hard-deletes the edge. Rejection, cancellation and unfollow all
// terminate in the same no-edge state.
func (r *followRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Follow{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	var follows []models.Follow
	if err := readDB(r.db).WithContext(ctx).
		Where("following_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.Follow, error) {
	var follows []models.Follow
	if err := readDB(r.db).WithContext(ctx).
		Where("follower_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := readDB(r.db).WithContext(ctx).
		Where("following_id = ? AND status = ?", userID, models.FollowStatusPending).
		Order("created_at DESC").
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) GetSentRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := readDB(r.db).WithContext(ctx).
		Where("follower_id = ? AND status = ?", userID, models.FollowStatusPending).
		Order("created_at DESC").
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

// ListFollowingIDs returns the IDs of every user the given user follows with
// an accepted edge. Feed composition uses this as its author set.
func (r *followRepository) ListFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) ListAcceptedFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) GetRecentFollowers(ctx context.Context, userID uint, since time.Time, limit int) ([]models.Follow, error) {
	var follows []models.Follow
	if err := readDB(r.db).WithContext(ctx).
		Where("following_id = ? AND status = ? AND created_at > ?", userID, models.FollowStatusAccepted, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}
