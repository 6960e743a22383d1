package repository

import (
	"context"
	"errors"
	"time"

	"creospace/internal/cache"
	"creospace/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, includePrivate bool, limit, offset int) ([]*models.Post, error)
	ListPublic(ctx context.Context, sort string, limit, offset int) ([]*models.Post, error)
	SearchByHashtag(ctx context.Context, tag string, limit, offset int) ([]*models.Post, error)
	SearchByMention(ctx context.Context, username string, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error)
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	GetRecentLikesOnUserPosts(ctx context.Context, ownerID uint, since time.Time, limit int) ([]models.Like, error)

	React(ctx context.Context, userID, postID uint, rtype models.ReactionType) error
	Unreact(ctx context.Context, userID, postID uint) error
	GetReactions(ctx context.Context, postID uint) (map[models.ReactionType]int, error)

	AddBookmark(ctx context.Context, userID, postID uint) error
	RemoveBookmark(ctx context.Context, userID, postID uint) error
	GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateExploreFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := readDB(r.db).WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListByAuthors fetches posts authored by any of authorIDs, newest first.
// When includePrivate is false the coarse is_private flag filters out private
// posts at the database level; finer visibility rules stay in the service.
func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint, includePrivate bool, limit, offset int) ([]*models.Post, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, nil
	}
	q := readDB(r.db).WithContext(ctx).Where("user_id IN ?", authorIDs)
	if !includePrivate {
		q = q.Where("is_private = ?", false)
	}
	var posts []*models.Post
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListPublic returns fully public posts. sort "trending" ranks by like count
// with recency as tiebreaker; anything else is newest first.
func (r *postRepository) ListPublic(ctx context.Context, sort string, limit, offset int) ([]*models.Post, error) {
	order := "created_at DESC"
	if sort == "trending" {
		order = "likes_count DESC, created_at DESC"
	}
	var posts []*models.Post
	if err := readDB(r.db).WithContext(ctx).
		Where("is_private = ? AND visibility = ?", false, models.PostVisibilityPublic).
		Order(order).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) SearchByHashtag(ctx context.Context, tag string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := readDB(r.db).WithContext(ctx).
		Where("hashtags @> ?", `["`+tag+`"]`).
		Where("is_private = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) SearchByMention(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := readDB(r.db).WithContext(ctx).
		Where("mentions @> ?", `["`+username+`"]`).
		Where("is_private = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateExploreFeed(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var liked []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return liked, nil
}

// Like inserts the like row and bumps the denormalized counter in one
// transaction. ON CONFLICT DO NOTHING makes concurrent double-taps converge on
// a single row; the counter only moves when a row was actually inserted.
// Returns whether a new like was recorded.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	var inserted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO likes (user_id, post_id, created_at)
			 VALUES (?, ?, NOW())
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		inserted = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if inserted {
		cache.InvalidatePost(ctx, postID)
	}
	return inserted, nil
}

// Unlike removes the like row and decrements the counter, clamped at zero.
// Returns whether a like was actually removed.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if removed {
		cache.InvalidatePost(ctx, postID)
	}
	return removed, nil
}

func (r *postRepository) GetRecentLikesOnUserPosts(ctx context.Context, ownerID uint, since time.Time, limit int) ([]models.Like, error) {
	var likes []models.Like
	if err := readDB(r.db).WithContext(ctx).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.user_id = ? AND likes.user_id != ? AND likes.created_at > ?", ownerID, ownerID, since).
		Order("likes.created_at DESC").
		Limit(limit).
		Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

// React upserts the user's reaction; re-reacting replaces the stored type.
func (r *postRepository) React(ctx context.Context, userID, postID uint, rtype models.ReactionType) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO reactions (user_id, post_id, type, created_at, updated_at)
		 VALUES (?, ?, ?, NOW(), NOW())
		 ON CONFLICT (user_id, post_id) DO UPDATE SET type = EXCLUDED.type, updated_at = NOW()`,
		userID, postID, rtype,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unreact(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Reaction{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) GetReactions(ctx context.Context, postID uint) (map[models.ReactionType]int, error) {
	type row struct {
		Type  models.ReactionType
		Count int
	}
	var rows []row
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Reaction{}).
		Select("type, COUNT(*) as count").
		Where("post_id = ?", postID).
		Group("type").
		Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	out := make(map[models.ReactionType]int, len(rows))
	for _, r := range rows {
		out[r.Type] = r.Count
	}
	return out, nil
}

func (r *postRepository) AddBookmark(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO bookmarks (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) RemoveBookmark(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := readDB(r.db).WithContext(ctx).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
