// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"creospace/internal/cache"
	"creospace/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	GetSummaries(ctx context.Context, userIDs []uint) (map[uint]*models.ProfileSummary, error)
	Update(ctx context.Context, profile *models.Profile) error
	Search(ctx context.Context, query string, limit, offset int) ([]models.Profile, error)
	AdjustFollowCounts(ctx context.Context, followerID, followingID uint, delta int) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Username already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(userID)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Profile", userID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	if err := readDB(r.db).WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

// GetSummaries loads profile summaries for a batch of user IDs. Services use
// this as the hydration half of the fetch-then-hydrate pattern; missing
// profiles are simply absent from the map.
func (r *profileRepository) GetSummaries(ctx context.Context, userIDs []uint) (map[uint]*models.ProfileSummary, error) {
	out := make(map[uint]*models.ProfileSummary, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	seen := make(map[uint]struct{}, len(userIDs))
	unique := make([]uint, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var profiles []models.Profile
	if err := readDB(r.db).WithContext(ctx).Where("user_id IN ?", unique).Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range profiles {
		summary := profiles[i].Summary()
		out[profiles[i].UserID] = &summary
	}
	return out, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Username already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}

func (r *profileRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	like := "%" + query + "%"
	if err := readDB(r.db).WithContext(ctx).
		Where("username ILIKE ? OR display_name ILIKE ? OR full_name ILIKE ?", like, like, like).
		Order("followers_count DESC, username ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// AdjustFollowCounts bumps the denormalized counters on both sides of an
// accepted follow edge. delta is +1 on accept and -1 on removal.
func (r *profileRepository) AdjustFollowCounts(ctx context.Context, followerID, followingID uint, delta int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Profile{}).
			Where("user_id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("GREATEST(following_count + ?, 0)", delta)).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("user_id = ?", followingID).
			UpdateColumn("followers_count", gorm.Expr("GREATEST(followers_count + ?, 0)", delta)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, followerID)
	cache.InvalidateProfile(ctx, followingID)
	return nil
}
