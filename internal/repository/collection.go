package repository

import (
	"context"
	"errors"

	"creospace/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository defines the interface for collection data operations
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	ListForUser(ctx context.Context, userID uint) ([]*models.Collection, error)
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
	AddItem(ctx context.Context, collectionID, postID uint) error
	RemoveItem(ctx context.Context, collectionID, postID uint) error
	ListItemPostIDs(ctx context.Context, collectionID uint, limit, offset int) ([]uint, error)
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	if err := r.db.WithContext(ctx).Create(collection).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := readDB(r.db).WithContext(ctx).First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Collection", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &collection, nil
}

func (r *collectionRepository) ListForUser(ctx context.Context, userID uint) ([]*models.Collection, error) {
	var collections []*models.Collection
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&collections).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return collections, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	if err := r.db.WithContext(ctx).Save(collection).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Collection{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AddItem is idempotent: saving the same post twice converges on one row.
func (r *collectionRepository) AddItem(ctx context.Context, collectionID, postID uint) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO collection_items (collection_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (collection_id, post_id) DO NOTHING`,
		collectionID, postID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) RemoveItem(ctx context.Context, collectionID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("collection_id = ? AND post_id = ?", collectionID, postID).
		Delete(&models.CollectionItem{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) ListItemPostIDs(ctx context.Context, collectionID uint, limit, offset int) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.CollectionItem{}).
		Where("collection_id = ?", collectionID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
