package service

import (
	"context"

	"creospace/internal/models"
	"creospace/internal/repository"
)

// CollectionService provides saved-post collection business logic.
// Collections are strictly owner-scoped unless marked public.
type CollectionService struct {
	collectionRepo repository.CollectionRepository
	posts          *PostService
}

// NewCollectionService returns a new CollectionService.
func NewCollectionService(collectionRepo repository.CollectionRepository, posts *PostService) *CollectionService {
	return &CollectionService{collectionRepo: collectionRepo, posts: posts}
}

// CreateCollection creates a named collection for the user.
func (s *CollectionService) CreateCollection(ctx context.Context, userID uint, name, description string, isPrivate bool) (*models.Collection, error) {
	if name == "" {
		return nil, models.NewValidationError("Collection name is required")
	}
	collection := &models.Collection{
		UserID:      userID,
		Name:        name,
		Description: description,
		IsPrivate:   isPrivate,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// ListCollections returns the caller's collections.
func (s *CollectionService) ListCollections(ctx context.Context, userID uint) ([]*models.Collection, error) {
	return s.collectionRepo.ListForUser(ctx, userID)
}

// UpdateCollection renames or re-describes the caller's collection.
func (s *CollectionService) UpdateCollection(ctx context.Context, userID, collectionID uint, name, description string, isPrivate *bool) (*models.Collection, error) {
	collection, err := s.ownedCollection(ctx, userID, collectionID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		collection.Name = name
	}
	if description != "" {
		collection.Description = description
	}
	if isPrivate != nil {
		collection.IsPrivate = *isPrivate
	}
	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// DeleteCollection removes the caller's collection and its items.
func (s *CollectionService) DeleteCollection(ctx context.Context, userID, collectionID uint) error {
	if _, err := s.ownedCollection(ctx, userID, collectionID); err != nil {
		return err
	}
	return s.collectionRepo.Delete(ctx, collectionID)
}

// SavePost adds a visible post to the caller's collection. Saving the same
// post twice is a no-op.
func (s *CollectionService) SavePost(ctx context.Context, userID, collectionID, postID uint) error {
	if _, err := s.ownedCollection(ctx, userID, collectionID); err != nil {
		return err
	}
	if _, err := s.posts.GetPost(ctx, userID, postID); err != nil {
		return err
	}
	return s.collectionRepo.AddItem(ctx, collectionID, postID)
}

// UnsavePost removes a post from the caller's collection.
func (s *CollectionService) UnsavePost(ctx context.Context, userID, collectionID, postID uint) error {
	if _, err := s.ownedCollection(ctx, userID, collectionID); err != nil {
		return err
	}
	return s.collectionRepo.RemoveItem(ctx, collectionID, postID)
}

// GetCollectionPosts lists the posts saved in a collection. Private
// collections are owner-only; public ones are open, but each post is still
// re-checked against the viewer's visibility.
func (s *CollectionService) GetCollectionPosts(ctx context.Context, viewerID, collectionID uint, limit, offset int) ([]*models.Post, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.IsPrivate && collection.UserID != viewerID {
		return nil, models.NewNotFoundError("Collection", collectionID)
	}

	postIDs, err := s.collectionRepo.ListItemPostIDs(ctx, collectionID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(postIDs))
	for _, id := range postIDs {
		post, err := s.posts.GetPost(ctx, viewerID, id)
		if err != nil {
			if appErr, ok := models.AsAppError(err); ok && appErr.Code == models.ErrCodeNotFound {
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *CollectionService) ownedCollection(ctx context.Context, userID, collectionID uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if collection.UserID != userID {
		return nil, models.NewNotFoundError("Collection", collectionID)
	}
	return collection, nil
}
