package service

import (
	"context"
	"time"

	"creospace/internal/models"
	"creospace/internal/repository"
	"creospace/internal/validation"
)

// PostService provides post business logic. Visibility is enforced in two
// layers: the author's profile privacy gates first, then the post's own
// visibility level.
type PostService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
}

// CreatePostInput carries a new post request.
type CreatePostInput struct {
	UserID     uint
	Content    string
	ImageURL   string
	VideoURL   string
	MediaURLs  []string
	Visibility models.PostVisibility
}

// UpdatePostInput carries a post edit; empty fields are left unchanged.
type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Content    string
	Visibility models.PostVisibility
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, profileRepo repository.ProfileRepository, followRepo repository.FollowRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		followRepo:  followRepo,
	}
}

const maxPostContentLen = 5000

// CreatePost stores a new post. Hashtags and mentions are extracted from the
// content once, here; readers never re-parse.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Content == "" && in.ImageURL == "" && in.VideoURL == "" && len(in.MediaURLs) == 0 {
		return nil, models.NewValidationError("Post must have content or media")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Post content too long (max 5000 characters)")
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.PostVisibilityPublic
	}
	switch visibility {
	case models.PostVisibilityPublic, models.PostVisibilityPrivate, models.PostVisibilityFollowers:
	default:
		return nil, models.NewValidationError("Invalid post visibility")
	}

	post := &models.Post{
		UserID:     in.UserID,
		Content:    in.Content,
		ImageURL:   in.ImageURL,
		VideoURL:   in.VideoURL,
		MediaURLs:  in.MediaURLs,
		Visibility: visibility,
		IsPrivate:  visibility == models.PostVisibilityPrivate,
		Hashtags:   validation.ExtractHashtags(in.Content),
		Mentions:   validation.ExtractMentions(in.Content),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a single post if the viewer may see it. Denied reads come
// back as not-found so existence leaks nothing.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.canViewPost(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err := s.HydratePosts(ctx, viewerID, []*models.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost edits content or visibility. The pre-edit state is appended to
// the post's edit history before the new values land; history only grows.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if in.Content == "" && in.Visibility == "" {
		return nil, models.NewValidationError("Nothing to update")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Post content too long (max 5000 characters)")
	}

	now := time.Now()
	post.EditHistory = append(post.EditHistory, models.PostEdit{
		Content:    post.Content,
		Visibility: post.Visibility,
		EditedAt:   now,
	})

	if in.Content != "" {
		post.Content = in.Content
		post.Hashtags = validation.ExtractHashtags(in.Content)
		post.Mentions = validation.ExtractMentions(in.Content)
	}
	if in.Visibility != "" {
		switch in.Visibility {
		case models.PostVisibilityPublic, models.PostVisibilityPrivate, models.PostVisibilityFollowers:
		default:
			return nil, models.NewValidationError("Invalid post visibility")
		}
		post.Visibility = in.Visibility
		post.IsPrivate = in.Visibility == models.PostVisibilityPrivate
	}
	post.EditedAt = &now

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost soft-deletes the caller's own post.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// GetUserPosts lists a profile's posts under both privacy layers: a private
// profile hides everything from strangers, then post-level visibility filters
// what remains.
func (s *PostService) GetUserPosts(ctx context.Context, viewerID, targetID uint, limit, offset int) ([]*models.Post, error) {
	relationship, err := s.relationshipTo(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}

	if viewerID != targetID {
		target, err := s.profileRepo.GetByUserID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if target.IsPrivate && relationship != models.RelationshipFollowing {
			return []*models.Post{}, nil
		}
	}

	posts, err := s.postRepo.GetByUserID(ctx, targetID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}

	visible := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if s.postVisible(viewerID, relationship, p) {
			visible = append(visible, p)
		}
	}
	if err := s.HydratePosts(ctx, viewerID, visible); err != nil {
		return nil, err
	}
	return visible, nil
}

// ToggleLike flips the viewer's like on a post and reports the new state.
func (s *PostService) ToggleLike(ctx context.Context, viewerID, postID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	allowed, err := s.canViewPost(ctx, viewerID, post)
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, models.NewNotFoundError("Post", postID)
	}

	liked, err := s.postRepo.IsLiked(ctx, viewerID, postID)
	if err != nil {
		return false, err
	}
	if liked {
		if _, err := s.postRepo.Unlike(ctx, viewerID, postID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.postRepo.Like(ctx, viewerID, postID); err != nil {
		return false, err
	}
	return true, nil
}

// React sets or replaces the viewer's typed reaction on a post.
func (s *PostService) React(ctx context.Context, viewerID, postID uint, rtype models.ReactionType) error {
	if !models.ValidReactionType(rtype) {
		return models.NewValidationError("Invalid reaction type")
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	allowed, err := s.canViewPost(ctx, viewerID, post)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewNotFoundError("Post", postID)
	}
	return s.postRepo.React(ctx, viewerID, postID, rtype)
}

// Unreact removes the viewer's reaction if one exists.
func (s *PostService) Unreact(ctx context.Context, viewerID, postID uint) error {
	return s.postRepo.Unreact(ctx, viewerID, postID)
}

// GetReactions returns the per-type reaction counts for a post.
func (s *PostService) GetReactions(ctx context.Context, viewerID, postID uint) (map[models.ReactionType]int, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.canViewPost(ctx, viewerID, post)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.postRepo.GetReactions(ctx, postID)
}

// Bookmark saves a post for the viewer.
func (s *PostService) Bookmark(ctx context.Context, viewerID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	allowed, err := s.canViewPost(ctx, viewerID, post)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewNotFoundError("Post", postID)
	}
	return s.postRepo.AddBookmark(ctx, viewerID, postID)
}

// Unbookmark removes a saved post. Removing a post that was never saved is a
// no-op.
func (s *PostService) Unbookmark(ctx context.Context, viewerID, postID uint) error {
	return s.postRepo.RemoveBookmark(ctx, viewerID, postID)
}

// GetBookmarks lists the viewer's saved posts.
func (s *PostService) GetBookmarks(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.GetBookmarkedPosts(ctx, viewerID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	if err := s.HydratePosts(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// HydratePosts attaches author summaries and the viewer's liked flags to a
// batch of posts with two queries total.
func (s *PostService) HydratePosts(ctx context.Context, viewerID uint, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	authorIDs := make([]uint, 0, len(posts))
	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.UserID)
		postIDs = append(postIDs, p.ID)
	}

	summaries, err := s.profileRepo.GetSummaries(ctx, authorIDs)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.Author = summaries[p.UserID]
	}

	if viewerID == 0 {
		return nil
	}
	likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return err
	}
	likedSet := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = struct{}{}
	}
	for _, p := range posts {
		_, p.Liked = likedSet[p.ID]
	}
	return nil
}

// canViewPost applies the profile-level gate, then the post-level one.
func (s *PostService) canViewPost(ctx context.Context, viewerID uint, post *models.Post) (bool, error) {
	if viewerID == post.UserID {
		return true, nil
	}

	relationship, err := s.relationshipTo(ctx, viewerID, post.UserID)
	if err != nil {
		return false, err
	}

	author, err := s.profileRepo.GetByUserID(ctx, post.UserID)
	if err != nil {
		return false, err
	}
	if author.IsPrivate && relationship != models.RelationshipFollowing {
		return false, nil
	}

	return s.postVisible(viewerID, relationship, post), nil
}

func (s *PostService) postVisible(viewerID uint, relationship models.Relationship, post *models.Post) bool {
	if viewerID == post.UserID {
		return true
	}
	switch post.Visibility {
	case models.PostVisibilityPrivate:
		return false
	case models.PostVisibilityFollowers:
		return relationship == models.RelationshipFollowing
	default:
		return true
	}
}

func (s *PostService) relationshipTo(ctx context.Context, viewerID, targetID uint) (models.Relationship, error) {
	if viewerID == targetID {
		return models.RelationshipFollowing, nil
	}
	if viewerID == 0 {
		return models.RelationshipNone, nil
	}
	edge, err := s.followRepo.GetEdge(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if edge == nil {
		return models.RelationshipNone, nil
	}
	if edge.Status == models.FollowStatusPending {
		return models.RelationshipPending, nil
	}
	return models.RelationshipFollowing, nil
}
