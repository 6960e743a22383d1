package service

import (
	"context"

	"creospace/internal/models"
	"creospace/internal/repository"
)

// CommentService provides comment business logic. Threads are one level deep:
// a reply's parent must itself be a root comment.
type CommentService struct {
	commentRepo repository.CommentRepository
	profileRepo repository.ProfileRepository
	posts       *PostService
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, profileRepo repository.ProfileRepository, posts *PostService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		profileRepo: profileRepo,
		posts:       posts,
	}
}

const maxCommentLen = 1000

// CreateComment adds a comment or a one-level reply to a visible post.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint, content string, parentID *uint) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	if _, err := s.posts.GetPost(ctx, userID, postID); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if parent.ParentID != nil {
			// Replying to a reply flattens onto the root comment.
			parentID = parent.ParentID
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	summaries, err := s.profileRepo.GetSummaries(ctx, []uint{userID})
	if err != nil {
		return nil, err
	}
	comment.Author = summaries[userID]
	return comment, nil
}

// GetComments returns a post's comments as a one-level tree: root comments in
// creation order, each carrying its replies.
func (s *CommentService) GetComments(ctx context.Context, viewerID, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.posts.GetPost(ctx, viewerID, postID); err != nil {
		return nil, err
	}

	flat, err := s.commentRepo.GetByPostID(ctx, postID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(flat))
	for _, c := range flat {
		userIDs = append(userIDs, c.UserID)
	}
	summaries, err := s.profileRepo.GetSummaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Comment, len(flat))
	roots := make([]*models.Comment, 0, len(flat))
	for _, c := range flat {
		c.Author = summaries[c.UserID]
		byID[c.ID] = c
		if c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		} else {
			// Parent fell outside the page; surface the reply at top level
			// rather than dropping it.
			roots = append(roots, c)
		}
	}
	return roots, nil
}

// UpdateComment edits the caller's own comment.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment. The comment's author and the post's owner
// may both delete it.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		post, err := s.posts.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}
	return s.commentRepo.Delete(ctx, commentID, comment.PostID)
}
