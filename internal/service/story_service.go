package service

import (
	"context"
	"time"

	"creospace/internal/models"
	"creospace/internal/repository"
)

// StoryService provides story business logic. Expiry is advisory: stories are
// stamped with an expires_at at creation and read paths filter on it, but no
// reaper deletes the rows.
type StoryService struct {
	storyRepo   repository.StoryRepository
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewStoryService returns a new StoryService.
func NewStoryService(storyRepo repository.StoryRepository, followRepo repository.FollowRepository, profileRepo repository.ProfileRepository) *StoryService {
	return &StoryService{
		storyRepo:   storyRepo,
		followRepo:  followRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// CreateStory publishes a story that expires StoryTTL from now.
func (s *StoryService) CreateStory(ctx context.Context, userID uint, content, imageURL, videoURL string) (*models.Story, error) {
	if content == "" && imageURL == "" && videoURL == "" {
		return nil, models.NewValidationError("Story must have content or media")
	}

	story := &models.Story{
		UserID:    userID,
		Content:   content,
		ImageURL:  imageURL,
		VideoURL:  videoURL,
		ExpiresAt: s.now().Add(StoryTTL),
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// GetStoryShelf returns unexpired stories from the viewer and everyone they
// follow, grouped per author in the order returned by the repository.
func (s *StoryService) GetStoryShelf(ctx context.Context, viewerID uint) ([]*models.Story, error) {
	followingIDs, err := s.followRepo.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(followingIDs, viewerID)

	stories, err := s.storyRepo.GetActiveByAuthors(ctx, authorIDs, s.now())
	if err != nil {
		return nil, err
	}
	return s.hydrateStories(ctx, stories)
}

// GetUserStories returns a single author's unexpired stories, gated by the
// author's profile privacy.
func (s *StoryService) GetUserStories(ctx context.Context, viewerID, targetID uint) ([]*models.Story, error) {
	if viewerID != targetID {
		target, err := s.profileRepo.GetByUserID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if target.IsPrivate {
			edge, err := s.followRepo.GetEdge(ctx, viewerID, targetID)
			if err != nil {
				return nil, err
			}
			if edge == nil || edge.Status != models.FollowStatusAccepted {
				return []*models.Story{}, nil
			}
		}
	}

	stories, err := s.storyRepo.GetActiveByUserID(ctx, targetID, s.now())
	if err != nil {
		return nil, err
	}
	return s.hydrateStories(ctx, stories)
}

// DeleteStory removes the caller's own story before its natural expiry.
func (s *StoryService) DeleteStory(ctx context.Context, userID, storyID uint) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != userID {
		return models.NewForbiddenError("You can only delete your own stories")
	}
	return s.storyRepo.Delete(ctx, storyID)
}

func (s *StoryService) hydrateStories(ctx context.Context, stories []*models.Story) ([]*models.Story, error) {
	if len(stories) == 0 {
		return stories, nil
	}
	ids := make([]uint, 0, len(stories))
	for _, st := range stories {
		ids = append(ids, st.UserID)
	}
	summaries, err := s.profileRepo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, st := range stories {
		st.Author = summaries[st.UserID]
	}
	return stories, nil
}
