package service

import (
	"context"
	"testing"
	"time"

	"creospace/internal/models"
)

func TestCreateStoryStampsExpiry(t *testing.T) {
	stories := noopStoryRepo()
	var created *models.Story
	stories.createFn = func(_ context.Context, st *models.Story) error {
		created = st
		return nil
	}

	svc := NewStoryService(stories, noopFollowRepo(), noopProfileRepo())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.CreateStory(context.Background(), 1, "day one", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created.ExpiresAt.Equal(fixed.Add(StoryTTL)) {
		t.Fatalf("expected expiry 24h after creation, got %v", created.ExpiresAt)
	}
}

func TestCreateStoryEmptyRejected(t *testing.T) {
	svc := NewStoryService(noopStoryRepo(), noopFollowRepo(), noopProfileRepo())
	if _, err := svc.CreateStory(context.Background(), 1, "", "", ""); err == nil {
		t.Fatal("expected error for empty story")
	}
}

func TestGetStoryShelfIncludesSelfAndFollowed(t *testing.T) {
	follows := noopFollowRepo()
	follows.listFollowingIDsFn = func(context.Context, uint) ([]uint, error) { return []uint{5, 6}, nil }

	stories := noopStoryRepo()
	var queried []uint
	stories.getActiveByAuthorsFn = func(_ context.Context, authorIDs []uint, _ time.Time) ([]*models.Story, error) {
		queried = authorIDs
		return []*models.Story{{ID: 1, UserID: 5}}, nil
	}

	svc := NewStoryService(stories, follows, noopProfileRepo())
	shelf, err := svc.GetStoryShelf(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queried) != 3 || queried[2] != 1 {
		t.Fatalf("expected author set of followed plus self, got %v", queried)
	}
	if len(shelf) != 1 || shelf[0].Author == nil {
		t.Fatal("expected hydrated shelf entries")
	}
}

func TestGetStoryShelfFiltersOnCurrentTime(t *testing.T) {
	stories := noopStoryRepo()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stories.getActiveByAuthorsFn = func(_ context.Context, _ []uint, now time.Time) ([]*models.Story, error) {
		if !now.Equal(fixed) {
			t.Fatalf("expected repository queried at the injected time, got %v", now)
		}
		return nil, nil
	}

	svc := NewStoryService(stories, noopFollowRepo(), noopProfileRepo())
	svc.now = func() time.Time { return fixed }
	if _, err := svc.GetStoryShelf(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetUserStoriesPrivateProfileGated(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, IsPrivate: true}, nil
	}

	stories := noopStoryRepo()
	stories.getActiveByUserIDFn = func(context.Context, uint, time.Time) ([]*models.Story, error) {
		t.Fatal("stories must not be fetched for a gated viewer")
		return nil, nil
	}

	svc := NewStoryService(stories, noopFollowRepo(), profiles)
	list, err := svc.GetUserStories(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list for stranger, got %d", len(list))
	}
}

func TestGetUserStoriesFollowerAllowed(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, IsPrivate: true}, nil
	}
	follows := noopFollowRepo()
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{Status: models.FollowStatusAccepted}, nil
	}
	stories := noopStoryRepo()
	stories.getActiveByUserIDFn = func(context.Context, uint, time.Time) ([]*models.Story, error) {
		return []*models.Story{{ID: 1, UserID: 2}}, nil
	}

	svc := NewStoryService(stories, follows, profiles)
	list, err := svc.GetUserStories(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected follower to see stories, got %d", len(list))
	}
}

func TestDeleteStoryNotOwnerForbidden(t *testing.T) {
	stories := noopStoryRepo()
	stories.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
		return &models.Story{ID: id, UserID: 2}, nil
	}

	svc := NewStoryService(stories, noopFollowRepo(), noopProfileRepo())
	if err := svc.DeleteStory(context.Background(), 1, 5); err == nil {
		t.Fatal("expected error deleting someone else's story")
	}
}
