package service

import (
	"context"
	"errors"
	"testing"

	"creospace/internal/models"
)

func TestFollowUserSelfRejected(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopProfileRepo())

	_, err := svc.FollowUser(context.Background(), 1, 1)
	if err == nil {
		t.Fatal("expected error when following yourself")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFollowUserPublicTargetAcceptedImmediately(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, Username: "open", IsPrivate: false}, nil
	}
	var countsDelta int
	profiles.adjustFollowCountsFn = func(_ context.Context, _, _ uint, delta int) error {
		countsDelta += delta
		return nil
	}

	follows := noopFollowRepo()
	var created *models.Follow
	follows.createFn = func(_ context.Context, f *models.Follow) error {
		created = f
		return nil
	}

	svc := NewFollowService(follows, profiles)
	edge, err := svc.FollowUser(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge.Status != models.FollowStatusAccepted {
		t.Fatalf("expected accepted edge, got %s", edge.Status)
	}
	if created == nil || created.Status != models.FollowStatusAccepted {
		t.Fatal("expected edge persisted as accepted")
	}
	if countsDelta != 1 {
		t.Fatalf("expected counters bumped once, got %d", countsDelta)
	}
}

func TestFollowUserPrivateTargetPending(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, Username: "hidden", IsPrivate: true}, nil
	}
	profiles.adjustFollowCountsFn = func(context.Context, uint, uint, int) error {
		t.Fatal("counters must not move for a pending request")
		return nil
	}

	svc := NewFollowService(noopFollowRepo(), profiles)
	edge, err := svc.FollowUser(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge.Status != models.FollowStatusPending {
		t.Fatalf("expected pending edge, got %s", edge.Status)
	}
}

func TestFollowUserDuplicateRejected(t *testing.T) {
	follows := noopFollowRepo()
	follows.getEdgeFn = func(_ context.Context, followerID, followingID uint) (*models.Follow, error) {
		return &models.Follow{ID: 7, FollowerID: followerID, FollowingID: followingID, Status: models.FollowStatusAccepted}, nil
	}

	svc := NewFollowService(follows, noopProfileRepo())
	_, err := svc.FollowUser(context.Background(), 1, 2)
	if err == nil {
		t.Fatal("expected error for duplicate follow")
	}
}

func TestAcceptFollowRequest(t *testing.T) {
	follows := noopFollowRepo()
	follows.getEdgeFn = func(_ context.Context, followerID, followingID uint) (*models.Follow, error) {
		return &models.Follow{ID: 9, FollowerID: followerID, FollowingID: followingID, Status: models.FollowStatusPending}, nil
	}
	var updatedTo models.FollowStatus
	follows.updateStatusFn = func(_ context.Context, id uint, status models.FollowStatus) error {
		if id != 9 {
			t.Fatalf("expected edge 9 updated, got %d", id)
		}
		updatedTo = status
		return nil
	}

	profiles := noopProfileRepo()
	var countsDelta int
	profiles.adjustFollowCountsFn = func(_ context.Context, followerID, followingID uint, delta int) error {
		if followerID != 5 || followingID != 2 {
			t.Fatalf("counters bumped for wrong pair: %d -> %d", followerID, followingID)
		}
		countsDelta += delta
		return nil
	}

	svc := NewFollowService(follows, profiles)
	edge, err := svc.AcceptFollowRequest(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedTo != models.FollowStatusAccepted || edge.Status != models.FollowStatusAccepted {
		t.Fatal("expected edge transitioned to accepted")
	}
	if countsDelta != 1 {
		t.Fatalf("expected counters bumped once, got %d", countsDelta)
	}
}

func TestAcceptFollowRequestNotPending(t *testing.T) {
	follows := noopFollowRepo()
	follows.getEdgeFn = func(_ context.Context, followerID, followingID uint) (*models.Follow, error) {
		return &models.Follow{ID: 9, Status: models.FollowStatusAccepted}, nil
	}

	svc := NewFollowService(follows, noopProfileRepo())
	if _, err := svc.AcceptFollowRequest(context.Background(), 2, 5); err == nil {
		t.Fatal("expected error accepting a non-pending edge")
	}
}

func TestRejectFollowRequestDeletesEdge(t *testing.T) {
	follows := noopFollowRepo()
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{ID: 4, Status: models.FollowStatusPending}, nil
	}
	deleted := false
	follows.deleteFn = func(_ context.Context, id uint) error {
		if id != 4 {
			t.Fatalf("expected edge 4 deleted, got %d", id)
		}
		deleted = true
		return nil
	}

	svc := NewFollowService(follows, noopProfileRepo())
	if err := svc.RejectFollowRequest(context.Background(), 2, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Fatal("expected pending edge deleted on reject")
	}
}

func TestUnfollowUserIdempotent(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopProfileRepo())

	// No edge exists; unfollow must still succeed.
	if err := svc.UnfollowUser(context.Background(), 1, 2); err != nil {
		t.Fatalf("expected idempotent unfollow, got %v", err)
	}
}

func TestUnfollowUserAcceptedEdgeDecrementsCounters(t *testing.T) {
	follows := noopFollowRepo()
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{ID: 3, Status: models.FollowStatusAccepted}, nil
	}

	profiles := noopProfileRepo()
	var countsDelta int
	profiles.adjustFollowCountsFn = func(_ context.Context, _, _ uint, delta int) error {
		countsDelta += delta
		return nil
	}

	svc := NewFollowService(follows, profiles)
	if err := svc.UnfollowUser(context.Background(), 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countsDelta != -1 {
		t.Fatalf("expected counters decremented once, got %d", countsDelta)
	}
}

func TestUnfollowUserPendingEdgeSkipsCounters(t *testing.T) {
	follows := noopFollowRepo()
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{ID: 3, Status: models.FollowStatusPending}, nil
	}

	profiles := noopProfileRepo()
	profiles.adjustFollowCountsFn = func(context.Context, uint, uint, int) error {
		t.Fatal("counters must not move when cancelling a pending request")
		return nil
	}

	svc := NewFollowService(follows, profiles)
	if err := svc.UnfollowUser(context.Background(), 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetFollowStatus(t *testing.T) {
	follows := noopFollowRepo()
	svc := NewFollowService(follows, noopProfileRepo())

	status, err := svc.GetFollowStatus(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.RelationshipNone {
		t.Fatalf("expected %s, got %s", models.RelationshipNone, status)
	}

	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{Status: models.FollowStatusPending}, nil
	}
	status, _ = svc.GetFollowStatus(context.Background(), 1, 2)
	if status != models.RelationshipPending {
		t.Fatalf("expected %s, got %s", models.RelationshipPending, status)
	}

	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{Status: models.FollowStatusAccepted}, nil
	}
	status, _ = svc.GetFollowStatus(context.Background(), 1, 2)
	if status != models.RelationshipFollowing {
		t.Fatalf("expected %s, got %s", models.RelationshipFollowing, status)
	}
}

func TestGetFollowersPrivateProfileHiddenFromStrangers(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, IsPrivate: true}, nil
	}

	follows := noopFollowRepo()
	follows.getFollowersFn = func(context.Context, uint, int, int) ([]models.Follow, error) {
		t.Fatal("follower list must not be fetched for a gated viewer")
		return nil, nil
	}

	svc := NewFollowService(follows, profiles)
	list, err := svc.GetFollowers(context.Background(), 1, 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list for gated viewer, got %d entries", len(list))
	}
}

func TestGetFollowersHydratesCounterparts(t *testing.T) {
	follows := noopFollowRepo()
	follows.getFollowersFn = func(context.Context, uint, int, int) ([]models.Follow, error) {
		return []models.Follow{
			{ID: 1, FollowerID: 7, FollowingID: 2, Status: models.FollowStatusAccepted},
			{ID: 2, FollowerID: 8, FollowingID: 2, Status: models.FollowStatusAccepted},
		}, nil
	}

	svc := NewFollowService(follows, noopProfileRepo())
	list, err := svc.GetFollowers(context.Background(), 2, 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(list))
	}
	for _, f := range list {
		if f.Counterpart == nil || f.Counterpart.UserID != f.FollowerID {
			t.Fatalf("expected hydrated counterpart for follower %d", f.FollowerID)
		}
	}
}
