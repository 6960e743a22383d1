package service

import (
	"context"
	"testing"
	"time"

	"creospace/internal/models"
)

func TestGetProfilePrivateRestrictedForStrangers(t *testing.T) {
	dob := time.Date(2001, 6, 15, 0, 0, 0, 0, time.UTC)
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{
			UserID:         id,
			Username:       "hidden",
			Bio:            "secret bio",
			PhoneNumber:    "123456",
			NutechID:       "NT-99",
			DOB:            &dob,
			IsPrivate:      true,
			FollowersCount: 12,
		}, nil
	}

	svc := NewProfileService(profiles, noopFollowRepo())
	view, err := svc.GetProfile(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Restricted {
		t.Fatal("expected restricted view for a stranger")
	}
	p := view.Profile
	if p.Bio != "" || p.PhoneNumber != "" || p.NutechID != "" || p.DOB != nil {
		t.Fatalf("expected contact fields blanked, got %+v", p)
	}
	if p.FollowersCount != 12 {
		t.Fatal("expected counters to stay visible on restricted views")
	}
}

func TestGetProfilePrivateFullForAcceptedFollower(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, Bio: "secret bio", IsPrivate: true}, nil
	}
	follows := noopFollowRepo()
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{Status: models.FollowStatusAccepted}, nil
	}

	svc := NewProfileService(profiles, follows)
	view, err := svc.GetProfile(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Restricted || view.Profile.Bio != "secret bio" {
		t.Fatal("expected full profile for an accepted follower")
	}
	if view.Relationship != models.RelationshipFollowing {
		t.Fatalf("expected following relationship, got %s", view.Relationship)
	}
}

func TestGetProfilePendingFollowerStillRestricted(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, Bio: "secret bio", IsPrivate: true}, nil
	}
	follows := noopFollowRepo()
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{Status: models.FollowStatusPending}, nil
	}

	svc := NewProfileService(profiles, follows)
	view, err := svc.GetProfile(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Restricted {
		t.Fatal("expected pending follower to still get a restricted view")
	}
	if view.Relationship != models.RelationshipPending {
		t.Fatalf("expected pending relationship, got %s", view.Relationship)
	}
}

func TestGetProfileOwnAlwaysFull(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, Bio: "mine", IsPrivate: true}, nil
	}

	svc := NewProfileService(profiles, noopFollowRepo())
	view, err := svc.GetProfile(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Restricted || view.Profile.Bio != "mine" {
		t.Fatal("expected owners to always see their full profile")
	}
}

func TestUpdateProfileInvalidUsernameRejected(t *testing.T) {
	svc := NewProfileService(noopProfileRepo(), noopFollowRepo())
	if _, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:   1,
		Username: "No Spaces Allowed",
	}); err == nil {
		t.Fatal("expected error for invalid username")
	}
}

func TestUpdateProfilePrivacyToggle(t *testing.T) {
	profiles := noopProfileRepo()
	var saved *models.Profile
	profiles.updateFn = func(_ context.Context, p *models.Profile) error {
		saved = p
		return nil
	}

	svc := NewProfileService(profiles, noopFollowRepo())
	private := true
	if _, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:    1,
		IsPrivate: &private,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved.IsPrivate {
		t.Fatal("expected privacy flag persisted")
	}
}

func TestSearchProfilesEmptyQuery(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.searchFn = func(context.Context, string, int, int) ([]models.Profile, error) {
		t.Fatal("empty queries must not hit the repository")
		return nil, nil
	}

	svc := NewProfileService(profiles, noopFollowRepo())
	out, err := svc.SearchProfiles(context.Background(), "   ", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}
