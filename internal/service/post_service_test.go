package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"creospace/internal/models"
)

func newPostService(posts *postRepoStub, profiles *profileRepoStub, follows *followRepoStub) *PostService {
	if posts == nil {
		posts = noopPostRepo()
	}
	if profiles == nil {
		profiles = noopProfileRepo()
	}
	if follows == nil {
		follows = noopFollowRepo()
	}
	return NewPostService(posts, profiles, follows)
}

func TestCreatePostExtractsHashtagsAndMentions(t *testing.T) {
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}

	svc := newPostService(posts, nil, nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Content: "Shipping #GoLang work with @alice and more #golang soon",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(created.Hashtags, []string{"golang"}) {
		t.Fatalf("expected deduplicated lowercase hashtags, got %v", created.Hashtags)
	}
	if !reflect.DeepEqual(created.Mentions, []string{"alice"}) {
		t.Fatalf("expected mentions [alice], got %v", created.Mentions)
	}
	if created.Visibility != models.PostVisibilityPublic {
		t.Fatalf("expected default public visibility, got %s", created.Visibility)
	}
}

func TestCreatePostEmptyRejected(t *testing.T) {
	svc := newPostService(nil, nil, nil)
	if _, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1}); err == nil {
		t.Fatal("expected error for empty post")
	}
}

func TestCreatePostPrivateSetsCoarseFlag(t *testing.T) {
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}

	svc := newPostService(posts, nil, nil)
	if _, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:     1,
		Content:    "just for me",
		Visibility: models.PostVisibilityPrivate,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created.IsPrivate {
		t.Fatal("expected is_private mirror set for private visibility")
	}
}

func TestUpdatePostAppendsEditHistory(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 1, Content: "original #one", Visibility: models.PostVisibilityPublic}, nil
	}
	var saved *models.Post
	posts.updateFn = func(_ context.Context, p *models.Post) error {
		saved = p
		return nil
	}

	svc := newPostService(posts, nil, nil)
	updated, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID:  1,
		PostID:  10,
		Content: "rewritten #two",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.EditHistory) != 1 {
		t.Fatalf("expected one history entry, got %d", len(updated.EditHistory))
	}
	entry := updated.EditHistory[0]
	if entry.Content != "original #one" || entry.Visibility != models.PostVisibilityPublic {
		t.Fatalf("expected pre-edit snapshot in history, got %+v", entry)
	}
	if updated.EditedAt == nil {
		t.Fatal("expected edited_at set")
	}
	if !reflect.DeepEqual(saved.Hashtags, []string{"two"}) {
		t.Fatalf("expected hashtags re-extracted, got %v", saved.Hashtags)
	}
}

func TestUpdatePostNotOwnerForbidden(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2}, nil
	}

	svc := newPostService(posts, nil, nil)
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 10, Content: "hijack"})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestGetPostPrivateHiddenFromOthers(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2, Visibility: models.PostVisibilityPrivate, IsPrivate: true}, nil
	}

	svc := newPostService(posts, nil, nil)

	// Owner sees it.
	if _, err := svc.GetPost(context.Background(), 2, 10); err != nil {
		t.Fatalf("owner should see own private post: %v", err)
	}

	// Anyone else gets not-found.
	_, err := svc.GetPost(context.Background(), 1, 10)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.ErrCodeNotFound {
		t.Fatalf("expected not-found for private post, got %v", err)
	}
}

func TestGetPostFollowersOnlyVisibility(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2, Visibility: models.PostVisibilityFollowers}, nil
	}

	follows := noopFollowRepo()
	svc := newPostService(posts, nil, follows)

	// Stranger is denied.
	if _, err := svc.GetPost(context.Background(), 1, 10); err == nil {
		t.Fatal("expected stranger denied for followers-only post")
	}

	// Accepted follower is allowed.
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{Status: models.FollowStatusAccepted}, nil
	}
	if _, err := svc.GetPost(context.Background(), 1, 10); err != nil {
		t.Fatalf("expected follower allowed, got %v", err)
	}

	// Pending follower is still denied.
	follows.getEdgeFn = func(context.Context, uint, uint) (*models.Follow, error) {
		return &models.Follow{Status: models.FollowStatusPending}, nil
	}
	if _, err := svc.GetPost(context.Background(), 1, 10); err == nil {
		t.Fatal("expected pending follower denied for followers-only post")
	}
}

func TestGetPostPrivateAuthorProfileGatesFirst(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2, Visibility: models.PostVisibilityPublic}, nil
	}
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, IsPrivate: true}, nil
	}

	svc := newPostService(posts, profiles, nil)
	if _, err := svc.GetPost(context.Background(), 1, 10); err == nil {
		t.Fatal("expected public post of a private profile hidden from strangers")
	}
}

func TestGetUserPostsPrivateProfileEmptyForStrangers(t *testing.T) {
	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{UserID: id, IsPrivate: true}, nil
	}
	posts := noopPostRepo()
	posts.getByUserIDFn = func(context.Context, uint, int, int) ([]*models.Post, error) {
		t.Fatal("posts must not be fetched for a gated viewer")
		return nil, nil
	}

	svc := newPostService(posts, profiles, nil)
	list, err := svc.GetUserPosts(context.Background(), 1, 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d posts", len(list))
	}
}

func TestGetUserPostsFiltersByVisibility(t *testing.T) {
	posts := noopPostRepo()
	posts.getByUserIDFn = func(context.Context, uint, int, int) ([]*models.Post, error) {
		return []*models.Post{
			{ID: 1, UserID: 2, Visibility: models.PostVisibilityPublic},
			{ID: 2, UserID: 2, Visibility: models.PostVisibilityPrivate, IsPrivate: true},
			{ID: 3, UserID: 2, Visibility: models.PostVisibilityFollowers},
		}, nil
	}

	svc := newPostService(posts, nil, nil)
	list, err := svc.GetUserPosts(context.Background(), 1, 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != 1 {
		t.Fatalf("expected only the public post for a stranger, got %d posts", len(list))
	}

	// The owner sees everything.
	list, err = svc.GetUserPosts(context.Background(), 2, 2, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected owner to see all 3 posts, got %d", len(list))
	}
}

func TestToggleLike(t *testing.T) {
	posts := noopPostRepo()
	liked := false
	posts.isLikedFn = func(context.Context, uint, uint) (bool, error) { return liked, nil }
	posts.likeFn = func(context.Context, uint, uint) (bool, error) {
		liked = true
		return true, nil
	}
	posts.unlikeFn = func(context.Context, uint, uint) (bool, error) {
		liked = false
		return true, nil
	}

	svc := newPostService(posts, nil, nil)

	nowLiked, err := svc.ToggleLike(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !nowLiked {
		t.Fatal("expected first toggle to like")
	}

	nowLiked, err = svc.ToggleLike(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nowLiked {
		t.Fatal("expected second toggle to unlike")
	}
}

func TestReactInvalidTypeRejected(t *testing.T) {
	svc := newPostService(nil, nil, nil)
	if err := svc.React(context.Background(), 1, 10, "meh"); err == nil {
		t.Fatal("expected error for invalid reaction type")
	}
}

func TestHydratePostsSetsAuthorsAndLikes(t *testing.T) {
	posts := noopPostRepo()
	posts.getLikedPostIDsFn = func(context.Context, uint, []uint) ([]uint, error) {
		return []uint{2}, nil
	}

	svc := newPostService(posts, nil, nil)
	batch := []*models.Post{
		{ID: 1, UserID: 7},
		{ID: 2, UserID: 8},
	}
	if err := svc.HydratePosts(context.Background(), 1, batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch[0].Author == nil || batch[0].Author.UserID != 7 {
		t.Fatal("expected author summary hydrated")
	}
	if batch[0].Liked || !batch[1].Liked {
		t.Fatal("expected liked flags to follow the batch lookup")
	}
}
