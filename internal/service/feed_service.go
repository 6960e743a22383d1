package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"creospace/internal/models"
	"creospace/internal/observability"
	"creospace/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService composes the read-side feeds. Every feed follows the same
// two-phase shape: fetch candidate rows, then hydrate author summaries and
// liked flags in a batch.
type FeedService struct {
	postRepo    repository.PostRepository
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
	commentRepo repository.CommentRepository
	posts       *PostService
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	profileRepo repository.ProfileRepository,
	commentRepo repository.CommentRepository,
	posts *PostService,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		followRepo:  followRepo,
		profileRepo: profileRepo,
		commentRepo: commentRepo,
		posts:       posts,
	}
}

const (
	activityWindow  = 30 * 24 * time.Hour
	activityPerKind = 30
	activityCap     = 30
)

// HomeFeed merges the viewer's own posts with those of everyone they follow,
// newest first. The viewer's own private posts are included; followed
// authors' posts pass only the coarse is_private filter, so followers-only
// posts surface here.
func (s *FeedService) HomeFeed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "feed.home")
	defer span.End()

	followingIDs, err := s.followRepo.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("feed.following_count", len(followingIDs)))

	limit = normalizeLimit(limit)

	own, err := s.postRepo.ListByAuthors(ctx, []uint{viewerID}, true, limit+offset, 0)
	if err != nil {
		return nil, err
	}
	followed, err := s.postRepo.ListByAuthors(ctx, followingIDs, false, limit+offset, 0)
	if err != nil {
		return nil, err
	}

	merged := append(own, followed...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	merged = paginate(merged, limit, offset)

	if err := s.posts.HydratePosts(ctx, viewerID, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// FollowingFeed returns posts from accepted-followed authors only. Like the
// home feed it filters on the coarse is_private flag rather than full
// visibility; an accepted follower is entitled to followers-only posts anyway.
func (s *FeedService) FollowingFeed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	followingIDs, err := s.followRepo.ListFollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByAuthors(ctx, followingIDs, false, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	if err := s.posts.HydratePosts(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ExploreFeed returns fully public posts for discovery. sortBy "trending"
// ranks by like count; any other value falls back to newest first.
func (s *FeedService) ExploreFeed(ctx context.Context, viewerID uint, sortBy string, limit, offset int) ([]*models.Post, error) {
	if sortBy != "trending" {
		sortBy = "latest"
	}
	posts, err := s.postRepo.ListPublic(ctx, sortBy, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	if err := s.posts.HydratePosts(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// HashtagFeed returns public posts tagged with the given hashtag.
func (s *FeedService) HashtagFeed(ctx context.Context, viewerID uint, tag string, limit, offset int) ([]*models.Post, error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, models.NewValidationError("Hashtag is required")
	}
	posts, err := s.postRepo.SearchByHashtag(ctx, tag, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	if err := s.posts.HydratePosts(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// MentionFeed returns public posts that mention the given username.
func (s *FeedService) MentionFeed(ctx context.Context, viewerID uint, username string, limit, offset int) ([]*models.Post, error) {
	username = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	posts, err := s.postRepo.SearchByMention(ctx, username, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	if err := s.posts.HydratePosts(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ActivityFeed merges recent likes and comments on the viewer's posts with
// their new followers, newest first, capped at thirty entries. The merge is
// all-or-nothing: if any source fails the whole feed errors rather than
// serving a silently partial view.
func (s *FeedService) ActivityFeed(ctx context.Context, viewerID uint) ([]models.ActivityItem, error) {
	span, ctx := observability.NewSpan(ctx, "feed.activity")
	defer span.End()

	since := time.Now().Add(-activityWindow)

	likes, err := s.postRepo.GetRecentLikesOnUserPosts(ctx, viewerID, since, activityPerKind)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.GetRecentOnUserPosts(ctx, viewerID, since, activityPerKind)
	if err != nil {
		return nil, err
	}
	follows, err := s.followRepo.GetRecentFollowers(ctx, viewerID, since, activityPerKind)
	if err != nil {
		return nil, err
	}

	items := make([]models.ActivityItem, 0, len(likes)+len(comments)+len(follows))
	for _, l := range likes {
		items = append(items, models.ActivityItem{
			Type:      models.ActivityLike,
			ActorID:   l.UserID,
			PostID:    l.PostID,
			CreatedAt: l.CreatedAt,
		})
	}
	for _, c := range comments {
		items = append(items, models.ActivityItem{
			Type:      models.ActivityComment,
			ActorID:   c.UserID,
			PostID:    c.PostID,
			CommentID: c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, f := range follows {
		items = append(items, models.ActivityItem{
			Type:      models.ActivityFollow,
			ActorID:   f.FollowerID,
			CreatedAt: f.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > activityCap {
		items = items[:activityCap]
	}

	actorIDs := make([]uint, 0, len(items))
	for i := range items {
		actorIDs = append(actorIDs, items[i].ActorID)
	}
	summaries, err := s.profileRepo.GetSummaries(ctx, actorIDs)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Actor = summaries[items[i].ActorID]
	}
	return items, nil
}

func paginate(posts []*models.Post, limit, offset int) []*models.Post {
	if offset >= len(posts) {
		return []*models.Post{}
	}
	posts = posts[offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}
