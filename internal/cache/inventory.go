package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix      = "profile:%d"
	ProfileNameKeyPrefix  = "profile:username:%s"
	PostKeyPrefix         = "post:%d"
	GroupKeyPrefix        = "group:%d"
	ProjectKeyPrefix      = "project:%d"
	StoryShelfKeyPrefix   = "stories:user:%d"
	ExploreFeedKey        = "feed:explore"
	MessageHistoryPrefix  = "group:%d:messages"
	FollowCountersKeyTmpl = "profile:%d:counters"
)

const (
	ProfileTTL        = 5 * time.Minute
	PostTTL           = 30 * time.Minute
	GroupTTL          = 10 * time.Minute
	ProjectTTL        = 10 * time.Minute
	StoryShelfTTL     = time.Minute
	ExploreFeedTTL    = time.Minute
	MessageHistoryTTL = 2 * time.Minute
)

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func ProfileNameKey(username string) string {
	return fmt.Sprintf(ProfileNameKeyPrefix, username)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GroupKey(groupID uint) string {
	return fmt.Sprintf(GroupKeyPrefix, groupID)
}

func ProjectKey(projectID uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, projectID)
}

func StoryShelfKey(userID uint) string {
	return fmt.Sprintf(StoryShelfKeyPrefix, userID)
}

func MessageHistoryKey(groupID uint) string {
	return fmt.Sprintf(MessageHistoryPrefix, groupID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateGroup(ctx context.Context, groupID uint) {
	Invalidate(ctx, GroupKey(groupID))
	Invalidate(ctx, MessageHistoryKey(groupID))
}

func InvalidateProject(ctx context.Context, projectID uint) {
	Invalidate(ctx, ProjectKey(projectID))
}

func InvalidateExploreFeed(ctx context.Context) {
	Invalidate(ctx, ExploreFeedKey)
}
