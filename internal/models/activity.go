package models

import "time"

// ActivityType tags one entry of the activity feed.
type ActivityType string

const (
	ActivityLike    ActivityType = "like"
	ActivityComment ActivityType = "comment"
	ActivityFollow  ActivityType = "follow"
)

// ActivityItem is a read-model row for the activity feed. It is composed in
// the service layer from likes, comments and follows targeting the viewer;
// nothing persists it.
type ActivityItem struct {
	Type      ActivityType    `json:"type"`
	ActorID   uint            `json:"actor_id"`
	Actor     *ProfileSummary `json:"actor,omitempty"`
	PostID    uint            `json:"post_id,omitempty"`
	CommentID uint            `json:"comment_id,omitempty"`
	Content   string          `json:"content,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
