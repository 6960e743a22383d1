package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PostVisibility controls who may see a post.
type PostVisibility string

const (
	// PostVisibilityPublic makes the post visible to everyone.
	PostVisibilityPublic PostVisibility = "public"
	// PostVisibilityPrivate restricts the post to its owner.
	PostVisibilityPrivate PostVisibility = "private"
	// PostVisibilityFollowers restricts the post to accepted followers.
	PostVisibilityFollowers PostVisibility = "followers-only"
)

// PostEdit is one entry of a post's append-only edit history. It snapshots the
// content and visibility the post had before the edit was applied.
type PostEdit struct {
	Content    string         `json:"content"`
	Visibility PostVisibility `json:"visibility"`
	EditedAt   time.Time      `json:"edited_at"`
}

// Post is a content unit owned by exactly one profile.
//
// IsPrivate is the legacy coarse flag; it mirrors Visibility == private and is
// what the feed composers filter on. Hashtags and Mentions are derived from
// Content at write time. EditHistory is append-only; LikesCount and
// CommentsCount are denormalized and bumped atomically by the repository.
type Post struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Content       string          `gorm:"type:text" json:"content"`
	ImageURL      string          `json:"image_url"`
	VideoURL      string          `json:"video_url"`
	MediaURLs     []string        `gorm:"serializer:json;type:jsonb" json:"media_urls"`
	MediaMetadata json.RawMessage `gorm:"type:jsonb" json:"media_metadata,omitempty"`
	IsPrivate     bool            `gorm:"default:false;index" json:"is_private"`
	Visibility    PostVisibility  `gorm:"type:varchar(20);default:'public'" json:"visibility"`
	LikesCount    int             `gorm:"default:0" json:"likes_count"`
	CommentsCount int             `gorm:"default:0" json:"comments_count"`
	Hashtags      []string        `gorm:"serializer:json;type:jsonb" json:"hashtags"`
	Mentions      []string        `gorm:"serializer:json;type:jsonb" json:"mentions"`
	EditHistory   []PostEdit      `gorm:"serializer:json;type:jsonb" json:"edit_history,omitempty"`
	EditedAt      *time.Time      `json:"edited_at,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"-" json:"liked"`
	// Author is hydrated by the service layer via batched profile lookup.
	Author *ProfileSummary `gorm:"-" json:"author,omitempty"`
}

// Like marks that a user liked a post. (user_id, post_id) is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark marks that a user saved a post. (user_id, post_id) is unique.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_bookmarks_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionType is a typed emoji reaction on a post.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ValidReactionType reports whether t is one of the supported reaction types.
func ValidReactionType(t ReactionType) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reaction is a typed reaction on a post. A user holds at most one reaction
// per post; reacting again replaces the stored type.
type Reaction struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_reactions_user_post" json:"user_id"`
	PostID    uint         `gorm:"not null;uniqueIndex:idx_reactions_user_post;index" json:"post_id"`
	Type      ReactionType `gorm:"type:varchar(10);not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
