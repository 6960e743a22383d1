package models

import "time"

// FollowStatus represents the stored status of a follow edge.
type FollowStatus string

const (
	// FollowStatusPending indicates a follow request awaiting the target's decision.
	FollowStatusPending FollowStatus = "pending"
	// FollowStatusAccepted indicates an active follow relationship.
	FollowStatusAccepted FollowStatus = "accepted"
)

// Relationship is the tri-state answer to "does A follow B".
type Relationship string

const (
	// RelationshipNone means no edge exists from the viewer to the target.
	RelationshipNone Relationship = "not_following"
	// RelationshipPending means a pending edge exists from the viewer to the target.
	RelationshipPending Relationship = "pending"
	// RelationshipFollowing means an accepted edge exists from the viewer to the target.
	RelationshipFollowing Relationship = "following"
)

// Follow is a directed edge from follower to following. At most one edge
// exists per ordered pair; self-edges are rejected before creation. The edge
// is pending iff the target profile was private at creation time, and it is
// deleted (never archived) on unfollow or reject.
type Follow struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	FollowerID  uint         `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingID uint         `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	Status      FollowStatus `gorm:"type:varchar(20);default:'pending';index:idx_follows_status" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Hydrated counterpart profile, populated by the service layer through a
	// batched profile lookup rather than a server-side join.
	Counterpart *ProfileSummary `gorm:"-" json:"counterpart,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
