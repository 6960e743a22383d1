package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a text unit on a post, optionally threaded one level deep via
// ParentID. Replies is materialized by the service layer by grouping rows on
// parent_id; only root comments carry a non-nil Replies slice.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author  *ProfileSummary `gorm:"-" json:"author,omitempty"`
	Replies []*Comment      `gorm:"-" json:"replies,omitempty"`
}
