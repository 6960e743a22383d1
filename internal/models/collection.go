package models

import (
	"time"

	"gorm.io/gorm"
)

// Collection is a user-owned named bucket of saved posts.
type Collection struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsPrivate   bool           `gorm:"default:true" json:"is_private"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CollectionItem joins posts into collections. (collection_id, post_id) is unique.
type CollectionItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CollectionID uint      `gorm:"not null;uniqueIndex:idx_collection_items_pair" json:"collection_id"`
	PostID       uint      `gorm:"not null;uniqueIndex:idx_collection_items_pair" json:"post_id"`
	CreatedAt    time.Time `json:"created_at"`
}
