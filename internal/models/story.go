package models

import "time"

// Story is an ephemeral content unit. ExpiresAt is fixed at creation and is
// advisory: read paths filter expired stories but nothing deletes them.
type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `json:"image_url"`
	VideoURL  string    `json:"video_url"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	Author *ProfileSummary `gorm:"-" json:"author,omitempty"`
}

// Expired reports whether the story is past its expiry at the given time.
func (s *Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
