package models

import "time"

// Profile is the public identity record for a user. It is created once at
// account setup completion and mutated only by the owning user.
// FollowersCount and FollowingCount are denormalized; they are maintained by
// the follow repository, not recomputed on read.
type Profile struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName    string     `json:"display_name"`
	FullName       string     `json:"full_name"`
	Bio            string     `gorm:"type:text" json:"bio"`
	AvatarURL      string     `json:"avatar_url"`
	IsPrivate      bool       `gorm:"default:false;index" json:"is_private"`
	FollowersCount int        `gorm:"default:0" json:"followers_count"`
	FollowingCount int        `gorm:"default:0" json:"following_count"`
	DOB            *time.Time `json:"dob,omitempty"`
	NutechID       string     `json:"nutech_id"`
	Department     string     `json:"department"`
	PhoneNumber    string     `json:"phone_number"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ProfileSummary is the subset of profile fields attached to hydrated records
// (posts, follow edges, messages). Kept small on purpose: it is what feeds and
// lists need to render an author line.
type ProfileSummary struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// Summary returns the public display fields for hydration into joined records.
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
	}
}
