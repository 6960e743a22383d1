package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// GroupMemberRole defines a member's role in a group chat.
type GroupMemberRole string

const (
	// GroupRoleAdmin can manage members and must always exist at least once per group.
	GroupRoleAdmin GroupMemberRole = "admin"
	// GroupRoleMember is the default role.
	GroupRoleMember GroupMemberRole = "member"
)

// Group is a named chat room. The creator is auto-added as admin.
type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	AvatarURL   string         `json:"avatar_url"`
	IsPrivate   bool           `gorm:"default:false" json:"is_private"`
	CreatedBy   uint           `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// GroupMember maps users to groups and tracks role.
type GroupMember struct {
	GroupID   uint            `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	UserID    uint            `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Role      GroupMemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Member *ProfileSummary `gorm:"-" json:"member,omitempty"`
}

// Message is one entry of a group's append-only message log.
type Message struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	GroupID     uint            `gorm:"not null;index" json:"group_id"`
	SenderID    uint            `gorm:"not null;index" json:"sender_id"`
	Content     string          `gorm:"type:text;not null" json:"content"`
	MessageType string          `gorm:"type:varchar(20);default:'text'" json:"message_type"`
	Metadata    json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`

	Sender *ProfileSummary `gorm:"-" json:"sender,omitempty"`
}
