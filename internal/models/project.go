package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectVisibility controls who may see a project.
type ProjectVisibility string

const (
	ProjectVisibilityPublic   ProjectVisibility = "public"
	ProjectVisibilityPrivate  ProjectVisibility = "private"
	ProjectVisibilityInternal ProjectVisibility = "internal"
)

// ValidProjectVisibility reports whether v is a supported visibility level.
func ValidProjectVisibility(v ProjectVisibility) bool {
	switch v {
	case ProjectVisibilityPublic, ProjectVisibilityPrivate, ProjectVisibilityInternal:
		return true
	}
	return false
}

// Project is a showcase item owned by one profile. ForkedFrom links a fork to
// its origin; StarsCount and ForksCount are denormalized and bumped atomically
// by the repository.
type Project struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	Title         string            `gorm:"not null" json:"title"`
	Description   string            `gorm:"type:text" json:"description"`
	Technologies  []string          `gorm:"serializer:json;type:jsonb" json:"technologies"`
	RepoURL       string            `json:"repo_url"`
	DemoURL       string            `json:"demo_url"`
	ImageURL      string            `json:"image_url"`
	AttachedFiles []string          `gorm:"serializer:json;type:jsonb" json:"attached_files"`
	Visibility    ProjectVisibility `gorm:"type:varchar(20);default:'public'" json:"visibility"`
	StarsCount    int               `gorm:"default:0" json:"stars_count"`
	ForksCount    int               `gorm:"default:0" json:"forks_count"`
	ForkedFrom    *uint             `gorm:"index" json:"forked_from,omitempty"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`

	Starred bool            `gorm:"-" json:"starred"`
	Author  *ProfileSummary `gorm:"-" json:"author,omitempty"`
}

// ProjectStar marks that a user starred a project. (user_id, project_id) is unique.
type ProjectStar struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_stars_pair" json:"user_id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_stars_pair;index" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}
