package database

import "creospace/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.Bookmark{},
		&models.Reaction{},
		&models.Comment{},
		&models.Story{},
		&models.Group{},
		&models.GroupMember{},
		&models.Message{},
		&models.Collection{},
		&models.CollectionItem{},
		&models.Project{},
		&models.ProjectStar{},
	}
}
