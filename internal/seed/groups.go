package seed

import (
	"errors"
	"fmt"
	"strings"

	"creospace/internal/models"

	"gorm.io/gorm"
)

// BuiltInGroup is a permanent system group chat.
type BuiltInGroup struct {
	Name        string
	Description string
}

// BuiltInGroupChats defines the permanent system group chats. They are owned
// by the system (created_by 0) and users join them like any other group.
var BuiltInGroupChats = []BuiltInGroup{
	{Name: "Campus Commons", Description: "General discussion for everyone on campus."},
	{Name: "Announcements", Description: "Official platform and campus announcements."},
	{Name: "Help Desk", Description: "Questions, troubleshooting, and support."},
	{Name: "Hackathon Hub", Description: "Team up, plan, and build for hackathons."},
	{Name: "CS Lounge", Description: "Computer science talk, projects, and memes."},
	{Name: "EE Workshop", Description: "Electrical engineering builds and coursework."},
	{Name: "Design Studio", Description: "UI, UX, and visual design critique."},
	{Name: "Career Corner", Description: "Internships, job postings, and interview prep."},
	{Name: "Study Groups", Description: "Find and organize study partners."},
	{Name: "Sports & Rec", Description: "Intramurals, pickup games, and fitness."},
	{Name: "Music Room", Description: "Share what you are listening to or making."},
	{Name: "Foodies", Description: "Cafeteria reviews and late-night food runs."},
	{Name: "Gaming Den", Description: "Gaming across all platforms."},
	{Name: "Book Club", Description: "Reading lists and book discussion."},
	{Name: "Photography Club", Description: "Campus shots, gear, and editing tips."},
}

// BuiltInGroups seeds the permanent system group chats. It is idempotent and
// safe to run at every startup.
func BuiltInGroups(db *gorm.DB) error {
	for _, item := range BuiltInGroupChats {
		err := db.Transaction(func(tx *gorm.DB) error {
			var group models.Group
			queryErr := tx.Where("name = ? AND created_by = 0", item.Name).First(&group).Error
			switch {
			case queryErr == nil:
				if group.Description != item.Description {
					return tx.Model(&models.Group{}).Where("id = ?", group.ID).
						Update("description", item.Description).Error
				}
				return nil
			case !errors.Is(queryErr, gorm.ErrRecordNotFound):
				return queryErr
			}

			group = models.Group{
				Name:        item.Name,
				Description: item.Description,
				AvatarURL:   builtInGroupAvatar(item.Name),
				IsPrivate:   false,
				CreatedBy:   0,
			}
			return tx.Create(&group).Error
		})
		if err != nil {
			return fmt.Errorf("seed built-in group %q: %w", item.Name, err)
		}
	}

	return nil
}

func builtInGroupAvatar(name string) string {
	seed := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", seed)
}
