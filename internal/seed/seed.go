// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"creospace/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with realistic development data. All seeded
// users share the password "password123".
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// EngagementStats summarizes what SeedEngagement created.
type EngagementStats struct {
	Posts       int
	Likes       int
	Reactions   int
	Comments    int
	Stories     int
	Groups      int
	Messages    int
	Collections int
	Projects    int
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll truncates every application table. Destructive; development only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, bookmarks, reactions,
		collection_items, collections, project_stars, projects, stories,
		messages, group_members, groups, follows, posts, profiles, users
		RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedSocialMesh creates users with profiles and a follow mesh between them.
// Roughly a quarter of profiles are private; follow edges into private
// profiles are a mix of pending requests and already-accepted follows.
func (s *Seeder) SeedSocialMesh(count int) ([]models.User, error) {
	log.Printf("🌱 Seeding %d users...", count)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := generateUsername(s.rng, i)
		user := models.User{
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashed),
		}
		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}

		profile := models.Profile{
			UserID:      user.ID,
			Username:    username,
			DisplayName: gofakeit.Name(),
			FullName:    gofakeit.Name(),
			Bio:         generateBio(s.rng),
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
			IsPrivate:   s.rng.Float32() < 0.25,
			Department:  pick(s.rng, departments),
			NutechID:    fmt.Sprintf("NT-%05d", s.rng.Intn(100000)),
		}
		if err := s.db.Create(&profile).Error; err != nil {
			log.Printf("Failed to create profile for %s: %v", username, err)
			continue
		}
		user.Profile = &profile
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	log.Printf("✓ %d users created", len(users))

	if err := s.seedFollowMesh(users); err != nil {
		return nil, fmt.Errorf("failed to create follow mesh: %w", err)
	}

	return users, nil
}

func (s *Seeder) seedFollowMesh(users []models.User) error {
	if len(users) < 2 {
		return nil
	}

	followers := make(map[uint]int)
	following := make(map[uint]int)
	edges := 0

	for i, follower := range users {
		maxEdges := len(users) - 1
		if maxEdges > 10 {
			maxEdges = 10
		}
		targets := pickN(s.rng, users, s.rng.Intn(maxEdges)+1)
		seen := map[uint]bool{follower.ID: true}

		for _, target := range targets {
			if seen[target.ID] {
				continue
			}
			seen[target.ID] = true

			status := models.FollowStatusAccepted
			// Edges into private profiles start pending; about half of the
			// seeded ones have already been accepted.
			if target.Profile != nil && target.Profile.IsPrivate && s.rng.Float32() < 0.5 {
				status = models.FollowStatusPending
			}

			edge := models.Follow{
				FollowerID:  follower.ID,
				FollowingID: target.ID,
				Status:      status,
			}
			if err := s.db.Create(&edge).Error; err != nil {
				return err
			}
			edges++

			if status == models.FollowStatusAccepted {
				followers[target.ID]++
				following[follower.ID]++
			}
		}

		if i > 0 && i%100 == 0 {
			log.Printf("Created follow edges for %d users...", i)
		}
	}

	// Denormalized counts track accepted edges only.
	for userID, n := range followers {
		if err := s.db.Model(&models.Profile{}).Where("user_id = ?", userID).
			Update("followers_count", n).Error; err != nil {
			return err
		}
	}
	for userID, n := range following {
		if err := s.db.Model(&models.Profile{}).Where("user_id = ?", userID).
			Update("following_count", n).Error; err != nil {
			return err
		}
	}

	log.Printf("✓ %d follow edges created", edges)
	return nil
}

// SeedEngagement creates posts and the engagement around them: likes,
// reactions, comments, stories, user groups with chat history, collections,
// and projects with stars and forks.
func (s *Seeder) SeedEngagement(users []models.User, numPosts int) (*EngagementStats, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to seed engagement for")
	}

	usernames := make([]string, 0, len(users))
	for _, u := range users {
		if u.Profile != nil {
			usernames = append(usernames, u.Profile.Username)
		}
	}

	stats := &EngagementStats{}

	posts, err := s.seedPosts(users, usernames, numPosts, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", stats.Posts)

	if err := s.seedStories(users, stats); err != nil {
		return nil, fmt.Errorf("failed to create stories: %w", err)
	}
	log.Printf("✓ %d stories created", stats.Stories)

	if err := s.seedGroups(users, stats); err != nil {
		return nil, fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("✓ %d groups with %d messages created", stats.Groups, stats.Messages)

	if err := s.seedCollections(users, posts, stats); err != nil {
		return nil, fmt.Errorf("failed to create collections: %w", err)
	}
	log.Printf("✓ %d collections created", stats.Collections)

	if err := s.seedProjects(users, stats); err != nil {
		return nil, fmt.Errorf("failed to create projects: %w", err)
	}
	log.Printf("✓ %d projects created", stats.Projects)

	log.Println("🎉 Database seeding completed successfully!")
	return stats, nil
}

func (s *Seeder) seedPosts(users []models.User, usernames []string, count int, stats *EngagementStats) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)

	for i := 0; i < count; i++ {
		author := pick(s.rng, users)
		content, hashtags, mentions := generatePostContent(s.rng, usernames)
		visibility := pickPostVisibility(s.rng)

		post := models.Post{
			UserID:     author.ID,
			Content:    content,
			Hashtags:   hashtags,
			Mentions:   mentions,
			Visibility: visibility,
			IsPrivate:  visibility == models.PostVisibilityPrivate,
			CreatedAt:  randomPastTime(s.rng, 90),
		}
		if s.rng.Float32() < 0.35 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%d/800/800", s.rng.Intn(10000))
		}

		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		stats.Posts++

		if err := s.seedPostEngagement(&post, users, stats); err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

func (s *Seeder) seedPostEngagement(post *models.Post, users []models.User, stats *EngagementStats) error {
	likers := pickN(s.rng, users, s.rng.Intn(8))
	for _, liker := range likers {
		like := models.Like{UserID: liker.ID, PostID: post.ID}
		if err := s.db.Create(&like).Error; err != nil {
			return err
		}
		stats.Likes++

		if s.rng.Float32() < 0.4 {
			reaction := models.Reaction{
				UserID: liker.ID,
				PostID: post.ID,
				Type:   pickReaction(s.rng),
			}
			if err := s.db.Create(&reaction).Error; err != nil {
				return err
			}
			stats.Reactions++
		}
	}

	numComments := s.rng.Intn(5)
	var lastRootID *uint
	for i := 0; i < numComments; i++ {
		comment := models.Comment{
			PostID:  post.ID,
			UserID:  pick(s.rng, users).ID,
			Content: gofakeit.Sentence(s.rng.Intn(10) + 2),
		}
		// Occasionally reply to the previous root comment; threads are one
		// level deep.
		if lastRootID != nil && s.rng.Float32() < 0.3 {
			comment.ParentID = lastRootID
		}
		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
		if comment.ParentID == nil {
			id := comment.ID
			lastRootID = &id
		}
		stats.Comments++
	}

	return s.db.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
		"likes_count":    len(likers),
		"comments_count": numComments,
	}).Error
}

func (s *Seeder) seedStories(users []models.User, stats *EngagementStats) error {
	for _, user := range users {
		if s.rng.Float32() > 0.35 {
			continue
		}

		createdAt := time.Now().Add(-time.Duration(s.rng.Intn(36)) * time.Hour)
		story := models.Story{
			UserID:    user.ID,
			Content:   gofakeit.Sentence(s.rng.Intn(6) + 2),
			ImageURL:  fmt.Sprintf("https://picsum.photos/seed/story-%d/600/1000", s.rng.Intn(10000)),
			ExpiresAt: createdAt.Add(24 * time.Hour),
			CreatedAt: createdAt,
		}
		if err := s.db.Create(&story).Error; err != nil {
			return err
		}
		stats.Stories++
	}
	return nil
}

func (s *Seeder) seedGroups(users []models.User, stats *EngagementStats) error {
	numGroups := len(users) / 10
	if numGroups < 3 {
		numGroups = 3
	}

	for i := 0; i < numGroups; i++ {
		creator := pick(s.rng, users)
		group := models.Group{
			Name:        generateGroupName(s.rng),
			Description: gofakeit.Sentence(8),
			IsPrivate:   s.rng.Float32() < 0.3,
			CreatedBy:   creator.ID,
		}
		if err := s.db.Create(&group).Error; err != nil {
			return err
		}
		stats.Groups++

		members := []models.User{creator}
		members = append(members, pickN(s.rng, users, s.rng.Intn(6)+3)...)
		seen := map[uint]bool{}
		for _, member := range members {
			if seen[member.ID] {
				continue
			}
			seen[member.ID] = true

			role := models.GroupRoleMember
			if member.ID == creator.ID {
				role = models.GroupRoleAdmin
			}
			gm := models.GroupMember{GroupID: group.ID, UserID: member.ID, Role: role}
			if err := s.db.Create(&gm).Error; err != nil {
				return err
			}
		}

		memberIDs := make([]uint, 0, len(seen))
		for id := range seen {
			memberIDs = append(memberIDs, id)
		}
		numMessages := s.rng.Intn(16) + 5
		for j := 0; j < numMessages; j++ {
			msg := models.Message{
				GroupID:     group.ID,
				SenderID:    pick(s.rng, memberIDs),
				Content:     gofakeit.Sentence(s.rng.Intn(10) + 2),
				MessageType: "text",
				CreatedAt:   randomPastTime(s.rng, 30),
			}
			if err := s.db.Create(&msg).Error; err != nil {
				return err
			}
			stats.Messages++
		}
	}

	return nil
}

func (s *Seeder) seedCollections(users []models.User, posts []models.Post, stats *EngagementStats) error {
	if len(posts) == 0 {
		return nil
	}

	for _, user := range users {
		if s.rng.Float32() > 0.25 {
			continue
		}

		collection := models.Collection{
			UserID:      user.ID,
			Name:        pick(s.rng, collectionNames),
			Description: gofakeit.Sentence(6),
			IsPrivate:   s.rng.Float32() < 0.6,
		}
		if err := s.db.Create(&collection).Error; err != nil {
			return err
		}
		stats.Collections++

		for _, post := range pickN(s.rng, posts, s.rng.Intn(4)+2) {
			item := models.CollectionItem{CollectionID: collection.ID, PostID: post.ID}
			if err := s.db.Create(&item).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedProjects(users []models.User, stats *EngagementStats) error {
	var publicProjects []models.Project

	for _, user := range users {
		if user.Profile == nil || s.rng.Float32() > 0.3 {
			continue
		}

		project := models.Project{
			UserID:       user.ID,
			Title:        generateProjectTitle(s.rng),
			Description:  gofakeit.Paragraph(1, 2, 6, "\n"),
			Technologies: pickN(s.rng, technologiesPool, s.rng.Intn(4)+1),
			RepoURL:      fmt.Sprintf("https://github.com/%s/%s", user.Profile.Username, gofakeit.Word()),
			Visibility:   pickProjectVisibility(s.rng),
			CreatedAt:    randomPastTime(s.rng, 180),
		}
		if s.rng.Float32() < 0.4 {
			project.ImageURL = fmt.Sprintf("https://picsum.photos/seed/proj-%d/1200/630", s.rng.Intn(10000))
		}

		if err := s.db.Create(&project).Error; err != nil {
			return err
		}
		stats.Projects++

		stargazers := pickN(s.rng, users, s.rng.Intn(6))
		starCount := 0
		for _, stargazer := range stargazers {
			if stargazer.ID == user.ID {
				continue
			}
			star := models.ProjectStar{UserID: stargazer.ID, ProjectID: project.ID}
			if err := s.db.Create(&star).Error; err != nil {
				return err
			}
			starCount++
		}
		if starCount > 0 {
			if err := s.db.Model(&models.Project{}).Where("id = ?", project.ID).
				Update("stars_count", starCount).Error; err != nil {
				return err
			}
		}

		if project.Visibility == models.ProjectVisibilityPublic {
			publicProjects = append(publicProjects, project)
		}
	}

	// A handful of forks of public projects.
	for i := 0; i < len(publicProjects)/4; i++ {
		origin := pick(s.rng, publicProjects)
		forker := pick(s.rng, users)
		if forker.ID == origin.UserID {
			continue
		}

		originID := origin.ID
		fork := models.Project{
			UserID:       forker.ID,
			Title:        origin.Title,
			Description:  origin.Description,
			Technologies: origin.Technologies,
			RepoURL:      origin.RepoURL,
			Visibility:   models.ProjectVisibilityPublic,
			ForkedFrom:   &originID,
		}
		if err := s.db.Create(&fork).Error; err != nil {
			return err
		}
		stats.Projects++

		if err := s.db.Model(&models.Project{}).Where("id = ?", originID).
			UpdateColumn("forks_count", gorm.Expr("forks_count + 1")).Error; err != nil {
			return err
		}
	}

	return nil
}

// presets are named seeding profiles runnable via the seed command.
var presets = map[string]func(*Seeder) error{
	"Minimal": func(s *Seeder) error {
		users, err := s.SeedSocialMesh(8)
		if err != nil {
			return err
		}
		_, err = s.SeedEngagement(users, 30)
		return err
	},
	"MegaPopulated": func(s *Seeder) error {
		users, err := s.SeedSocialMesh(250)
		if err != nil {
			return err
		}
		_, err = s.SeedEngagement(users, 1500)
		return err
	},
}

// ApplyPreset runs a named seeding profile.
func (s *Seeder) ApplyPreset(name string) error {
	fn, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown seeder preset %q", name)
	}
	return fn(s)
}
