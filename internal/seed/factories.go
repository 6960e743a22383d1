package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"creospace/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	departments = []string{
		"Computer Science", "Software Engineering", "Electrical Engineering",
		"Mechanical Engineering", "Civil Engineering", "Mathematics",
		"Physics", "Business Administration", "Design", "Data Science",
	}

	hashtagPool = []string{
		"campuslife", "hackathon", "finals", "studygroup", "internship",
		"opensource", "golang", "webdev", "machinelearning", "design",
		"latenightcoding", "coffee", "projectshowcase", "firstyear",
		"gradschool", "careerfair", "dormlife", "midterms",
	}

	technologiesPool = []string{
		"Go", "TypeScript", "React", "PostgreSQL", "Redis", "Docker",
		"Kubernetes", "Python", "Rust", "Svelte", "GraphQL", "Flutter",
		"TensorFlow", "Arduino", "Raspberry Pi",
	}

	collectionNames = []string{
		"Inspiration", "Read Later", "Project Ideas", "Interview Prep",
		"Study Notes", "Funny Stuff", "Design References", "Recipes",
	}

	groupNamePrefixes = []string{
		"Late Night", "Weekend", "Semester", "Project", "Official",
		"Unofficial", "Midnight", "Campus",
	}

	groupNameSuffixes = []string{
		"Crew", "Squad", "Study Group", "Builders", "Hangout",
		"Collective", "Club", "Team",
	}
)

// generateUsername builds a unique, lowercase handle. The index suffix keeps
// collisions out without a retry loop.
func generateUsername(rng *rand.Rand, i int) string {
	base := strings.ToLower(gofakeit.Username())
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, base)
	if base == "" {
		base = fmt.Sprintf("student%d", rng.Intn(1000))
	}
	return fmt.Sprintf("%s%d", base, i)
}

func generateBio(rng *rand.Rand) string {
	templates := []string{
		"%s student. %s",
		"Building things with %s. %s",
		"%s | %s",
	}
	switch rng.Intn(len(templates)) {
	case 0:
		return fmt.Sprintf(templates[0], pick(rng, departments), gofakeit.Sentence(6))
	case 1:
		return fmt.Sprintf(templates[1], pick(rng, technologiesPool), gofakeit.Sentence(5))
	default:
		return fmt.Sprintf(templates[2], gofakeit.JobTitle(), gofakeit.Quote())
	}
}

// generatePostContent produces post text plus the hashtags and mentions that
// appear literally in it, mirroring what the post service derives at write
// time.
func generatePostContent(rng *rand.Rand, usernames []string) (content string, hashtags, mentions []string) {
	var sb strings.Builder
	sb.WriteString(gofakeit.Sentence(rng.Intn(12) + 4))

	for _, tag := range pickN(rng, hashtagPool, rng.Intn(3)) {
		sb.WriteString(" #")
		sb.WriteString(tag)
		hashtags = append(hashtags, tag)
	}

	if len(usernames) > 0 && rng.Float32() < 0.3 {
		for _, name := range pickN(rng, usernames, rng.Intn(2)+1) {
			sb.WriteString(" @")
			sb.WriteString(name)
			mentions = append(mentions, name)
		}
	}

	return sb.String(), hashtags, mentions
}

func pickPostVisibility(rng *rand.Rand) models.PostVisibility {
	switch r := rng.Float32(); {
	case r < 0.70:
		return models.PostVisibilityPublic
	case r < 0.90:
		return models.PostVisibilityFollowers
	default:
		return models.PostVisibilityPrivate
	}
}

func pickProjectVisibility(rng *rand.Rand) models.ProjectVisibility {
	switch r := rng.Float32(); {
	case r < 0.75:
		return models.ProjectVisibilityPublic
	case r < 0.90:
		return models.ProjectVisibilityInternal
	default:
		return models.ProjectVisibilityPrivate
	}
}

func pickReaction(rng *rand.Rand) models.ReactionType {
	types := []models.ReactionType{
		models.ReactionLike, models.ReactionLove, models.ReactionLaugh,
		models.ReactionWow, models.ReactionSad, models.ReactionAngry,
	}
	return types[rng.Intn(len(types))]
}

func generateGroupName(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s", pick(rng, groupNamePrefixes), pick(rng, groupNameSuffixes))
}

func generateProjectTitle(rng *rand.Rand) string {
	return fmt.Sprintf("%s %s", gofakeit.HackerAdjective(), gofakeit.HackerNoun())
}

// randomPastTime spreads timestamps over the last maxDays days so feeds look
// lived-in instead of created all at once.
func randomPastTime(rng *rand.Rand, maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(rng.Intn(maxDays))*24*time.Hour +
		time.Duration(rng.Intn(24))*time.Hour +
		time.Duration(rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// pickN returns up to n distinct items from the pool.
func pickN[T any](rng *rand.Rand, items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if n > len(items) {
		n = len(items)
	}
	idx := rng.Perm(len(items))[:n]
	out := make([]T, 0, n)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}
