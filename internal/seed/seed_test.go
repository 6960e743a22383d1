package seed

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"creospace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestGenerateUsername(t *testing.T) {
	rng := testRNG()
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		name := generateUsername(rng, i)
		require.NotEmpty(t, name)
		assert.Equal(t, strings.ToLower(name), name, "usernames must be lowercase")
		assert.NotContains(t, name, " ")
		assert.False(t, seen[name], "duplicate username %q", name)
		seen[name] = true
	}
}

func TestGeneratePostContent(t *testing.T) {
	rng := testRNG()
	usernames := []string{"alice42", "bob7"}

	for i := 0; i < 100; i++ {
		content, hashtags, mentions := generatePostContent(rng, usernames)
		require.NotEmpty(t, content)

		for _, tag := range hashtags {
			assert.Contains(t, content, "#"+tag)
		}
		for _, mention := range mentions {
			assert.Contains(t, content, "@"+mention)
			assert.Contains(t, usernames, mention)
		}
	}
}

func TestGeneratePostContent_NoUsernames(t *testing.T) {
	rng := testRNG()
	for i := 0; i < 50; i++ {
		_, _, mentions := generatePostContent(rng, nil)
		assert.Empty(t, mentions)
	}
}

func TestPickPostVisibility(t *testing.T) {
	rng := testRNG()
	counts := map[models.PostVisibility]int{}
	for i := 0; i < 500; i++ {
		counts[pickPostVisibility(rng)]++
	}
	for v := range counts {
		assert.Contains(t, []models.PostVisibility{
			models.PostVisibilityPublic,
			models.PostVisibilityFollowers,
			models.PostVisibilityPrivate,
		}, v)
	}
	assert.Greater(t, counts[models.PostVisibilityPublic], counts[models.PostVisibilityPrivate],
		"public posts should dominate the mix")
}

func TestPickReaction(t *testing.T) {
	rng := testRNG()
	for i := 0; i < 100; i++ {
		assert.True(t, models.ValidReactionType(pickReaction(rng)))
	}
}

func TestPickN(t *testing.T) {
	rng := testRNG()
	pool := []int{1, 2, 3, 4, 5}

	assert.Nil(t, pickN(rng, pool, 0))
	assert.Len(t, pickN(rng, pool, 3), 3)
	assert.Len(t, pickN(rng, pool, 10), len(pool), "capped at pool size")

	// Distinctness
	out := pickN(rng, pool, 5)
	seen := map[int]bool{}
	for _, v := range out {
		assert.False(t, seen[v])
		seen[v] = true
	}
}

func TestApplyPreset_Unknown(t *testing.T) {
	s := NewSeeder(nil)
	err := s.ApplyPreset("NoSuchPreset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown seeder preset")
}

func TestBuiltInGroupChats(t *testing.T) {
	require.NotEmpty(t, BuiltInGroupChats)

	seen := map[string]bool{}
	for _, g := range BuiltInGroupChats {
		assert.NotEmpty(t, g.Name)
		assert.NotEmpty(t, g.Description)
		assert.False(t, seen[g.Name], "duplicate built-in group %q", g.Name)
		seen[g.Name] = true
	}
}

func TestBuiltInGroupAvatar(t *testing.T) {
	url := builtInGroupAvatar("Campus Commons")
	assert.Contains(t, url, "seed=campus-commons")
	assert.NotContains(t, url, " ")
}

func TestRandomPastTime(t *testing.T) {
	rng := testRNG()
	for i := 0; i < 50; i++ {
		ts := randomPastTime(rng, 90)
		assert.False(t, ts.After(time.Now()), "timestamp must be in the past")
	}
}
