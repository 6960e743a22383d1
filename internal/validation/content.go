package validation

import (
	"regexp"
	"strings"
)

var (
	hashtagRegex = regexp.MustCompile(`#([A-Za-z0-9_]+)`)
	mentionRegex = regexp.MustCompile(`@([A-Za-z0-9_]+)`)
)

// ExtractHashtags returns the lowercased hashtag words found in content,
// deduplicated in order of first appearance, without the leading '#'.
func ExtractHashtags(content string) []string {
	return extractTokens(hashtagRegex, content)
}

// ExtractMentions returns the lowercased mentioned usernames found in content,
// deduplicated in order of first appearance, without the leading '@'.
func ExtractMentions(content string) []string {
	return extractTokens(mentionRegex, content)
}

func extractTokens(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		token := strings.ToLower(m[1])
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
