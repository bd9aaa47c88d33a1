package cvfilter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MatchFunc decides whether a selected filter tag matches a stack entry.
type MatchFunc func(filterTag, candidateTag string) bool

const (
	reactTag       = "React"
	reactNativeTag = "React Native"
)

// SplitSkillTokens splits a skill name on "/" into lowercase, trimmed, non-empty
// sub-tokens: "CSS3 / SCSS / LESS" becomes ["css3", "scss", "less"].
func SplitSkillTokens(skill string) []string {
	raw := strings.Split(strings.ToLower(skill), "/")
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// IsSkillMatch is the default MatchFunc.
//
// Filtering by "React" matches entries that start with the word "React"
// ("React", "React Query") but never "React Native". Otherwise equal names
// match, and failing that, any pair of "/"-separated sub-tokens that are
// equal or contain one another.
func IsSkillMatch(filterTag, candidateTag string) bool {
	if filterTag == reactTag {
		return hasWordPrefix(candidateTag, reactTag) && candidateTag != reactNativeTag
	}

	if filterTag == candidateTag {
		return true
	}

	filterTokens := SplitSkillTokens(filterTag)
	candidateTokens := SplitSkillTokens(candidateTag)

	for _, f := range filterTokens {
		for _, c := range candidateTokens {
			if f == c || strings.Contains(c, f) || strings.Contains(f, c) {
				return true
			}
		}
	}
	return false
}

// hasWordPrefix reports whether s starts with prefix followed by whitespace or the end of s.
func hasWordPrefix(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	rest := s[len(prefix):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r)
}
