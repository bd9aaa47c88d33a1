// Package cvfilter implements skill-tag filtering over a résumé dataset: tokenizing
// tech-skill rows, matching filter tags against job stacks, inferring implied stack
// tags, and selecting the best job to bring into view.
package cvfilter

import (
	"strings"
)

// SplitTechItems splits a comma-separated skill list into tokens. Commas inside
// parentheses (at any nesting depth) belong to the enclosing token, so
// "Canvas (FabricJS, PixiJS), React" yields ["Canvas (FabricJS, PixiJS)", "React"].
// Tokens are trimmed and empty tokens dropped. A stray ")" never drives the
// depth below zero.
func SplitTechItems(items string) []string {
	parts := []string{}
	var current strings.Builder
	depth := 0

	flush := func() {
		if token := strings.TrimSpace(current.String()); token != "" {
			parts = append(parts, token)
		}
		current.Reset()
	}

	for _, r := range items {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth = max(0, depth-1)
		case r == ',' && depth == 0:
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return parts
}

// CleanTags trims filter tags taken from user input and drops blank ones.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
