package model

import (
	"regexp"
	"strings"
)

// MaxRecommendedActions is the number of prioritized actions a recommendation carries
const MaxRecommendedActions = 3

var numberedLine = regexp.MustCompile(`^` + unicodeSpace + `*\p{Nd}+\.` + unicodeSpace + `+(.+)`)

// Recommendation is the weekly advice text and the actions parsed from it. Not persisted.
type Recommendation struct {
	UserID  UserID
	Text    string
	Actions []string
}

// ParseActions collects the first three "N. text" lines of the advice. Output that does
// not follow the requested structure yields fewer actions rather than an error.
func ParseActions(text string) []string {
	actions := make([]string, 0, MaxRecommendedActions)
	for _, line := range splitLines(text) {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		actions = append(actions, strings.TrimSpace(m[1]))
		if len(actions) == MaxRecommendedActions {
			break
		}
	}
	return actions
}

// isLineBreak reports the line boundaries recognized when splitting advice text,
// which covers the Unicode paragraph and line separators as well as \n and \r.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// splitLines drops empty lines, so a \r\n pair yields a single boundary.
func splitLines(text string) []string {
	return strings.FieldsFunc(text, isLineBreak)
}
