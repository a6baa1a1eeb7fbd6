package keyword

import (
	"fmt"
	"regexp"
	"strings"
)

type UsernameMatcher struct {
	patterns []*regexp.Regexp
}

func NewUsernameMatcher(patterns []string) (*UsernameMatcher, error) {
	m := UsernameMatcher{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid username pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return &m, nil
}

func DefaultUsernameMatcher() *UsernameMatcher {
	m, err := NewUsernameMatcher(DefaultBotUsernamePatterns)
	if err != nil {
		panic(err)
	}
	return m
}

// Reports whether the username matches any bot-like pattern. Matching is case-insensitive. Empty usernames never match.
func (m *UsernameMatcher) Suspicious(username string) bool {
	if m == nil || username == "" {
		return false
	}
	lower := strings.ToLower(username)
	for _, re := range m.patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
