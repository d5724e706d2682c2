package candidate

import (
	"strings"
)

// BotFilter classifies participant identities as automated or human.
// The pattern list is configuration data injected at construction;
// matching is a case-sensitive substring check, so a generic marker
// like "[bot]" catches whole families of accounts.
type BotFilter struct {
	patterns []string
}

func NewBotFilter(patterns []string) *BotFilter {
	return &BotFilter{patterns: patterns}
}

// IsBot reports whether the identity matches any configured pattern.
func (f *BotFilter) IsBot(identity string) bool {
	for _, pattern := range f.patterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(identity, pattern) {
			return true
		}
	}
	return false
}

// HumanComments returns the comments whose authors are not automated,
// preserving order.
func (f *BotFilter) HumanComments(comments []Comment) []Comment {
	human := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if f.IsBot(c.Author) {
			continue
		}
		human = append(human, c)
	}
	return human
}
