package candidate

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TimestampLayout is the canonical UTC timestamp format every adapter
// re-emits source timestamps in.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in the canonical UTC format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp tries the given layouts in order and returns the first
// match in UTC. A value no layout can parse falls back to now with
// ok=false, so the record degrades instead of being rejected.
func ParseTimestamp(value string, layouts []string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.UTC(), false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return now.UTC(), false
}

// Truncate shortens s to at most limit runes, appending "..." when it
// had to cut. The cut prefers the last whitespace before the limit so
// words are not split. Truncating an already short string is a no-op.
func Truncate(s string, limit int) string {
	s = norm.NFC.String(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string([]rune("...")[:limit])
	}

	keep := runes[:limit-3]
	if idx := lastWhitespace(keep); idx > 0 {
		keep = keep[:idx]
	}
	return strings.TrimRight(string(keep), " \t\n") + "..."
}

func lastWhitespace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case ' ', '\t', '\n':
			return i
		}
	}
	return -1
}

// CollapseWhitespace flattens newlines and runs of spaces into single
// spaces, the cleanup applied to body text before truncation.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PendingResponses counts the comments awaiting a reply from the record
// author: a non-author comment is pending unless the author commented
// later in chronological order. Callers pass human-only comments so bot
// chatter never shows up as pending.
func PendingResponses(comments []Comment, author string) int {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	pending := 0
	for i, c := range sorted {
		if c.Author == author {
			continue
		}
		responded := false
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Author == author {
				responded = true
				break
			}
		}
		if !responded {
			pending++
		}
	}
	return pending
}

// EngagedParticipants counts the distinct participants that appear as
// authors in the comment stream.
func EngagedParticipants(comments []Comment, participants []string) int {
	members := make(map[string]bool, len(participants))
	for _, p := range participants {
		members[p] = true
	}

	engaged := make(map[string]bool)
	for _, c := range comments {
		if members[c.Author] {
			engaged[c.Author] = true
		}
	}
	return len(engaged)
}
