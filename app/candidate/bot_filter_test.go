package candidate

import (
	"testing"
	"time"
)

func TestBotFilter_IsBot(t *testing.T) {
	filter := NewBotFilter([]string{"ci-reporter[bot]", "deploy-watcher[bot]", "SD-111029", "[bot]"})

	tests := []struct {
		identity string
		expected bool
	}{
		{"ci-reporter[bot]", true},
		{"deploy-watcher[bot]", true},
		{"SD-111029", true},
		{"some-new-thing[bot]", true}, // generic marker
		{"alice", false},
		{"bob-the-builder", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := filter.IsBot(tt.identity); got != tt.expected {
			t.Errorf("IsBot(%q) = %v, expected %v", tt.identity, got, tt.expected)
		}
	}
}

func TestBotFilter_IsBot_CaseSensitive(t *testing.T) {
	filter := NewBotFilter([]string{"[bot]"})

	if filter.IsBot("release-notes[BOT]") {
		t.Errorf("Matching is case-sensitive, [BOT] should not match [bot]")
	}
}

func TestBotFilter_EmptyPatternIgnored(t *testing.T) {
	filter := NewBotFilter([]string{""})

	if filter.IsBot("alice") {
		t.Errorf("Empty pattern must not match every identity")
	}
}

func TestBotFilter_HumanComments(t *testing.T) {
	filter := NewBotFilter([]string{"[bot]"})

	now := time.Now()
	comments := []Comment{
		{Author: "alice", Text: "looks good", Timestamp: now},
		{Author: "ci-reporter[bot]", Text: "build passed", Timestamp: now.Add(time.Minute)},
		{Author: "bob", Text: "one question", Timestamp: now.Add(2 * time.Minute)},
	}

	human := filter.HumanComments(comments)
	if len(human) != 2 {
		t.Fatalf("Expected 2 human comments, got %d", len(human))
	}
	if human[0].Author != "alice" || human[1].Author != "bob" {
		t.Errorf("Expected order preserved, got %s, %s", human[0].Author, human[1].Author)
	}
}
