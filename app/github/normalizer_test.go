package github

import (
	"strings"
	"testing"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

func testNormalizer() *Normalizer {
	bots := candidate.NewBotFilter([]string{"[bot]"})
	return NewNormalizer(bots, candidate.NewExtractor(bots, candidate.DefaultAggregateThreshold))
}

func testNow() time.Time {
	return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
}

func samplePR() RawPR {
	return RawPR{
		URL:     "https://github.com/acme/widgets/pull/42",
		Title:   "Add retry logic to uploader",
		Summary: "## Summary\nAdds exponential backoff.\n\n## Testing\nUnit tests.",
		Metadata: PRMetadata{
			Number:    42,
			Author:    "alice",
			State:     "open",
			CreatedAt: "2024-06-08T12:00:00Z",
			UpdatedAt: "2024-06-09T12:00:00Z",
			Reviewers: []string{"bob", "carol", "dave"},
		},
		Comments: PRComments{
			Global: []PRComment{
				{Author: "bob", Body: "Looks reasonable", CreatedAt: "2024-06-08T13:00:00Z"},
				{Author: "ci-reporter[bot]", Body: "Build passed", CreatedAt: "2024-06-08T13:05:00Z"},
				{Author: "carol", Body: "One concern here", CreatedAt: "2024-06-08T14:00:00Z"},
			},
		},
	}
}

func TestNormalizer_Run_BasicFields(t *testing.T) {
	c, in, err := testNormalizer().Run(samplePR(), testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if c.Source != candidate.SourceGitHub {
		t.Errorf("Expected github source, got %s", c.Source)
	}
	if c.Link != "https://github.com/acme/widgets/pull/42" {
		t.Errorf("Unexpected link: %s", c.Link)
	}
	if c.Timestamp != "2024-06-08 12:00:00" {
		t.Errorf("Unexpected timestamp: %s", c.Timestamp)
	}
	if c.Title != "PR #42: Add retry logic to uploader" {
		t.Errorf("Unexpected title: %s", c.Title)
	}
	if !strings.Contains(c.LongSummary, "Adds exponential backoff.") {
		t.Errorf("Summary missing body text: %s", c.LongSummary)
	}
	if strings.Contains(c.LongSummary, "##") {
		t.Errorf("Summary should have markdown headers stripped: %s", c.LongSummary)
	}
	if !strings.Contains(c.LongSummary, "Author: alice, State: open, Reviewers: 3") {
		t.Errorf("Summary missing metadata: %s", c.LongSummary)
	}
	if c.Degraded {
		t.Errorf("Candidate should not be degraded")
	}
	if c.Score < 0 || c.Score > 1 {
		t.Errorf("Score out of bounds: %f", c.Score)
	}

	if in.ParticipantCount != 3 {
		t.Errorf("Expected 3 participants, got %d", in.ParticipantCount)
	}
	if in.TotalHumanCommentCount != 2 {
		t.Errorf("Expected 2 human comments (bot excluded), got %d", in.TotalHumanCommentCount)
	}
	if in.PendingResponseCount != 2 {
		t.Errorf("Expected 2 pending responses, got %d", in.PendingResponseCount)
	}
	if in.EngagedParticipantCount != 2 {
		t.Errorf("Expected 2 engaged reviewers, got %d", in.EngagedParticipantCount)
	}
	if in.State != candidate.StateReady {
		t.Errorf("Expected ready state for open PR, got %q", in.State)
	}
}

func TestNormalizer_Run_AgeAndStaleness(t *testing.T) {
	_, in, err := testNormalizer().Run(samplePR(), testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if in.AgeDays < 1.99 || in.AgeDays > 2.01 {
		t.Errorf("Expected age ~2 days, got %f", in.AgeDays)
	}
	if in.StalenessDays < 0.99 || in.StalenessDays > 1.01 {
		t.Errorf("Expected staleness ~1 day, got %f", in.StalenessDays)
	}
}

func TestNormalizer_Run_DraftState(t *testing.T) {
	raw := samplePR()
	raw.Metadata.Draft = true

	_, in, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.State != candidate.StateDraft {
		t.Errorf("Expected draft state, got %q", in.State)
	}
}

func TestNormalizer_Run_LabelMapping(t *testing.T) {
	raw := samplePR()
	raw.Metadata.Labels = []string{"URGENT-fix", "low-priority", "enhancement"}

	_, in, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	hasUrgent, hasLow := false, false
	for _, l := range in.Labels {
		if l == candidate.LabelUrgent {
			hasUrgent = true
		}
		if l == candidate.LabelLowPriority {
			hasLow = true
		}
	}
	if !hasUrgent || !hasLow {
		t.Errorf("Expected both label modifiers, got %v", in.Labels)
	}
}

func TestNormalizer_Run_UnparsableTimestampDegrades(t *testing.T) {
	raw := samplePR()
	raw.Metadata.CreatedAt = "yesterday-ish"

	c, in, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Record with bad timestamp must not be rejected: %v", err)
	}
	if !c.Degraded {
		t.Errorf("Expected degraded candidate")
	}
	if c.Timestamp != "2024-06-10 12:00:00" {
		t.Errorf("Expected fallback to current time, got %s", c.Timestamp)
	}
	if in.AgeDays != 0 {
		t.Errorf("Expected zero age for fallback timestamp, got %f", in.AgeDays)
	}
}

func TestNormalizer_Run_MissingURLRejected(t *testing.T) {
	raw := samplePR()
	raw.URL = ""

	if _, _, err := testNormalizer().Run(raw, testNow()); err == nil {
		t.Errorf("Expected error for record without URL")
	}
}

func TestNormalizer_Run_MergeConflictActionFirst(t *testing.T) {
	raw := samplePR()
	mergeable := false
	raw.Metadata.Mergeable = &mergeable

	c, _, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(c.ActionItems) == 0 || c.ActionItems[0] != "Resolve merge conflicts" {
		t.Errorf("Expected merge conflict item first, got %v", c.ActionItems)
	}
}

func TestNormalizer_Run_ClosedPRHasNoActionItems(t *testing.T) {
	raw := samplePR()
	raw.Metadata.State = "closed"
	raw.Comments = PRComments{}

	c, _, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(c.ActionItems) != 0 {
		t.Errorf("Expected no action items for closed PR, got %v", c.ActionItems)
	}
	if c.ActionItems == nil {
		t.Errorf("Action items must be an empty list, not nil")
	}
}

func TestNormalizer_Run_LongTitleTruncated(t *testing.T) {
	raw := samplePR()
	raw.Title = strings.Repeat("very long title ", 30)

	c, _, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len([]rune(c.Title)) > candidate.TitleLimit {
		t.Errorf("Title exceeds limit: %d runes", len([]rune(c.Title)))
	}
	if !strings.HasSuffix(c.Title, "...") {
		t.Errorf("Expected ellipsis marker on truncated title")
	}
}
