package jira

import (
	"strings"
	"testing"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

func testNormalizer() *Normalizer {
	bots := candidate.NewBotFilter([]string{"[bot]", "SD-111029"})
	return NewNormalizer(bots, candidate.NewExtractor(bots, candidate.DefaultAggregateThreshold))
}

func testNow() time.Time {
	return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
}

func sampleIssue() RawIssue {
	return RawIssue{
		Key:         "CORE-1234",
		Link:        "https://example.atlassian.net/browse/CORE-1234",
		Summary:     "Uploader times out on large files",
		Description: "Customers report timeouts when uploading files over 2GB.",
		Status:      "In Progress",
		Priority:    "P2 - Medium",
		IssueType:   "Bug",
		Assignee:    "Alice Smith",
		Reporter:    "Bob Jones",
		Created:     "2024-06-03T09:00:00.000+0000",
		Updated:     "2024-06-08T09:00:00.000+0000",
		Comments: []IssueComment{
			{Author: "Bob Jones", Body: "Any update?", Created: "2024-06-07T10:00:00.000+0000"},
			{Author: "SD-111029", Body: "Ticket synced", Created: "2024-06-07T11:00:00.000+0000"},
		},
	}
}

func TestNormalizer_Run_BasicFields(t *testing.T) {
	c, in, err := testNormalizer().Run(sampleIssue(), testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if c.Source != candidate.SourceJira {
		t.Errorf("Expected jira source, got %s", c.Source)
	}
	if c.Title != "CORE-1234: Uploader times out on large files" {
		t.Errorf("Unexpected title: %s", c.Title)
	}
	if c.Timestamp != "2024-06-03 09:00:00" {
		t.Errorf("Unexpected timestamp: %s", c.Timestamp)
	}
	if !strings.Contains(c.LongSummary, "Customers report timeouts") {
		t.Errorf("Summary missing description: %s", c.LongSummary)
	}
	if !strings.Contains(c.LongSummary, "Status: In Progress, Priority: P2 - Medium, Assignee: Alice Smith") {
		t.Errorf("Summary missing metadata: %s", c.LongSummary)
	}

	if in.ParticipantCount != 1 {
		t.Errorf("Expected 1 participant (assignee), got %d", in.ParticipantCount)
	}
	if in.TotalHumanCommentCount != 1 {
		t.Errorf("Expected 1 human comment (bot account excluded), got %d", in.TotalHumanCommentCount)
	}
	if in.PendingResponseCount != 1 {
		t.Errorf("Expected 1 pending response, got %d", in.PendingResponseCount)
	}
	if in.State != candidate.StateReady {
		t.Errorf("Expected ready state for in-progress issue, got %q", in.State)
	}
}

func TestNormalizer_Run_RenderedDescriptionStripped(t *testing.T) {
	raw := sampleIssue()
	raw.RenderedDescription = "<html><body><p>Customers report <b>timeouts</b> when uploading.</p><p>Seen on all clusters.</p></body></html>"

	c, _, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(c.LongSummary, "<") {
		t.Errorf("Summary should not contain HTML tags: %s", c.LongSummary)
	}
	if !strings.Contains(c.LongSummary, "timeouts") {
		t.Errorf("Summary lost rendered text: %s", c.LongSummary)
	}
}

func TestNormalizer_Run_PriorityMapping(t *testing.T) {
	tests := []struct {
		priority string
		expected []string
	}{
		{"P0 - Showstopper", []string{candidate.LabelUrgent}},
		{"Highest", []string{candidate.LabelUrgent}},
		{"P3 - Low", []string{candidate.LabelLowPriority}},
		{"Lowest", []string{candidate.LabelLowPriority}},
		{"P2 - Medium", nil},
		{"", nil},
	}

	for _, tt := range tests {
		raw := sampleIssue()
		raw.Priority = tt.priority

		_, in, err := testNormalizer().Run(raw, testNow())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(in.Labels) != len(tt.expected) {
			t.Errorf("Priority %q: expected labels %v, got %v", tt.priority, tt.expected, in.Labels)
			continue
		}
		for i := range tt.expected {
			if in.Labels[i] != tt.expected[i] {
				t.Errorf("Priority %q: expected labels %v, got %v", tt.priority, tt.expected, in.Labels)
			}
		}
	}
}

func TestNormalizer_Run_ResolvedIssueHasNoActionItems(t *testing.T) {
	raw := sampleIssue()
	raw.Status = "Resolved"

	c, _, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(c.ActionItems) != 0 {
		t.Errorf("Expected no action items for resolved issue, got %v", c.ActionItems)
	}
}

func TestNormalizer_Run_DefaultActionItem(t *testing.T) {
	raw := sampleIssue()
	raw.Comments = nil
	raw.Status = "Open"

	c, _, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(c.ActionItems) != 1 {
		t.Fatalf("Expected one default action item, got %v", c.ActionItems)
	}
	if c.ActionItems[0] != "Review and address bug: Uploader times out on large files" {
		t.Errorf("Unexpected default item: %q", c.ActionItems[0])
	}
}

func TestNormalizer_Run_UnassignedFallsBackToReporter(t *testing.T) {
	raw := sampleIssue()
	raw.Assignee = "Unassigned"

	_, in, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if in.ParticipantCount != 0 {
		t.Errorf("Expected 0 participants for unassigned issue, got %d", in.ParticipantCount)
	}
	// The reporter's own question is not pending against themselves.
	if in.PendingResponseCount != 0 {
		t.Errorf("Expected 0 pending responses, got %d", in.PendingResponseCount)
	}
}

func TestNormalizer_Run_MissingKeyAndLinkRejected(t *testing.T) {
	if _, _, err := testNormalizer().Run(RawIssue{Summary: "orphan"}, testNow()); err == nil {
		t.Errorf("Expected error for record without key or link")
	}
}

func TestNormalizer_Run_BadTimestampDegrades(t *testing.T) {
	raw := sampleIssue()
	raw.Created = "06/03/2024"

	c, _, err := testNormalizer().Run(raw, testNow())
	if err != nil {
		t.Fatalf("Record with bad timestamp must not be rejected: %v", err)
	}
	if !c.Degraded {
		t.Errorf("Expected degraded candidate")
	}
}
