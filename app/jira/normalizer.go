package jira

import (
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// timestampLayouts are the formats Jira timestamps show up in.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
	candidate.TimestampLayout,
}

const summaryBodyLimit = 400

// Normalizer maps a raw Jira issue snapshot into the canonical
// candidate shape plus its scoring signals.
type Normalizer struct {
	bots      *candidate.BotFilter
	extractor *candidate.Extractor
}

func NewNormalizer(bots *candidate.BotFilter, extractor *candidate.Extractor) *Normalizer {
	return &Normalizer{bots: bots, extractor: extractor}
}

// Run normalizes one issue against the given snapshot time. A record
// without key and link is structurally invalid and returns an error so
// the caller can skip it.
func (n *Normalizer) Run(raw RawIssue, now time.Time) (candidate.Candidate, candidate.ScoringInput, error) {
	if raw.Key == "" && raw.Link == "" {
		return candidate.Candidate{}, candidate.ScoringInput{}, fmt.Errorf("issue has no key or link")
	}

	created, createdOK := candidate.ParseTimestamp(raw.Created, timestampLayouts, now)
	updated, updatedOK := candidate.ParseTimestamp(raw.Updated, timestampLayouts, now)
	if !updatedOK {
		updated = created
	}

	comments := toComments(raw.Comments, now)
	human := n.bots.HumanComments(comments)

	// The assignee is the one expected to respond; an unassigned issue
	// falls back to the reporter.
	responder := raw.Assignee
	if responder == "" || responder == "Unassigned" {
		responder = raw.Reporter
	}

	var participants []string
	if raw.Assignee != "" && raw.Assignee != "Unassigned" {
		participants = []string{raw.Assignee}
	}

	resolved := isResolved(raw.Status)

	in := candidate.ScoringInput{
		AgeDays:                 now.Sub(created).Hours() / 24,
		StalenessDays:           now.Sub(updated).Hours() / 24,
		ParticipantCount:        len(participants),
		EngagedParticipantCount: candidate.EngagedParticipants(human, participants),
		PendingResponseCount:    candidate.PendingResponses(human, responder),
		TotalHumanCommentCount:  len(human),
		State:                   mapState(raw.Status),
		Labels:                  mapPriority(raw.Priority),
	}

	actionItems := n.extractor.Run(candidate.ActionContext{
		Author:      responder,
		Comments:    comments,
		State:       in.State,
		Resolved:    resolved,
		DefaultItem: defaultItem(raw),
	})

	c := candidate.Candidate{
		Source:      candidate.SourceJira,
		Link:        raw.Link,
		Timestamp:   candidate.FormatTimestamp(created),
		Title:       buildTitle(raw),
		LongSummary: buildSummary(raw),
		ActionItems: actionItems,
		Score:       candidate.Score(in),
		EventTime:   created,
		Degraded:    !createdOK,
	}

	return c, in, nil
}

func buildTitle(raw RawIssue) string {
	summary := raw.Summary
	if summary == "" {
		summary = "No summary"
	}
	title := summary
	if raw.Key != "" {
		title = fmt.Sprintf("%s: %s", raw.Key, summary)
	}
	return candidate.Truncate(title, candidate.TitleLimit)
}

func buildSummary(raw RawIssue) string {
	var parts []string

	if body := descriptionText(raw); body != "" {
		parts = append(parts, candidate.Truncate(body, summaryBodyLimit))
	}

	meta := fmt.Sprintf("Status: %s, Priority: %s",
		valueOr(raw.Status, "Unknown"), valueOr(raw.Priority, "Unknown"))
	if raw.Assignee != "" {
		meta += fmt.Sprintf(", Assignee: %s", raw.Assignee)
	}
	parts = append(parts, meta)

	return candidate.Truncate(strings.Join(parts, ". "), candidate.SummaryLimit)
}

// descriptionText prefers the HTML-rendered description, reduced to
// plain text, over the raw wiki-markup body.
func descriptionText(raw RawIssue) string {
	if raw.RenderedDescription != "" {
		article, err := readability.FromReader(strings.NewReader(raw.RenderedDescription), nil)
		if err == nil && article.TextContent != "" {
			return candidate.CollapseWhitespace(article.TextContent)
		}
	}
	return candidate.CollapseWhitespace(raw.Description)
}

func defaultItem(raw RawIssue) string {
	issueType := valueOr(raw.IssueType, "issue")
	summary := valueOr(raw.Summary, "No summary")
	return fmt.Sprintf("Review and address %s: %s",
		strings.ToLower(issueType), candidate.Truncate(summary, 100))
}

func mapState(status string) candidate.State {
	lower := strings.ToLower(status)
	if strings.Contains(lower, "progress") || strings.Contains(lower, "review") {
		return candidate.StateReady
	}
	return candidate.StateNone
}

func isResolved(status string) bool {
	lower := strings.ToLower(status)
	return strings.Contains(lower, "resolved") ||
		strings.Contains(lower, "closed") ||
		strings.Contains(lower, "done")
}

// mapPriority translates Jira priority names onto the label modifiers.
func mapPriority(priority string) []string {
	lower := strings.ToLower(priority)
	switch {
	case strings.Contains(lower, "p0"), strings.Contains(lower, "p1"),
		strings.Contains(lower, "highest"), strings.Contains(lower, "high"),
		strings.Contains(lower, "blocker"), strings.Contains(lower, "critical"):
		return []string{candidate.LabelUrgent}
	case strings.Contains(lower, "p3"), strings.Contains(lower, "p4"),
		strings.Contains(lower, "lowest"), strings.Contains(lower, "low"),
		strings.Contains(lower, "minor"), strings.Contains(lower, "trivial"):
		return []string{candidate.LabelLowPriority}
	}
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func toComments(raw []IssueComment, now time.Time) []candidate.Comment {
	comments := make([]candidate.Comment, 0, len(raw))
	for _, rc := range raw {
		at, _ := candidate.ParseTimestamp(rc.Created, timestampLayouts, now)
		comments = append(comments, candidate.Comment{
			Author:    rc.Author,
			Text:      rc.Body,
			Timestamp: at,
		})
	}
	return comments
}
