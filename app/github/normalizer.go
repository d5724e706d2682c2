package github

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// timestampLayouts are the formats GitHub timestamps show up in.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	candidate.TimestampLayout,
}

var markdownHeaderRe = regexp.MustCompile(`#{1,6}\s+`)

const summaryBodyLimit = 400

// Normalizer maps a raw pull request snapshot into the canonical
// candidate shape plus its scoring signals.
type Normalizer struct {
	bots      *candidate.BotFilter
	extractor *candidate.Extractor
}

func NewNormalizer(bots *candidate.BotFilter, extractor *candidate.Extractor) *Normalizer {
	return &Normalizer{bots: bots, extractor: extractor}
}

// Run normalizes one pull request against the given snapshot time. A
// structurally invalid record (no link) returns an error so the caller
// can skip it without aborting the batch.
func (n *Normalizer) Run(raw RawPR, now time.Time) (candidate.Candidate, candidate.ScoringInput, error) {
	if raw.URL == "" {
		return candidate.Candidate{}, candidate.ScoringInput{}, fmt.Errorf("pull request has no URL")
	}

	created, createdOK := candidate.ParseTimestamp(raw.Metadata.CreatedAt, timestampLayouts, now)
	updated, updatedOK := candidate.ParseTimestamp(raw.Metadata.UpdatedAt, timestampLayouts, now)
	if !updatedOK {
		updated = created
	}

	global := toComments(raw.Comments.Global, now)
	inline := toComments(raw.Comments.Inline, now)
	human := n.bots.HumanComments(append(append([]candidate.Comment{}, global...), inline...))

	participants := raw.Metadata.Reviewers
	if len(raw.Metadata.Assignees) > len(participants) {
		participants = raw.Metadata.Assignees
	}

	in := candidate.ScoringInput{
		AgeDays:                 now.Sub(created).Hours() / 24,
		StalenessDays:           now.Sub(updated).Hours() / 24,
		ParticipantCount:        len(participants),
		EngagedParticipantCount: engagedReviewers(human, raw.Metadata.Reviewers, raw.Metadata.Assignees),
		PendingResponseCount:    candidate.PendingResponses(human, raw.Metadata.Author),
		TotalHumanCommentCount:  len(human),
		State:                   mapState(raw.Metadata),
		Labels:                  mapLabels(raw.Metadata.Labels),
	}

	resolved := raw.Metadata.State == "closed" || raw.Metadata.State == "merged"

	actionItems := n.extractor.Run(candidate.ActionContext{
		Author:         raw.Metadata.Author,
		Comments:       global,
		ReviewComments: inline,
		State:          in.State,
		ReviewFlow:     true,
		HasReviewers:   len(raw.Metadata.Reviewers) > 0,
		Approved:       raw.Metadata.Approved,
		MergeConflict:  hasMergeConflict(raw, n.bots, global),
		Resolved:       resolved,
		DefaultItem:    "Review and merge",
	})

	c := candidate.Candidate{
		Source:      candidate.SourceGitHub,
		Link:        raw.URL,
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

func buildTitle(raw RawPR) string {
	title := raw.Title
	if title == "" {
		title = "GitHub PR"
	}
	if raw.Metadata.Number > 0 {
		title = fmt.Sprintf("PR #%d: %s", raw.Metadata.Number, title)
	} else {
		title = fmt.Sprintf("GitHub PR: %s", title)
	}
	return candidate.Truncate(title, candidate.TitleLimit)
}

func buildSummary(raw RawPR) string {
	var parts []string

	if raw.Summary != "" {
		clean := markdownHeaderRe.ReplaceAllString(raw.Summary, "")
		clean = candidate.CollapseWhitespace(clean)
		parts = append(parts, candidate.Truncate(clean, summaryBodyLimit))
	}

	author := raw.Metadata.Author
	if author == "" {
		author = "Unknown"
	}
	state := raw.Metadata.State
	if state == "" {
		state = "unknown"
	}

	meta := fmt.Sprintf("Author: %s, State: %s", author, state)
	if len(raw.Metadata.Reviewers) > 0 {
		meta += fmt.Sprintf(", Reviewers: %d", len(raw.Metadata.Reviewers))
	}
	if len(raw.Metadata.Assignees) > 0 {
		meta += fmt.Sprintf(", Assignees: %d", len(raw.Metadata.Assignees))
	}
	parts = append(parts, meta)

	return candidate.Truncate(strings.Join(parts, ". "), candidate.SummaryLimit)
}

func mapState(meta PRMetadata) candidate.State {
	if meta.Draft || meta.State == "draft" {
		return candidate.StateDraft
	}
	if meta.State == "open" {
		return candidate.StateReady
	}
	return candidate.StateNone
}

func mapLabels(labels []string) []string {
	var mapped []string
	for _, label := range labels {
		lower := strings.ToLower(label)
		if strings.Contains(lower, "urgent") {
			mapped = append(mapped, candidate.LabelUrgent)
		}
		if strings.Contains(lower, "low") && strings.Contains(lower, "priority") {
			mapped = append(mapped, candidate.LabelLowPriority)
		}
	}
	return mapped
}

func hasMergeConflict(raw RawPR, bots *candidate.BotFilter, global []candidate.Comment) bool {
	if raw.Metadata.Mergeable != nil && !*raw.Metadata.Mergeable {
		return true
	}
	for _, c := range bots.HumanComments(global) {
		if strings.Contains(strings.ToLower(c.Text), "merge conflict") {
			return true
		}
	}
	return false
}

// engagedReviewers counts distinct human commenters that are reviewers
// or assignees of the pull request.
func engagedReviewers(human []candidate.Comment, reviewers, assignees []string) int {
	members := make(map[string]bool, len(reviewers)+len(assignees))
	for _, r := range reviewers {
		members[r] = true
	}
	for _, a := range assignees {
		members[a] = true
	}

	engaged := make(map[string]bool)
	for _, c := range human {
		if members[c.Author] {
			engaged[c.Author] = true
		}
	}
	return len(engaged)
}

func toComments(raw []PRComment, now time.Time) []candidate.Comment {
	comments := make([]candidate.Comment, 0, len(raw))
	for _, rc := range raw {
		at, _ := candidate.ParseTimestamp(rc.CreatedAt, timestampLayouts, now)
		comments = append(comments, candidate.Comment{
			Author:    rc.Author,
			Text:      rc.Body,
			Timestamp: at,
		})
	}
	return comments
}
