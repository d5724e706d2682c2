package slack

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

var (
	linkTokenRe = regexp.MustCompile(`<(https?://[^|>]+)\|([^>]+)>`)
	userTokenRe = regexp.MustCompile(`<@([A-Z0-9]+)>`)
	markupRe    = regexp.MustCompile(`<[^>]*>`)
)

// resolutionMarkers are phrases whose presence in the last reply marks
// the thread as handled.
var resolutionMarkers = []string{"thanks", "thank you", "resolved", "done", "fixed", "sorted"}

const summaryBodyLimit = 400

// Normalizer maps a raw mention snapshot into the canonical candidate
// shape plus its scoring signals.
type Normalizer struct {
	bots      *candidate.BotFilter
	extractor *candidate.Extractor
}

func NewNormalizer(bots *candidate.BotFilter, extractor *candidate.Extractor) *Normalizer {
	return &Normalizer{bots: bots, extractor: extractor}
}

// Run normalizes one mention against the given snapshot time. A record
// without a permalink is structurally invalid and returns an error so
// the caller can skip it.
func (n *Normalizer) Run(raw RawMention, now time.Time) (candidate.Candidate, candidate.ScoringInput, error) {
	if raw.Permalink == "" {
		return candidate.Candidate{}, candidate.ScoringInput{}, fmt.Errorf("mention has no permalink")
	}

	created, createdOK := parseSlackTimestamp(raw.Timestamp, now)

	// The mention itself opens the discussion stream; the replies
	// follow it. The mentioned user is the one expected to respond.
	comments := make([]candidate.Comment, 0, len(raw.Replies)+1)
	comments = append(comments, candidate.Comment{
		Author:    raw.User,
		Text:      raw.Text,
		Timestamp: created,
	})
	for _, reply := range raw.Replies {
		at, _ := parseSlackTimestamp(reply.Timestamp, now)
		comments = append(comments, candidate.Comment{
			Author:    reply.User,
			Text:      reply.Text,
			Timestamp: at,
		})
	}

	human := n.bots.HumanComments(comments)

	lastActivity := created
	for _, c := range comments {
		if c.Timestamp.After(lastActivity) {
			lastActivity = c.Timestamp
		}
	}

	participants := threadParticipants(human, raw.TargetUser)
	resolved := appearsResolved(human, raw.TargetUser)

	in := candidate.ScoringInput{
		AgeDays:                 now.Sub(created).Hours() / 24,
		StalenessDays:           math.Max(0, now.Sub(lastActivity).Hours()/24),
		ParticipantCount:        len(participants),
		EngagedParticipantCount: candidate.EngagedParticipants(human, participants),
		PendingResponseCount:    candidate.PendingResponses(human, raw.TargetUser),
		TotalHumanCommentCount:  len(human),
		State:                   candidate.StateNone,
	}

	actionItems := n.extractor.Run(candidate.ActionContext{
		Author:      raw.TargetUser,
		Comments:    comments,
		Resolved:    resolved,
		DefaultItem: "Respond to mention",
	})

	c := candidate.Candidate{
		Source:      candidate.SourceSlack,
		Link:        raw.Permalink,
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

func buildTitle(raw RawMention) string {
	channel := raw.Channel
	if channel == "" {
		channel = raw.ChannelID
	}
	title := "Slack mention"
	if channel != "" {
		title = fmt.Sprintf("Mention in #%s", channel)
	}
	return candidate.Truncate(title, candidate.TitleLimit)
}

func buildSummary(raw RawMention) string {
	var parts []string

	if body := CleanText(raw.Text); body != "" {
		parts = append(parts, candidate.Truncate(body, summaryBodyLimit))
	}

	meta := fmt.Sprintf("From: %s", raw.User)
	if raw.Channel != "" {
		meta += fmt.Sprintf(", Channel: #%s", raw.Channel)
	}
	meta += fmt.Sprintf(", Replies: %d", len(raw.Replies))
	parts = append(parts, meta)

	return candidate.Truncate(strings.Join(parts, ". "), candidate.SummaryLimit)
}

// CleanText reduces Slack message markup to readable text: links keep
// their label, user references keep the ID, remaining tokens drop.
func CleanText(text string) string {
	text = linkTokenRe.ReplaceAllString(text, "$2")
	text = userTokenRe.ReplaceAllString(text, "@$1")
	text = markupRe.ReplaceAllString(text, "")
	return candidate.CollapseWhitespace(text)
}

// parseSlackTimestamp converts a Slack epoch timestamp ("1717406400.000100")
// to UTC time, falling back to now when it cannot be parsed.
func parseSlackTimestamp(ts string, now time.Time) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return now.UTC(), false
	}
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil || seconds <= 0 {
		return now.UTC(), false
	}
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// threadParticipants are the distinct human identities in the thread
// other than the mentioned user.
func threadParticipants(human []candidate.Comment, target string) []string {
	seen := make(map[string]bool)
	var participants []string
	for _, c := range human {
		if c.Author == target || seen[c.Author] {
			continue
		}
		seen[c.Author] = true
		participants = append(participants, c.Author)
	}
	return participants
}

// appearsResolved reports whether the thread ended with the mentioned
// user replying, or with a closing phrase.
func appearsResolved(human []candidate.Comment, target string) bool {
	if len(human) < 2 {
		return false
	}
	last := human[len(human)-1]
	if last.Author == target {
		return true
	}
	lower := strings.ToLower(last.Text)
	for _, marker := range resolutionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
