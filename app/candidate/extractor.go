package candidate

import (
	"fmt"
)

// DefaultAggregateThreshold is the pending-comment count above which
// communication items collapse into a single count-bearing statement.
const DefaultAggregateThreshold = 3

// ActionContext carries the discussion stream and structural state an
// adapter hands to the extractor. Comments and ReviewComments are the
// raw streams; the extractor applies the bot filter itself.
type ActionContext struct {
	Author         string
	Comments       []Comment // discussion-level comments
	ReviewComments []Comment // inline code review comments, if the source has them
	State          State
	ReviewFlow     bool // record goes through a review/approval workflow
	HasReviewers   bool
	Approved       bool
	MergeConflict  bool
	Resolved       bool
	DefaultItem    string // emitted when nothing else applies and the record is unresolved
}

// Extractor derives a short ordered list of actionable statements from
// a record. Blocking items come before communication items, and no item
// duplicates another verbatim.
type Extractor struct {
	bots               *BotFilter
	aggregateThreshold int
}

func NewExtractor(bots *BotFilter, aggregateThreshold int) *Extractor {
	if aggregateThreshold <= 0 {
		aggregateThreshold = DefaultAggregateThreshold
	}
	return &Extractor{bots: bots, aggregateThreshold: aggregateThreshold}
}

// Run produces the action item list for one record. An empty list means
// the record is fully resolved or needs nothing.
func (e *Extractor) Run(rec ActionContext) []string {
	items := []string{}

	if rec.Resolved {
		return items
	}

	// Blocking, structural items first.
	if rec.MergeConflict {
		items = append(items, "Resolve merge conflicts")
	}
	if rec.ReviewFlow && rec.State == StateReady && !rec.Approved {
		if rec.HasReviewers {
			items = append(items, "Await reviewer approval")
		} else {
			items = append(items, "Request code review")
		}
	}

	// Communication items, aggregated once the pending count grows.
	human := e.bots.HumanComments(rec.Comments)
	items = append(items, e.pendingItems(human, rec.Author,
		"Respond to comment from %s",
		"Respond to %d pending discussion comments")...)

	humanReview := e.bots.HumanComments(rec.ReviewComments)
	items = append(items, e.pendingItems(humanReview, rec.Author,
		"Address code review comment from %s",
		"Address %d pending code review comments")...)

	if len(items) == 0 && rec.DefaultItem != "" {
		items = append(items, rec.DefaultItem)
	}

	return dedupe(items)
}

// pendingItems itemizes pending comments individually up to the
// aggregation threshold and collapses them into one counted statement
// beyond it, keeping lists short and stable.
func (e *Extractor) pendingItems(comments []Comment, author, perComment, aggregated string) []string {
	pending := PendingResponses(comments, author)
	if pending == 0 {
		return nil
	}
	if pending > e.aggregateThreshold {
		return []string{fmt.Sprintf(aggregated, pending)}
	}

	items := make([]string, 0, pending)
	for _, c := range pendingComments(comments, author) {
		items = append(items, fmt.Sprintf(perComment, c.Author))
	}
	return items
}

// pendingComments returns the comments counted by PendingResponses, in
// chronological order.
func pendingComments(comments []Comment, author string) []Comment {
	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Timestamp.Before(sorted[j-1].Timestamp); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	var pending []Comment
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
			pending = append(pending, c)
		}
	}
	return pending
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
