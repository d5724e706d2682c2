package candidate

import (
	"time"
)

// Source identifies the origin system of a candidate.
type Source string

const (
	SourceGitHub Source = "github"
	SourceJira   Source = "jira"
	SourceSlack  Source = "slack"
)

const (
	TitleLimit   = 200
	SummaryLimit = 1000
)

// Candidate is a normalized, scored work item ready for ranking. The
// json-tagged fields form the wire contract with any front end; the
// remaining fields are internal to ranking and storage.
type Candidate struct {
	Source      Source   `json:"source"`
	Link        string   `json:"link"`
	Timestamp   string   `json:"timestamp"` // canonical UTC "YYYY-MM-DD HH:MM:SS"
	Title       string   `json:"title"`
	LongSummary string   `json:"long_summary"`
	ActionItems []string `json:"action_items"`
	Score       float64  `json:"score"`

	EventTime time.Time `json:"-"` // backs the ranker's timestamp tie-break
	Degraded  bool      `json:"-"` // source timestamp could not be parsed
}

// State is the categorical work state a source adapter maps its raw
// record onto. It drives the first score modifier.
type State string

const (
	StateNone  State = ""
	StateDraft State = "draft"
	StateReady State = "ready"
)

// Normalized label values recognized by the scorer. Adapters translate
// source-specific priorities and labels onto these.
const (
	LabelUrgent      = "urgent"
	LabelLowPriority = "low-priority"
)

// ScoringInput is the per-candidate bag of normalized signals the
// scorer consumes. It is derived by a source adapter from raw fields
// that differ in shape across sources and is never persisted.
type ScoringInput struct {
	AgeDays                 float64
	StalenessDays           float64
	ParticipantCount        int
	EngagedParticipantCount int
	PendingResponseCount    int
	TotalHumanCommentCount  int
	State                   State
	Labels                  []string
}

// Comment is one entry of a record's chronological discussion stream.
type Comment struct {
	Author    string
	Text      string
	Timestamp time.Time
}
