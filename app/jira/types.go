package jira

// RawIssue is the assembled snapshot of one Jira issue, the jira case
// of the raw record variant the normalizer consumes.
type RawIssue struct {
	Key                 string         `json:"key"`
	Link                string         `json:"link"`
	Summary             string         `json:"summary"`
	Description         string         `json:"description"`
	RenderedDescription string         `json:"rendered_description"` // HTML, when the API renders it
	Status              string         `json:"status"`
	Priority            string         `json:"priority"`
	IssueType           string         `json:"issue_type"`
	Assignee            string         `json:"assignee"`
	Reporter            string         `json:"reporter"`
	Created             string         `json:"created"`
	Updated             string         `json:"updated"`
	Comments            []IssueComment `json:"comments"`
}

type IssueComment struct {
	Author  string `json:"author"`
	Body    string `json:"body"`
	Created string `json:"created"`
}
