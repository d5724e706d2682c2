package github

// RawPR is the assembled snapshot of one pull request, the GitHub case
// of the raw record variant the normalizer consumes.
type RawPR struct {
	URL      string     `json:"pr_url"`
	Title    string     `json:"pr_title"`
	Summary  string     `json:"pr_summary"`
	Metadata PRMetadata `json:"metadata"`
	Comments PRComments `json:"comments"`
}

type PRMetadata struct {
	Number    int      `json:"number"`
	Author    string   `json:"author"`
	State     string   `json:"state"` // open, closed, merged
	Draft     bool     `json:"draft"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
	Reviewers []string `json:"reviewers"`
	Assignees []string `json:"assignees"`
	Labels    []string `json:"labels"`
	Approved  bool     `json:"approved"`
	Mergeable *bool    `json:"mergeable"`
}

type PRComments struct {
	Global []PRComment `json:"global_comments"`
	Inline []PRComment `json:"inline_comments"`
}

// PRComment covers both discussion comments and inline review comments.
type PRComment struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}
