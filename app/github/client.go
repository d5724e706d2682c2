package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/moht-agrawal-rubrik/tlean/app/config"
)

// Client fetches pull request snapshots from the GitHub REST API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	user       string
	userAgent  string
}

func NewClient(src config.GitHubSource, httpClient *http.Client, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		apiURL:     src.APIURL,
		token:      src.Token,
		user:       src.User,
		userAgent:  userAgent,
	}
}

type searchResult struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	HTMLURL     string  `json:"html_url"`
	State       string  `json:"state"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	CommentsURL string  `json:"comments_url"`
	User        apiUser `json:"user"`
	Labels      []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignees   []apiUser `json:"assignees"`
	PullRequest struct {
		URL string `json:"url"`
	} `json:"pull_request"`
}

type apiUser struct {
	Login string `json:"login"`
}

type apiComment struct {
	User      apiUser `json:"user"`
	Body      string  `json:"body"`
	CreatedAt string  `json:"created_at"`
}

type apiPR struct {
	Draft              bool      `json:"draft"`
	Mergeable          *bool     `json:"mergeable"`
	RequestedReviewers []apiUser `json:"requested_reviewers"`
}

type apiReview struct {
	State string `json:"state"`
}

// FetchPRs returns the open pull requests the configured user is
// involved in, each assembled into a full raw snapshot. A failure on a
// single pull request fails the fetch; the caller treats the whole
// source as absent for this cycle.
func (c *Client) FetchPRs(ctx context.Context) ([]RawPR, error) {
	query := url.QueryEscape(fmt.Sprintf("is:pr is:open involves:%s", c.user))
	searchURL := fmt.Sprintf("%s/search/issues?q=%s&per_page=30", c.apiURL, query)

	var result searchResult
	if err := c.getJSON(ctx, searchURL, &result); err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}

	prs := make([]RawPR, 0, len(result.Items))
	for _, item := range result.Items {
		raw, err := c.assemble(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("failed to assemble PR #%d: %w", item.Number, err)
		}
		prs = append(prs, raw)
	}

	return prs, nil
}

func (c *Client) assemble(ctx context.Context, item searchItem) (RawPR, error) {
	var details apiPR
	if item.PullRequest.URL != "" {
		if err := c.getJSON(ctx, item.PullRequest.URL, &details); err != nil {
			return RawPR{}, fmt.Errorf("failed to fetch details: %w", err)
		}
	}

	var global []apiComment
	if item.CommentsURL != "" {
		if err := c.getJSON(ctx, item.CommentsURL, &global); err != nil {
			return RawPR{}, fmt.Errorf("failed to fetch comments: %w", err)
		}
	}

	var inline []apiComment
	var reviews []apiReview
	if item.PullRequest.URL != "" {
		if err := c.getJSON(ctx, item.PullRequest.URL+"/comments", &inline); err != nil {
			return RawPR{}, fmt.Errorf("failed to fetch review comments: %w", err)
		}
		if err := c.getJSON(ctx, item.PullRequest.URL+"/reviews", &reviews); err != nil {
			return RawPR{}, fmt.Errorf("failed to fetch reviews: %w", err)
		}
	}

	approved := false
	for _, review := range reviews {
		if review.State == "APPROVED" {
			approved = true
			break
		}
	}

	meta := PRMetadata{
		Number:    item.Number,
		Author:    item.User.Login,
		State:     item.State,
		Draft:     details.Draft,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		Approved:  approved,
		Mergeable: details.Mergeable,
	}
	for _, r := range details.RequestedReviewers {
		meta.Reviewers = append(meta.Reviewers, r.Login)
	}
	for _, a := range item.Assignees {
		meta.Assignees = append(meta.Assignees, a.Login)
	}
	for _, l := range item.Labels {
		meta.Labels = append(meta.Labels, l.Name)
	}

	return RawPR{
		URL:      item.HTMLURL,
		Title:    item.Title,
		Summary:  item.Body,
		Metadata: meta,
		Comments: PRComments{
			Global: toAPIComments(global),
			Inline: toAPIComments(inline),
		},
	}, nil
}

func toAPIComments(comments []apiComment) []PRComment {
	out := make([]PRComment, 0, len(comments))
	for _, c := range comments {
		out = append(out, PRComment{
			Author:    c.User.Login,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
