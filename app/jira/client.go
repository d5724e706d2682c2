package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/moht-agrawal-rubrik/tlean/app/config"
)

const defaultJQL = "assignee = currentUser() AND resolution = Unresolved ORDER BY updated DESC"

// Client fetches issue snapshots from the Jira REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	token      string
	jql        string
	userAgent  string
}

func NewClient(src config.JiraSource, httpClient *http.Client, userAgent string) *Client {
	jql := src.JQL
	if jql == "" {
		jql = defaultJQL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    src.BaseURL,
		email:      src.Email,
		token:      src.Token,
		jql:        jql,
		userAgent:  userAgent,
	}
}

type searchResponse struct {
	Issues []apiIssue `json:"issues"`
}

type apiIssue struct {
	Key            string    `json:"key"`
	Fields         apiFields `json:"fields"`
	RenderedFields struct {
		Description string `json:"description"`
	} `json:"renderedFields"`
}

type apiFields struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
	Status      struct {
		Name string `json:"name"`
	} `json:"status"`
	Priority struct {
		Name string `json:"name"`
	} `json:"priority"`
	IssueType struct {
		Name string `json:"name"`
	} `json:"issuetype"`
	Assignee struct {
		DisplayName string `json:"displayName"`
	} `json:"assignee"`
	Reporter struct {
		DisplayName string `json:"displayName"`
	} `json:"reporter"`
	Comment struct {
		Comments []struct {
			Author struct {
				DisplayName string `json:"displayName"`
			} `json:"author"`
			Body    string `json:"body"`
			Created string `json:"created"`
		} `json:"comments"`
	} `json:"comment"`
}

// FetchIssues runs the configured JQL query and returns the matching
// issues as raw snapshots.
func (c *Client) FetchIssues(ctx context.Context) ([]RawIssue, error) {
	params := url.Values{}
	params.Set("jql", c.jql)
	params.Set("maxResults", "50")
	params.Set("expand", "renderedFields")
	params.Set("fields", "summary,description,status,priority,issuetype,assignee,reporter,created,updated,comment")

	searchURL := fmt.Sprintf("%s/rest/api/2/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	issues := make([]RawIssue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, c.toRawIssue(issue))
	}

	return issues, nil
}

func (c *Client) toRawIssue(issue apiIssue) RawIssue {
	raw := RawIssue{
		Key:                 issue.Key,
		Link:                fmt.Sprintf("%s/browse/%s", c.baseURL, issue.Key),
		Summary:             issue.Fields.Summary,
		Description:         issue.Fields.Description,
		RenderedDescription: issue.RenderedFields.Description,
		Status:              issue.Fields.Status.Name,
		Priority:            issue.Fields.Priority.Name,
		IssueType:           issue.Fields.IssueType.Name,
		Assignee:            issue.Fields.Assignee.DisplayName,
		Reporter:            issue.Fields.Reporter.DisplayName,
		Created:             issue.Fields.Created,
		Updated:             issue.Fields.Updated,
	}

	for _, comment := range issue.Fields.Comment.Comments {
		raw.Comments = append(raw.Comments, IssueComment{
			Author:  comment.Author.DisplayName,
			Body:    comment.Body,
			Created: comment.Created,
		})
	}

	return raw
}
