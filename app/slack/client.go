package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/moht-agrawal-rubrik/tlean/app/config"
)

// Client fetches mention threads from the Slack Web API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	userID     string
	userAgent  string
}

func NewClient(src config.SlackSource, httpClient *http.Client, userAgent string) *Client {
	return &Client{
		httpClient: httpClient,
		apiURL:     src.APIURL,
		token:      src.Token,
		userID:     src.UserID,
		userAgent:  userAgent,
	}
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type searchResponse struct {
	apiResponse
	Messages struct {
		Matches []searchMatch `json:"matches"`
	} `json:"messages"`
}

type searchMatch struct {
	TS        string `json:"ts"`
	User      string `json:"user"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Permalink string `json:"permalink"`
	Channel   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
}

type repliesResponse struct {
	apiResponse
	Messages []apiMessage `json:"messages"`
}

type apiMessage struct {
	TS   string `json:"ts"`
	User string `json:"user"`
	Text string `json:"text"`
}

// FetchMentions returns the recent messages mentioning the configured
// user, each with its thread replies. A failure on a single thread
// fails the fetch; the caller treats the whole source as absent for
// this cycle.
func (c *Client) FetchMentions(ctx context.Context) ([]RawMention, error) {
	query := url.Values{}
	query.Set("query", fmt.Sprintf("<@%s>", c.userID))
	query.Set("count", "30")
	query.Set("sort", "timestamp")
	query.Set("sort_dir", "desc")

	var result searchResponse
	if err := c.getJSON(ctx, "search.messages", query, &result); err != nil {
		return nil, fmt.Errorf("failed to search mentions: %w", err)
	}

	mentions := make([]RawMention, 0, len(result.Messages.Matches))
	for _, match := range result.Messages.Matches {
		raw, err := c.assemble(ctx, match)
		if err != nil {
			return nil, fmt.Errorf("failed to assemble mention %s: %w", match.TS, err)
		}
		mentions = append(mentions, raw)
	}

	return mentions, nil
}

func (c *Client) assemble(ctx context.Context, match searchMatch) (RawMention, error) {
	query := url.Values{}
	query.Set("channel", match.Channel.ID)
	query.Set("ts", match.TS)

	var result repliesResponse
	if err := c.getJSON(ctx, "conversations.replies", query, &result); err != nil {
		return RawMention{}, fmt.Errorf("failed to fetch thread: %w", err)
	}

	author := match.User
	if author == "" {
		author = match.Username
	}

	raw := RawMention{
		Channel:    match.Channel.Name,
		ChannelID:  match.Channel.ID,
		Timestamp:  match.TS,
		User:       author,
		Text:       match.Text,
		Permalink:  match.Permalink,
		TargetUser: c.userID,
	}

	// The first message in the thread is the mention itself.
	for _, msg := range result.Messages {
		if msg.TS == match.TS {
			continue
		}
		raw.Replies = append(raw.Replies, ThreadReply{
			User:      msg.User,
			Text:      msg.Text,
			Timestamp: msg.TS,
		})
	}

	return raw, nil
}

type slackResponse interface {
	ok() (bool, string)
}

func (c *Client) getJSON(ctx context.Context, method string, query url.Values, v slackResponse) error {
	rawURL := fmt.Sprintf("%s/%s?%s", c.apiURL, method, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

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

	if ok, apiErr := v.ok(); !ok {
		return fmt.Errorf("API error: %s", apiErr)
	}

	return nil
}

func (r apiResponse) ok() (bool, string) {
	return r.OK, r.Error
}
