package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

const systemPrompt = "You rewrite work item summaries. Given a work item as JSON, " +
	"return JSON with fields title, long_summary and action_items: a sharper title, " +
	"a concise summary of what the item is about and what is blocking it, and a " +
	"short list of concrete next actions for the item owner. Keep facts from the " +
	"input only, never invent details."

// Client enriches candidate summaries through an OpenAI-compatible chat
// completion endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint string, model string, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Enabled reports whether the client has enough configuration to make
// requests. A disabled client leaves candidates untouched.
func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != "" && c.model != "" && c.apiKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type enrichment struct {
	Title       string   `json:"title"`
	LongSummary string   `json:"long_summary"`
	ActionItems []string `json:"action_items"`
}

// Enrich asks the model to rewrite the presentation fields of a
// candidate. The score and identity fields are never touched, and any
// failure returns an error so the caller keeps the heuristic output.
func (c *Client) Enrich(ctx context.Context, in candidate.Candidate) (candidate.Candidate, error) {
	if !c.Enabled() {
		return in, fmt.Errorf("llm client is not configured")
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return in, fmt.Errorf("failed to marshal candidate: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		return in, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return in, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return in, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return in, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return in, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return in, fmt.Errorf("response has no choices")
	}

	var enriched enrichment
	content := stripCodeFence(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &enriched); err != nil {
		return in, fmt.Errorf("failed to parse enrichment: %w", err)
	}

	out := in
	if enriched.Title != "" {
		out.Title = candidate.Truncate(candidate.CollapseWhitespace(enriched.Title), candidate.TitleLimit)
	}
	if enriched.LongSummary != "" {
		out.LongSummary = candidate.Truncate(candidate.CollapseWhitespace(enriched.LongSummary), candidate.SummaryLimit)
	}
	if len(enriched.ActionItems) > 0 {
		items := make([]string, 0, len(enriched.ActionItems))
		for _, item := range enriched.ActionItems {
			if item = candidate.CollapseWhitespace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			out.ActionItems = items
		}
	}

	return out, nil
}

// stripCodeFence unwraps a ```json fenced block when the model wraps
// its output in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
