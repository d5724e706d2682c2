package jira

import (
	"context"
	"log/slog"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// ClientInterface abstracts the Jira API client for testing.
type ClientInterface interface {
	FetchIssues(ctx context.Context) ([]RawIssue, error)
}

var _ ClientInterface = (*Client)(nil)

// Fetcher combines the client and the normalizer into one unit that
// produces finalized candidates for the jira source.
type Fetcher struct {
	client     ClientInterface
	normalizer *Normalizer
}

func NewFetcher(client ClientInterface, normalizer *Normalizer) *Fetcher {
	return &Fetcher{client: client, normalizer: normalizer}
}

func (f *Fetcher) Source() candidate.Source {
	return candidate.SourceJira
}

// Fetch returns candidates for all issues the client sees, skipping
// structurally invalid records without aborting the batch.
func (f *Fetcher) Fetch(ctx context.Context, now time.Time) ([]candidate.Candidate, error) {
	raws, err := f.client.FetchIssues(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(raws))
	for _, raw := range raws {
		c, _, err := f.normalizer.Run(raw, now)
		if err != nil {
			slog.Warn("Skipping invalid issue", "source", "jira", "error", err)
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
