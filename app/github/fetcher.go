package github

import (
	"context"
	"log/slog"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// ClientInterface abstracts the GitHub API client for testing.
type ClientInterface interface {
	FetchPRs(ctx context.Context) ([]RawPR, error)
}

var _ ClientInterface = (*Client)(nil)

// Fetcher combines the client and the normalizer into one unit that
// produces finalized candidates for the github source.
type Fetcher struct {
	client     ClientInterface
	normalizer *Normalizer
}

func NewFetcher(client ClientInterface, normalizer *Normalizer) *Fetcher {
	return &Fetcher{client: client, normalizer: normalizer}
}

func (f *Fetcher) Source() candidate.Source {
	return candidate.SourceGitHub
}

// Fetch returns candidates for all pull requests the client sees. A
// record the normalizer rejects is skipped and logged; the rest of the
// batch continues.
func (f *Fetcher) Fetch(ctx context.Context, now time.Time) ([]candidate.Candidate, error) {
	raws, err := f.client.FetchPRs(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(raws))
	for _, raw := range raws {
		c, _, err := f.normalizer.Run(raw, now)
		if err != nil {
			slog.Warn("Skipping invalid pull request", "source", "github", "error", err)
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
