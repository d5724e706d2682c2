package slack

import (
	"context"
	"log/slog"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// ClientInterface abstracts the Slack API client for testing.
type ClientInterface interface {
	FetchMentions(ctx context.Context) ([]RawMention, error)
}

var _ ClientInterface = (*Client)(nil)

// Fetcher combines the client and the normalizer into one unit that
// produces finalized candidates for the slack source.
type Fetcher struct {
	client     ClientInterface
	normalizer *Normalizer
}

func NewFetcher(client ClientInterface, normalizer *Normalizer) *Fetcher {
	return &Fetcher{client: client, normalizer: normalizer}
}

func (f *Fetcher) Source() candidate.Source {
	return candidate.SourceSlack
}

// Fetch returns candidates for all mention threads the client sees. A
// record the normalizer rejects is skipped and logged; the rest of the
// batch continues.
func (f *Fetcher) Fetch(ctx context.Context, now time.Time) ([]candidate.Candidate, error) {
	raws, err := f.client.FetchMentions(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate.Candidate, 0, len(raws))
	for _, raw := range raws {
		c, _, err := f.normalizer.Run(raw, now)
		if err != nil {
			slog.Warn("Skipping invalid mention", "source", "slack", "error", err)
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
