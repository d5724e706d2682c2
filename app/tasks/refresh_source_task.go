package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/database"
)

// RefreshSourceTask fetches one source, optionally enriches the
// results, and swaps them into storage.
type RefreshSourceTask struct {
	Task
	fetcher    SourceFetcherInterface
	summarizer SummarizerInterface
	repo       database.CandidateRepositoryInterface
}

var _ TaskInterface = (*RefreshSourceTask)(nil)

func NewRefreshSourceTask(fetcher SourceFetcherInterface, summarizer SummarizerInterface,
	repo database.CandidateRepositoryInterface) *RefreshSourceTask {
	return &RefreshSourceTask{
		Task:       NewTask(TaskTypeRefreshSource, string(fetcher.Source())),
		fetcher:    fetcher,
		summarizer: summarizer,
		repo:       repo,
	}
}

// Execute runs the refresh. A fetch failure fails the whole task so the
// stored candidates for the source stay as they were; enrichment
// failures only log and keep the heuristic output.
func (t *RefreshSourceTask) Execute(ctx context.Context) error {
	source := t.fetcher.Source()
	now := time.Now().UTC()

	candidates, err := t.fetcher.Fetch(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to fetch source %s: %w", source, err)
	}

	if t.summarizer != nil && t.summarizer.Enabled() {
		for i, c := range candidates {
			enriched, err := t.summarizer.Enrich(ctx, c)
			if err != nil {
				slog.Warn("Summary enrichment failed, keeping heuristic output", "source", source, "link", c.Link, "error", err)
				continue
			}
			candidates[i] = enriched
		}
	}

	if err := t.repo.ReplaceSourceCandidates(source, candidates, now); err != nil {
		return fmt.Errorf("failed to store candidates for source %s: %w", source, err)
	}

	slog.Info("Source refreshed", "source", source, "candidates", len(candidates), "duration", t.GetDuration().Round(time.Millisecond).String())

	return nil
}
