package tasks

import (
	"context"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API to manage background refreshes.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueRefreshTasks() int
}

// SourceFetcherInterface is implemented by each source adapter. Fetch
// returns finalized candidates normalized against the given snapshot
// time.
type SourceFetcherInterface interface {
	Source() candidate.Source
	Fetch(ctx context.Context, now time.Time) ([]candidate.Candidate, error)
}

// SummarizerInterface optionally rewrites the presentation fields of a
// candidate. Implementations must leave score and identity untouched.
type SummarizerInterface interface {
	Enabled() bool
	Enrich(ctx context.Context, in candidate.Candidate) (candidate.Candidate, error)
}
