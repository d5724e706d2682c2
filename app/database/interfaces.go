package database

import (
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// SourceStats describes the stored state of one source.
type SourceStats struct {
	Source         candidate.Source
	CandidateCount int
	LastRefreshed  *time.Time
}

// CandidateRepositoryInterface defines the storage operations for
// ranked candidates.
type CandidateRepositoryInterface interface {
	ReplaceSourceCandidates(source candidate.Source, candidates []candidate.Candidate, refreshedAt time.Time) error
	GetAll() ([]candidate.Candidate, error)
	GetBySource(source candidate.Source) ([]candidate.Candidate, error)
	GetCandidateCount() (int, error)
	GetSourceStats() ([]SourceStats, error)
}
