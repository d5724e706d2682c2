package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moht-agrawal-rubrik/tlean/app/candidate"
)

// CandidateRepository handles database operations for candidates
type CandidateRepository struct {
	db *DB
}

var _ CandidateRepositoryInterface = (*CandidateRepository)(nil)

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// ReplaceSourceCandidates swaps the stored candidates for one source
// with a fresh batch inside a single transaction, so readers never see
// a half-refreshed source.
func (r *CandidateRepository) ReplaceSourceCandidates(source candidate.Source, candidates []candidate.Candidate, refreshedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM candidates WHERE source = ?", string(source)); err != nil {
		return fmt.Errorf("failed to clear source candidates: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO candidates (source, link, event_timestamp, title, long_summary, action_items, score, degraded, refreshed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	refreshed := candidate.FormatTimestamp(refreshedAt)
	for _, c := range candidates {
		items, err := json.Marshal(c.ActionItems)
		if err != nil {
			return fmt.Errorf("failed to marshal action items: %w", err)
		}
		degraded := 0
		if c.Degraded {
			degraded = 1
		}
		if _, err := stmt.Exec(string(c.Source), c.Link, c.Timestamp, c.Title, c.LongSummary, string(items), c.Score, degraded, refreshed); err != nil {
			return fmt.Errorf("failed to insert candidate %s: %w", c.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAll returns all stored candidates across sources.
func (r *CandidateRepository) GetAll() ([]candidate.Candidate, error) {
	rows, err := r.db.Query(`
		SELECT source, link, event_timestamp, title, long_summary, action_items, score, degraded
		FROM candidates
		ORDER BY score DESC, event_timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// GetBySource returns the stored candidates for one source.
func (r *CandidateRepository) GetBySource(source candidate.Source) ([]candidate.Candidate, error) {
	rows, err := r.db.Query(`
		SELECT source, link, event_timestamp, title, long_summary, action_items, score, degraded
		FROM candidates
		WHERE source = ?
		ORDER BY score DESC, event_timestamp DESC
	`, string(source))
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates by source: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows)
}

// GetCandidateCount returns the total number of stored candidates
func (r *CandidateRepository) GetCandidateCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM candidates").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get candidate count: %w", err)
	}
	return count, nil
}

// GetSourceStats returns per-source counts and refresh times.
func (r *CandidateRepository) GetSourceStats() ([]SourceStats, error) {
	rows, err := r.db.Query(`
		SELECT source, COUNT(*), MAX(refreshed_at)
		FROM candidates
		GROUP BY source
		ORDER BY source
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get source stats: %w", err)
	}
	defer rows.Close()

	var stats []SourceStats
	for rows.Next() {
		var s SourceStats
		var source string
		var refreshed sql.NullString
		if err := rows.Scan(&source, &s.CandidateCount, &refreshed); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		s.Source = candidate.Source(source)
		if refreshed.Valid {
			if t, err := time.Parse(candidate.TimestampLayout, refreshed.String); err == nil {
				utc := t.UTC()
				s.LastRefreshed = &utc
			}
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	return stats, nil
}

func scanCandidates(rows *sql.Rows) ([]candidate.Candidate, error) {
	var candidates []candidate.Candidate
	for rows.Next() {
		var c candidate.Candidate
		var source string
		var items string
		var degraded int
		err := rows.Scan(&source, &c.Link, &c.Timestamp, &c.Title, &c.LongSummary, &items, &c.Score, &degraded)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		c.Source = candidate.Source(source)
		c.Degraded = degraded != 0
		if err := json.Unmarshal([]byte(items), &c.ActionItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action items: %w", err)
		}
		if c.ActionItems == nil {
			c.ActionItems = []string{}
		}
		if t, err := time.Parse(candidate.TimestampLayout, c.Timestamp); err == nil {
			c.EventTime = t.UTC()
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}

	return candidates, nil
}
