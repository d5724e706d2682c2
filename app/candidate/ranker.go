package candidate

import (
	"sort"
	"strings"
)

// RankOptions are the optional post-filters applied after sorting.
// Zero values disable a filter.
type RankOptions struct {
	Limit    int     // keep at most this many candidates
	MinScore float64 // drop candidates scoring below this
}

// Merge flattens the per-source candidate lists into one sequence
// ordered by score descending, with ties broken by event time
// descending and then source name ascending. It performs no re-scoring
// and treats all sources uniformly.
func Merge(lists ...[]Candidate) []Candidate {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	merged := make([]Candidate, 0, total)
	for _, list := range lists {
		merged = append(merged, list...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.EventTime.Equal(b.EventTime) {
			return a.EventTime.After(b.EventTime)
		}
		if a.Timestamp != b.Timestamp {
			// Canonical timestamps compare chronologically as strings.
			return strings.Compare(a.Timestamp, b.Timestamp) > 0
		}
		return a.Source < b.Source
	})

	return merged
}

// Rank merges the given lists and applies the post-filters, score
// threshold first, then truncation to the top N.
func Rank(opts RankOptions, lists ...[]Candidate) []Candidate {
	merged := Merge(lists...)

	if opts.MinScore > 0 {
		kept := merged[:0]
		for _, c := range merged {
			if c.Score >= opts.MinScore {
				kept = append(kept, c)
			}
		}
		merged = kept
	}

	if opts.Limit > 0 && len(merged) > opts.Limit {
		merged = merged[:opts.Limit]
	}

	return merged
}
