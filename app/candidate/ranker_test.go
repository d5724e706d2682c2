package candidate

import (
	"testing"
	"time"
)

func TestMerge_OrdersByScoreThenTimestamp(t *testing.T) {
	older := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

	github := []Candidate{{Source: SourceGitHub, Link: "g1", Score: 0.9, EventTime: older, Timestamp: FormatTimestamp(older)}}
	jira := []Candidate{{Source: SourceJira, Link: "j1", Score: 0.5, EventTime: newer, Timestamp: FormatTimestamp(newer)}}
	slack := []Candidate{{Source: SourceSlack, Link: "s1", Score: 0.5, EventTime: older, Timestamp: FormatTimestamp(older)}}

	merged := Merge(github, jira, slack)

	if len(merged) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(merged))
	}
	if merged[0].Link != "g1" {
		t.Errorf("Expected highest score first, got %s", merged[0].Link)
	}
	if merged[1].Link != "j1" {
		t.Errorf("Expected newer 0.5 before older 0.5, got %s", merged[1].Link)
	}
	if merged[2].Link != "s1" {
		t.Errorf("Expected older 0.5 last, got %s", merged[2].Link)
	}
}

func TestMerge_TieBreaksBySourceName(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ts := FormatTimestamp(at)

	merged := Merge(
		[]Candidate{{Source: SourceSlack, Link: "s", Score: 0.5, EventTime: at, Timestamp: ts}},
		[]Candidate{{Source: SourceGitHub, Link: "g", Score: 0.5, EventTime: at, Timestamp: ts}},
		[]Candidate{{Source: SourceJira, Link: "j", Score: 0.5, EventTime: at, Timestamp: ts}},
	)

	if merged[0].Source != SourceGitHub || merged[1].Source != SourceJira || merged[2].Source != SourceSlack {
		t.Errorf("Expected source-ascending tie break, got %s, %s, %s",
			merged[0].Source, merged[1].Source, merged[2].Source)
	}
}

func TestMerge_NonIncreasingScores(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var list []Candidate
	for i, score := range []float64{0.2, 0.9, 0.5, 0.7, 0.1, 0.9} {
		list = append(list, Candidate{
			Source:    SourceGitHub,
			Score:     score,
			EventTime: at.Add(time.Duration(i) * time.Hour),
			Timestamp: FormatTimestamp(at.Add(time.Duration(i) * time.Hour)),
		})
	}

	merged := Merge(list)
	for i := 1; i < len(merged); i++ {
		if merged[i].Score > merged[i-1].Score {
			t.Errorf("Score increased at index %d: %f > %f", i, merged[i].Score, merged[i-1].Score)
		}
		if merged[i].Score == merged[i-1].Score && merged[i].EventTime.After(merged[i-1].EventTime) {
			t.Errorf("Timestamp increased within a score tie at index %d", i)
		}
	}
}

func TestRank_TopNTruncation(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	list := []Candidate{
		{Score: 0.9, EventTime: at},
		{Score: 0.7, EventTime: at},
		{Score: 0.5, EventTime: at},
	}

	ranked := Rank(RankOptions{Limit: 2}, list)
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].Score != 0.9 || ranked[1].Score != 0.7 {
		t.Errorf("Expected top scores kept, got %v", ranked)
	}
}

func TestRank_ScoreThreshold(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	list := []Candidate{
		{Score: 0.9, EventTime: at},
		{Score: 0.3, EventTime: at},
		{Score: 0.6, EventTime: at},
	}

	ranked := Rank(RankOptions{MinScore: 0.5}, list)
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 candidates above threshold, got %d", len(ranked))
	}
	for _, c := range ranked {
		if c.Score < 0.5 {
			t.Errorf("Candidate below threshold kept: %f", c.Score)
		}
	}
}

func TestRank_FiltersCompose(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	list := []Candidate{
		{Score: 0.9, EventTime: at},
		{Score: 0.8, EventTime: at},
		{Score: 0.7, EventTime: at},
		{Score: 0.2, EventTime: at},
	}

	ranked := Rank(RankOptions{Limit: 2, MinScore: 0.75}, list)
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(ranked))
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	merged := Merge()
	if len(merged) != 0 {
		t.Errorf("Expected empty result, got %d", len(merged))
	}

	merged = Merge(nil, []Candidate{}, nil)
	if len(merged) != 0 {
		t.Errorf("Expected empty result, got %d", len(merged))
	}
}
