package candidate

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestScore_FreshActivelyReviewedItem(t *testing.T) {
	in := ScoringInput{
		AgeDays:                 2,
		StalenessDays:           1,
		ParticipantCount:        3,
		EngagedParticipantCount: 2,
		PendingResponseCount:    1,
		TotalHumanCommentCount:  5,
	}

	if got := timeFactor(in); !almostEqual(got, 0.064) {
		t.Errorf("Expected time factor ~0.064, got %f", got)
	}
	if got := participantFactor(in); !almostEqual(got, 0.137) {
		t.Errorf("Expected participant factor ~0.137, got %f", got)
	}
	if got := discussionFactor(in); !almostEqual(got, 0.085) {
		t.Errorf("Expected discussion factor ~0.085, got %f", got)
	}
	if got := Score(in); !almostEqual(got, 0.386) {
		t.Errorf("Expected score ~0.386, got %f", got)
	}
}

func TestScore_StaleSingleParticipantItem(t *testing.T) {
	in := ScoringInput{
		AgeDays:                 10,
		StalenessDays:           8,
		ParticipantCount:        1,
		EngagedParticipantCount: 1,
		PendingResponseCount:    5,
		TotalHumanCommentCount:  8,
	}

	if got := timeFactor(in); !almostEqual(got, 0.266) {
		t.Errorf("Expected time factor ~0.266, got %f", got)
	}
	if got := participantFactor(in); !almostEqual(got, 0.15) {
		t.Errorf("Expected participant factor 0.15, got %f", got)
	}
	if got := discussionFactor(in); !almostEqual(got, 0.196) {
		t.Errorf("Expected discussion factor ~0.196, got %f", got)
	}
	if got := Score(in); !almostEqual(got, 0.712) {
		t.Errorf("Expected score ~0.712, got %f", got)
	}
}

func TestScore_BrandNewEmptyItem(t *testing.T) {
	// Zero participants are floored to 1, which yields maximum load and
	// engagement urgency; everything else contributes nothing.
	in := ScoringInput{}

	if got := Score(in); !almostEqual(got, 0.4) {
		t.Errorf("Expected score 0.4, got %f", got)
	}
}

func TestScore_Modifiers(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		labels   []string
		expected float64
	}{
		{"draft halves", StateDraft, nil, 0.3},
		{"draft then urgent", StateDraft, []string{LabelUrgent}, 0.39},
		{"ready boosts", StateReady, nil, 0.72},
		{"urgent label", StateNone, []string{LabelUrgent}, 0.78},
		{"low priority label", StateNone, []string{LabelLowPriority}, 0.42},
		{"no modifiers", StateNone, nil, 0.6},
	}

	for _, tt := range tests {
		got := applyModifiers(0.6, tt.state, tt.labels)
		if !almostEqual(got, tt.expected) {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.expected, got)
		}
	}
}

func TestScore_ModifiersClampAfterEachStep(t *testing.T) {
	// A high raw score with the ready boost must clamp at 1.0 before the
	// urgent label applies, not compound past it.
	got := applyModifiers(0.95, StateReady, []string{LabelUrgent})
	if got > 1.0 {
		t.Errorf("Expected clamped score, got %f", got)
	}
}

func TestScore_Bounds(t *testing.T) {
	inputs := []ScoringInput{
		{},
		{AgeDays: 10000, StalenessDays: 10000, ParticipantCount: 1, PendingResponseCount: 100000, TotalHumanCommentCount: 100000, State: StateReady, Labels: []string{LabelUrgent}},
		{AgeDays: -5, StalenessDays: -5, ParticipantCount: 50, EngagedParticipantCount: 50},
		{ParticipantCount: 0, EngagedParticipantCount: 0, State: StateDraft, Labels: []string{LabelLowPriority}},
	}

	for i, in := range inputs {
		got := Score(in)
		if got < 0.0 || got > 1.0 {
			t.Errorf("Input %d: score %f out of [0, 1]", i, got)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	in := ScoringInput{
		AgeDays:                 3.5,
		StalenessDays:           1.25,
		ParticipantCount:        4,
		EngagedParticipantCount: 2,
		PendingResponseCount:    3,
		TotalHumanCommentCount:  11,
		State:                   StateReady,
		Labels:                  []string{LabelUrgent},
	}

	first := Score(in)
	second := Score(in)
	if first != second {
		t.Errorf("Expected bit-identical scores, got %v and %v", first, second)
	}
}

func TestScore_TimeFactorMonotonicInAge(t *testing.T) {
	prev := -1.0
	for age := 0.0; age <= 60; age++ {
		got := timeFactor(ScoringInput{AgeDays: age, StalenessDays: 2})
		if got < prev {
			t.Errorf("Time factor decreased at age %f: %f < %f", age, got, prev)
		}
		prev = got
	}
}

func TestScore_DiscussionFactorMonotonicInPending(t *testing.T) {
	prev := -1.0
	for pending := 0; pending <= 200; pending++ {
		got := discussionFactor(ScoringInput{PendingResponseCount: pending, TotalHumanCommentCount: 5})
		if got < prev {
			t.Errorf("Discussion factor decreased at pending=%d: %f < %f", pending, got, prev)
		}
		prev = got
	}
}
