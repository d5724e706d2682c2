package candidate

import (
	"math"
)

// Urgency scoring. The score is a pure function of ScoringInput: a
// 0.1 base plus three weighted factors, then categorical modifiers
// applied multiplicatively in a fixed order (state first, then labels),
// clamped to 1.0 after every step.

const baseScore = 0.1

// Score computes the urgency score for one candidate. The result is
// always within [0, 1].
func Score(in ScoringInput) float64 {
	raw := baseScore + timeFactor(in) + participantFactor(in) + discussionFactor(in)
	raw = applyModifiers(raw, in.State, in.Labels)
	return math.Max(0, math.Min(1, raw))
}

// timeFactor rewards age with a 7-day exponential curve and staleness
// linearly, capped at two weeks since the last update.
func timeFactor(in ScoringInput) float64 {
	ageScore := math.Min(1, 1-math.Exp(-in.AgeDays/7))
	stalenessScore := math.Min(1, in.StalenessDays/14)
	return 0.2*ageScore + 0.2*stalenessScore
}

// participantFactor raises urgency when few participants are assigned
// (bottleneck risk) or when assigned participants have not engaged.
func participantFactor(in ScoringInput) float64 {
	count := in.ParticipantCount
	if count < 1 {
		count = 1
	}

	loadScore := math.Min(1, 1/math.Sqrt(float64(count)))

	engaged := float64(in.EngagedParticipantCount)
	engagementScore := 1 - math.Min(1, engaged/float64(count))

	return 0.15*loadScore + 0.15*engagementScore
}

// discussionFactor grows logarithmically with pending responses and
// linearly with total human comment volume, capped at 20 comments.
func discussionFactor(in ScoringInput) float64 {
	pendingScore := 0.0
	if in.PendingResponseCount > 0 {
		pendingScore = math.Min(1, math.Log(float64(in.PendingResponseCount)+1)/math.Log(10))
	}

	densityScore := math.Min(1, float64(in.TotalHumanCommentCount)/20)

	return 0.2*pendingScore + 0.1*densityScore
}

func applyModifiers(raw float64, state State, labels []string) float64 {
	switch state {
	case StateDraft:
		raw *= 0.5
	case StateReady:
		raw *= 1.2
	}
	raw = math.Min(1, raw)

	if hasLabel(labels, LabelUrgent) {
		raw = math.Min(1, raw*1.3)
	}
	if hasLabel(labels, LabelLowPriority) {
		raw = math.Min(1, raw*0.7)
	}

	return raw
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
