package appeal

import (
	"strings"

	"concord/internal/arbitration"
)

// Review scoring. Two factors feed the overturn decision: how much genuinely
// new evidence the appeal brings, and how substantive its grounds are.

const (
	nonNovelEvidenceScore = 0.2
	evidenceScoreFloor    = 0.5

	groundsBaseline       = 0.3
	keywordBoostPerHit    = 0.2
	keywordBoostCap       = 0.4
	lengthBoostCap        = 0.3
	groundsLengthSaturate = 500.0 // runes at which the length boost maxes out

	overturnThresholdDefault   = 0.6
	overturnThresholdUnanimous = 0.8

	reviewerConfidenceCap = 0.2
)

// substantiveKeywords mark grounds that allege a concrete defect in the
// original verdict rather than mere disagreement.
var substantiveKeywords = []string{
	"error", "incorrect", "overlooked", "misapplied",
	"unjust", "unfair", "bias", "procedural",
}

// evidenceScore rates the appeal's new evidence for novelty against the
// original verdict's evidence set. No evidence scores zero; evidence that is
// all recycled scores a flat penalty; otherwise the score follows the
// proportion of genuinely new items, floored and capped.
func evidenceScore(newEvidence, originalEvidence []string) float64 {
	if len(newEvidence) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(originalEvidence))
	for _, item := range originalEvidence {
		seen[normalizeEvidence(item)] = true
	}
	novel := 0
	for _, item := range newEvidence {
		if !seen[normalizeEvidence(item)] {
			novel++
		}
	}
	if novel == 0 {
		return nonNovelEvidenceScore
	}

	ratio := float64(novel) / float64(len(newEvidence))
	if ratio < evidenceScoreFloor {
		ratio = evidenceScoreFloor
	}
	return arbitration.Clamp01(ratio)
}

func normalizeEvidence(item string) string {
	return strings.ToLower(strings.TrimSpace(item))
}

// groundsScore rates the grounds text: a flat baseline, raised per distinct
// substantive keyword, raised further for longer, more detailed grounds.
func groundsScore(grounds string) float64 {
	score := groundsBaseline

	lowered := strings.ToLower(grounds)
	boost := 0.0
	for _, kw := range substantiveKeywords {
		if strings.Contains(lowered, kw) {
			boost += keywordBoostPerHit
		}
	}
	if boost > keywordBoostCap {
		boost = keywordBoostCap
	}
	score += boost

	if boost > 0 {
		lengthRatio := float64(len([]rune(grounds))) / groundsLengthSaturate
		if lengthRatio > 1 {
			lengthRatio = 1
		}
		score += lengthRatio * lengthBoostCap
	}

	return arbitration.Clamp01(score)
}

// overturnThreshold returns the overall score an appeal must strictly exceed.
func (s *Service) overturnThreshold() float64 {
	if s.cfg.RequireUnanimous {
		return overturnThresholdUnanimous
	}
	return overturnThresholdDefault
}

// decisionConfidence grows with reviewer count on top of the overall score.
func decisionConfidence(overall float64, reviewerCount int) float64 {
	boost := float64(reviewerCount) / 5
	if boost > reviewerConfidenceCap {
		boost = reviewerConfidenceCap
	}
	return arbitration.Clamp01(overall + boost)
}

// flipOutcome maps an overturned verdict's outcome to its replacement.
// Approvals tighten to conditional; everything else relaxes or converts to
// conditional. The mapping is total over valid outcomes.
func flipOutcome(o arbitration.Outcome) arbitration.Outcome {
	switch o {
	case arbitration.OutcomeApproved:
		return arbitration.OutcomeConditional
	case arbitration.OutcomeConditional:
		return arbitration.OutcomeApproved
	case arbitration.OutcomeRejected:
		return arbitration.OutcomeConditional
	case arbitration.OutcomeWaived:
		return arbitration.OutcomeConditional
	default:
		return arbitration.OutcomeConditional
	}
}
