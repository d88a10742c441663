package verdict

import "time"

// Config holds the verdict generator's thresholds and toggles. The
// step-confidence constants are tunable defaults carried over from the
// original policy, not semantically derived values.
type Config struct {
	// MinConfidenceForApproval is the reasoning-confidence bar for approval.
	MinConfidenceForApproval float64
	// MinEvidenceForApproval is the evidence-count bar below which a verdict
	// is rejected outright.
	MinEvidenceForApproval int
	// RequirePrecedents emits a warning when a session carries none.
	RequirePrecedents bool
	// EnableConditionalVerdicts allows low-confidence sessions to resolve as
	// conditional instead of falling through the rejection branch.
	EnableConditionalVerdicts bool
	// MinReasoningSteps warns (never errors) when the chain is shorter.
	MinReasoningSteps int
	// SoftTimeBudget adds a warning when generation runs longer. Advisory
	// only; zero disables the check.
	SoftTimeBudget time.Duration

	// Per-step confidence defaults.
	StepConfidenceViolation float64
	StepConfidenceRule      float64
	StepConfidencePrecedent float64
	StepConfidenceEvidence  float64

	// Verdict confidence adjustments.
	PrecedentBoost   float64 // added once per cited precedent
	EvidenceBoost    float64 // flat boost at EvidenceBoostMin items
	EvidenceBoostMin int
	WaiverDamping    float64 // multiplier when a waiver request is present

	// RuleEvidenceLimit bounds the evidence subset cited by each rule step.
	RuleEvidenceLimit int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinConfidenceForApproval:  0.70,
		MinEvidenceForApproval:    2,
		RequirePrecedents:         true,
		EnableConditionalVerdicts: true,
		MinReasoningSteps:         3,
		SoftTimeBudget:            150 * time.Millisecond,
		StepConfidenceViolation:   0.90,
		StepConfidenceRule:        0.85,
		StepConfidencePrecedent:   0.80,
		StepConfidenceEvidence:    0.85,
		PrecedentBoost:            0.05,
		EvidenceBoost:             0.10,
		EvidenceBoostMin:          3,
		WaiverDamping:             0.9,
		RuleEvidenceLimit:         3,
	}
}
