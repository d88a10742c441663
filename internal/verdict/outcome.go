package verdict

import (
	"fmt"

	"concord/internal/arbitration"
)

// determineOutcome applies the outcome precedence chain.
// Precedence (fail-fast):
//  1. Waiver request present → waived, unconditionally.
//  2. Low reasoning confidence with conditional verdicts enabled → conditional.
//  3. Critical severity or evidence shortfall → rejected.
//  4. Confidence and evidence bars met → approved.
//  5. Default → conditional.
func determineOutcome(cfg Config, session *arbitration.ArbitrationSession, reasoningConfidence float64) arbitration.Outcome {
	// Rule 1: a waiver request short-circuits everything else.
	if session.WaiverRequest != nil {
		return arbitration.OutcomeWaived
	}

	// Rule 2: low confidence resolves conditionally when allowed.
	if cfg.EnableConditionalVerdicts && reasoningConfidence < cfg.MinConfidenceForApproval {
		return arbitration.OutcomeConditional
	}

	// Rule 3: critical violations and thin evidence reject outright.
	if session.Violation.Severity == arbitration.SeverityCritical || len(session.Evidence) < cfg.MinEvidenceForApproval {
		return arbitration.OutcomeRejected
	}

	// Rule 4: both bars met.
	if reasoningConfidence >= cfg.MinConfidenceForApproval && len(session.Evidence) >= cfg.MinEvidenceForApproval {
		return arbitration.OutcomeApproved
	}

	return arbitration.OutcomeConditional
}

// verdictConfidence computes the verdict-level confidence, distinct from the
// per-step reasoning confidence: mean step confidence, boosted by precedent
// and evidence weight, damped when a waiver request is in play, clamped to
// [0, 1].
func verdictConfidence(cfg Config, session *arbitration.ArbitrationSession, reasoningConfidence float64) float64 {
	confidence := reasoningConfidence
	confidence += cfg.PrecedentBoost * float64(len(session.Precedents))
	if len(session.Evidence) >= cfg.EvidenceBoostMin {
		confidence += cfg.EvidenceBoost
	}
	if session.WaiverRequest != nil {
		confidence *= cfg.WaiverDamping
	}
	return arbitration.Clamp01(confidence)
}

// Remediation windows for conditional verdicts.
const (
	majorRemediationWindow    = "48h"
	moderateRemediationWindow = "168h" // one week
)

// synthesizeConditions builds the condition list for a conditional verdict.
func synthesizeConditions(cfg Config, session *arbitration.ArbitrationSession) []string {
	var conditions []string

	switch session.Violation.Severity {
	case arbitration.SeverityMajor:
		conditions = append(conditions,
			fmt.Sprintf("remediate within %s of issuance", majorRemediationWindow),
			"submit remediation evidence for re-review",
		)
	case arbitration.SeverityModerate:
		conditions = append(conditions,
			fmt.Sprintf("remediate within %s of issuance", moderateRemediationWindow),
		)
	}

	if len(session.Evidence) < cfg.MinEvidenceForApproval {
		conditions = append(conditions,
			fmt.Sprintf("insufficient evidence: %d item(s) provided, %d required", len(session.Evidence), cfg.MinEvidenceForApproval),
		)
	}

	for _, rule := range session.Rules {
		if rule.Waivable {
			conditions = append(conditions,
				fmt.Sprintf("a waiver may be requested for rule %s", rule.ID),
			)
		}
	}

	return conditions
}
