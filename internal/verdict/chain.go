package verdict

import (
	"fmt"

	"concord/internal/arbitration"
	id "concord/pkg/domain"
)

// buildChain constructs the ordered reasoning chain for a session. Pure
// function: no I/O, no side effects. Step indices are 1-based and strictly
// increasing.
//
// Chain order:
//  1. Violation assessment citing all evidence and the violated rule.
//  2. One step per evaluated rule, citing a bounded evidence subset.
//  3. One step per attached precedent, citing the precedent's rule ids.
//  4. Evidence evaluation when evidence is non-empty.
//  5. Final assessment whose confidence is the mean of all prior steps.
func buildChain(cfg Config, session *arbitration.ArbitrationSession) []arbitration.ReasoningStep {
	chain := make([]arbitration.ReasoningStep, 0, len(session.Rules)+len(session.Precedents)+3)

	chain = append(chain, arbitration.ReasoningStep{
		Index: 1,
		Description: fmt.Sprintf("Assessed violation of rule %s: %s (severity %s)",
			session.Violation.RuleID, session.Violation.Description, session.Violation.Severity),
		EvidenceRefs: append([]string(nil), session.Evidence...),
		RuleRefs:     []id.RuleID{session.Violation.RuleID},
		Confidence:   cfg.StepConfidenceViolation,
	})

	for _, rule := range session.Rules {
		chain = append(chain, arbitration.ReasoningStep{
			Index:        len(chain) + 1,
			Description:  fmt.Sprintf("Applied rule %s (%s, severity %s)", rule.ID, rule.Title, rule.Severity),
			EvidenceRefs: evidenceSubset(session.Evidence, cfg.RuleEvidenceLimit),
			RuleRefs:     []id.RuleID{rule.ID},
			Confidence:   cfg.StepConfidenceRule,
		})
	}

	for _, p := range session.Precedents {
		chain = append(chain, arbitration.ReasoningStep{
			Index:       len(chain) + 1,
			Description: fmt.Sprintf("Considered precedent %s: %s", p.ID, p.Title),
			RuleRefs:    append([]id.RuleID(nil), p.Summary.RuleIDs...),
			Confidence:  cfg.StepConfidencePrecedent,
		})
	}

	if len(session.Evidence) > 0 {
		chain = append(chain, arbitration.ReasoningStep{
			Index:        len(chain) + 1,
			Description:  fmt.Sprintf("Evaluated %d evidence item(s) supporting the assessment", len(session.Evidence)),
			EvidenceRefs: append([]string(nil), session.Evidence...),
			Confidence:   cfg.StepConfidenceEvidence,
		})
	}

	chain = append(chain, arbitration.ReasoningStep{
		Index:       len(chain) + 1,
		Description: "Final assessment across violation, rules, precedents, and evidence",
		Confidence:  meanConfidence(chain),
	})

	return chain
}

// evidenceSubset bounds the evidence list cited by a single rule step.
func evidenceSubset(evidence []string, limit int) []string {
	if limit <= 0 || len(evidence) <= limit {
		return append([]string(nil), evidence...)
	}
	return append([]string(nil), evidence[:limit]...)
}

// meanConfidence averages step confidences; zero for an empty chain.
func meanConfidence(steps []arbitration.ReasoningStep) float64 {
	if len(steps) == 0 {
		return 0
	}
	var sum float64
	for _, s := range steps {
		sum += s.Confidence
	}
	return sum / float64(len(steps))
}
