// Package dto holds the wire representations of the arbitration data model
// shared by the verdict, precedent, and appeal handlers. Handlers own their
// endpoint-specific request and response envelopes; the shapes here are the
// common currency those envelopes are built from.
package dto

import (
	"time"

	"concord/internal/arbitration"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

// Rule mirrors arbitration.ConstitutionalRule on the wire.
type Rule struct {
	ID               string `json:"id"`
	Title            string `json:"title,omitempty"`
	Category         string `json:"category,omitempty"`
	Severity         string `json:"severity"`
	Waivable         bool   `json:"waivable"`
	RequiredEvidence string `json:"required_evidence,omitempty"`
}

// Violation mirrors arbitration.ConstitutionalViolation on the wire.
type Violation struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// Evaluation mirrors arbitration.RuleEvaluationResult on the wire.
type Evaluation struct {
	Rule    Rule   `json:"rule"`
	Passed  bool   `json:"passed"`
	Details string `json:"details,omitempty"`
}

// WaiverRequest mirrors arbitration.WaiverRequest on the wire. Durations use
// Go duration syntax ("72h", "30m").
type WaiverRequest struct {
	ID            string   `json:"id"`
	RuleID        string   `json:"rule_id"`
	Justification string   `json:"justification"`
	Evidence      []string `json:"evidence,omitempty"`
	RequestedFor  string   `json:"requested_for"`
}

// Session is the request shape for an assembled arbitration session. The
// orchestrator posts it by value; the core never stores it. A pending waiver
// request rides on the session so verdict generation can short-circuit to
// the waived outcome.
type Session struct {
	ID            string         `json:"id"`
	Violation     *Violation     `json:"violation"`
	Rules         []Rule         `json:"rules"`
	Evaluations   []Evaluation   `json:"evaluations,omitempty"`
	Evidence      []string       `json:"evidence,omitempty"`
	Precedents    []Precedent    `json:"precedents,omitempty"`
	WaiverRequest *WaiverRequest `json:"waiver_request,omitempty"`
}

// Applicability mirrors arbitration.Applicability on the wire.
type Applicability struct {
	Category   string   `json:"category,omitempty"`
	Severity   string   `json:"severity,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
}

// PrecedentSummary mirrors arbitration.PrecedentSummary on the wire.
type PrecedentSummary struct {
	Reasoning string   `json:"reasoning,omitempty"`
	RuleIDs   []string `json:"rule_ids,omitempty"`
}

// Precedent mirrors arbitration.Precedent on the wire.
type Precedent struct {
	ID            string               `json:"id"`
	Title         string               `json:"title,omitempty"`
	KeyFacts      []string             `json:"key_facts,omitempty"`
	Applicability Applicability        `json:"applicability"`
	Summary       PrecedentSummary     `json:"summary"`
	Metadata      arbitration.Metadata `json:"metadata,omitempty"`
}

// ReasoningStep mirrors arbitration.ReasoningStep on the wire.
type ReasoningStep struct {
	Index        int      `json:"index"`
	Description  string   `json:"description"`
	EvidenceRefs []string `json:"evidence_refs,omitempty"`
	RuleRefs     []string `json:"rule_refs,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// AuditEntry mirrors arbitration.AuditEntry on the wire.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Details   string    `json:"details,omitempty"`
	Hash      string    `json:"hash"`
}

// Verdict mirrors arbitration.Verdict on the wire. It appears both as a
// response (verdict generation, appeal replacement) and as a request field
// (the orchestrator replays the original verdict when submitting or
// reviewing an appeal).
type Verdict struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"session_id"`
	Outcome         string          `json:"outcome"`
	Chain           []ReasoningStep `json:"chain,omitempty"`
	RulesApplied    []string        `json:"rules_applied,omitempty"`
	EvidenceUsed    []string        `json:"evidence_used,omitempty"`
	PrecedentsCited []string        `json:"precedents_cited,omitempty"`
	Conditions      []string        `json:"conditions,omitempty"`
	Confidence      float64         `json:"confidence"`
	IssuedBy        string          `json:"issued_by"`
	IssuedAt        time.Time       `json:"issued_at"`
	Audit           []AuditEntry    `json:"audit,omitempty"`
}

// RuleFromDTO converts a wire rule into the domain type.
func RuleFromDTO(d Rule) (arbitration.ConstitutionalRule, error) {
	ruleID, err := id.ParseRuleID(d.ID)
	if err != nil {
		return arbitration.ConstitutionalRule{}, err
	}
	severity := arbitration.Severity(d.Severity)
	if !severity.IsValid() {
		return arbitration.ConstitutionalRule{}, dErrors.New(dErrors.CodeBadRequest, "invalid rule severity: "+d.Severity)
	}
	return arbitration.ConstitutionalRule{
		ID:               ruleID,
		Title:            d.Title,
		Category:         d.Category,
		Severity:         severity,
		Waivable:         d.Waivable,
		RequiredEvidence: d.RequiredEvidence,
	}, nil
}

// SessionFromDTO converts a wire session into the domain type. Structural
// invariants (missing violation, empty rules) are deferred to the verdict
// generator so its error codes stay authoritative.
func SessionFromDTO(d Session) (*arbitration.ArbitrationSession, error) {
	sessionID, err := id.ParseSessionID(d.ID)
	if err != nil {
		return nil, err
	}

	session := &arbitration.ArbitrationSession{
		ID:       sessionID,
		Evidence: d.Evidence,
		State:    arbitration.SessionAssembled,
	}

	if d.Violation != nil {
		violationRule, err := id.ParseRuleID(d.Violation.RuleID)
		if err != nil {
			return nil, err
		}
		severity := arbitration.Severity(d.Violation.Severity)
		if !severity.IsValid() {
			return nil, dErrors.New(dErrors.CodeBadRequest, "invalid violation severity: "+d.Violation.Severity)
		}
		session.Violation = &arbitration.ConstitutionalViolation{
			RuleID:      violationRule,
			Description: d.Violation.Description,
			Severity:    severity,
		}
	}

	if d.WaiverRequest != nil {
		waiverReq, err := WaiverRequestFromDTO(*d.WaiverRequest)
		if err != nil {
			return nil, err
		}
		session.WaiverRequest = waiverReq
	}

	for _, r := range d.Rules {
		rule, err := RuleFromDTO(r)
		if err != nil {
			return nil, err
		}
		session.Rules = append(session.Rules, rule)
	}

	for _, e := range d.Evaluations {
		rule, err := RuleFromDTO(e.Rule)
		if err != nil {
			return nil, err
		}
		session.Evaluations = append(session.Evaluations, arbitration.RuleEvaluationResult{
			Rule:    rule,
			Passed:  e.Passed,
			Details: e.Details,
		})
	}

	for _, p := range d.Precedents {
		precedent, err := PrecedentFromDTO(p)
		if err != nil {
			return nil, err
		}
		session.Precedents = append(session.Precedents, precedent)
	}

	return session, nil
}

// WaiverRequestFromDTO converts a wire waiver request into the domain type.
func WaiverRequestFromDTO(d WaiverRequest) (*arbitration.WaiverRequest, error) {
	waiverID, err := id.ParseWaiverID(d.ID)
	if err != nil {
		return nil, err
	}
	ruleID, err := id.ParseRuleID(d.RuleID)
	if err != nil {
		return nil, err
	}
	if d.RequestedFor == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "duration required")
	}
	requestedFor, err := time.ParseDuration(d.RequestedFor)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid duration: "+d.RequestedFor)
	}
	return &arbitration.WaiverRequest{
		ID:            waiverID,
		RuleID:        ruleID,
		Justification: d.Justification,
		Evidence:      d.Evidence,
		RequestedFor:  requestedFor,
	}, nil
}

// PrecedentFromDTO converts a wire precedent into the domain type.
func PrecedentFromDTO(d Precedent) (arbitration.Precedent, error) {
	precedentID, err := id.ParsePrecedentID(d.ID)
	if err != nil {
		return arbitration.Precedent{}, err
	}
	ruleIDs, err := parseRuleIDs(d.Summary.RuleIDs)
	if err != nil {
		return arbitration.Precedent{}, err
	}
	return arbitration.Precedent{
		ID:       precedentID,
		Title:    d.Title,
		KeyFacts: d.KeyFacts,
		Applicability: arbitration.Applicability{
			Category:   d.Applicability.Category,
			Severity:   arbitration.Severity(d.Applicability.Severity),
			Conditions: d.Applicability.Conditions,
		},
		Summary: arbitration.PrecedentSummary{
			Reasoning: d.Summary.Reasoning,
			RuleIDs:   ruleIDs,
		},
		Metadata: d.Metadata,
	}, nil
}

// PrecedentToDTO converts a domain precedent to its wire shape.
func PrecedentToDTO(p arbitration.Precedent) Precedent {
	return Precedent{
		ID:       p.ID.String(),
		Title:    p.Title,
		KeyFacts: p.KeyFacts,
		Applicability: Applicability{
			Category:   p.Applicability.Category,
			Severity:   string(p.Applicability.Severity),
			Conditions: p.Applicability.Conditions,
		},
		Summary: PrecedentSummary{
			Reasoning: p.Summary.Reasoning,
			RuleIDs:   formatRuleIDs(p.Summary.RuleIDs),
		},
		Metadata: p.Metadata,
	}
}

// VerdictFromDTO converts a wire verdict into the domain type.
func VerdictFromDTO(d Verdict) (*arbitration.Verdict, error) {
	verdictID, err := id.ParseVerdictID(d.ID)
	if err != nil {
		return nil, err
	}
	sessionID, err := id.ParseSessionID(d.SessionID)
	if err != nil {
		return nil, err
	}
	outcome := arbitration.Outcome(d.Outcome)
	if !outcome.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidVerdict, "invalid verdict outcome: "+d.Outcome)
	}
	rulesApplied, err := parseRuleIDs(d.RulesApplied)
	if err != nil {
		return nil, err
	}

	verdict := &arbitration.Verdict{
		ID:           verdictID,
		SessionID:    sessionID,
		Outcome:      outcome,
		RulesApplied: rulesApplied,
		EvidenceUsed: d.EvidenceUsed,
		Conditions:   d.Conditions,
		Confidence:   d.Confidence,
		IssuedBy:     d.IssuedBy,
		IssuedAt:     d.IssuedAt,
	}

	for _, c := range d.PrecedentsCited {
		cited, err := id.ParsePrecedentID(c)
		if err != nil {
			return nil, err
		}
		verdict.PrecedentsCited = append(verdict.PrecedentsCited, cited)
	}

	for _, step := range d.Chain {
		ruleRefs, err := parseRuleIDs(step.RuleRefs)
		if err != nil {
			return nil, err
		}
		verdict.Chain = append(verdict.Chain, arbitration.ReasoningStep{
			Index:        step.Index,
			Description:  step.Description,
			EvidenceRefs: step.EvidenceRefs,
			RuleRefs:     ruleRefs,
			Confidence:   step.Confidence,
		})
	}

	for _, e := range d.Audit {
		verdict.Audit = append(verdict.Audit, arbitration.AuditEntry{
			Timestamp: e.Timestamp,
			Action:    e.Action,
			Actor:     e.Actor,
			Details:   e.Details,
			Hash:      e.Hash,
		})
	}

	return verdict, nil
}

// VerdictToDTO converts a domain verdict to its wire shape.
func VerdictToDTO(v *arbitration.Verdict) Verdict {
	d := Verdict{
		ID:           v.ID.String(),
		SessionID:    v.SessionID.String(),
		Outcome:      string(v.Outcome),
		RulesApplied: formatRuleIDs(v.RulesApplied),
		EvidenceUsed: v.EvidenceUsed,
		Conditions:   v.Conditions,
		Confidence:   v.Confidence,
		IssuedBy:     v.IssuedBy,
		IssuedAt:     v.IssuedAt,
	}

	for _, c := range v.PrecedentsCited {
		d.PrecedentsCited = append(d.PrecedentsCited, c.String())
	}

	for _, step := range v.Chain {
		d.Chain = append(d.Chain, ReasoningStep{
			Index:        step.Index,
			Description:  step.Description,
			EvidenceRefs: step.EvidenceRefs,
			RuleRefs:     formatRuleIDs(step.RuleRefs),
			Confidence:   step.Confidence,
		})
	}

	for _, e := range v.Audit {
		d.Audit = append(d.Audit, AuditEntry{
			Timestamp: e.Timestamp,
			Action:    e.Action,
			Actor:     e.Actor,
			Details:   e.Details,
			Hash:      e.Hash,
		})
	}

	return d
}

func parseRuleIDs(raw []string) ([]id.RuleID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]id.RuleID, 0, len(raw))
	for _, r := range raw {
		ruleID, err := id.ParseRuleID(r)
		if err != nil {
			return nil, err
		}
		out = append(out, ruleID)
	}
	return out, nil
}

func formatRuleIDs(ids []id.RuleID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, r := range ids {
		out = append(out, r.String())
	}
	return out
}
