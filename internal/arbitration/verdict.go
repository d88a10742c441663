package arbitration

import (
	"strconv"
	"strings"
	"time"

	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
	"concord/pkg/integrity"
)

// Outcome enumerates verdict outcomes.
type Outcome string

const (
	OutcomeApproved    Outcome = "approved"
	OutcomeRejected    Outcome = "rejected"
	OutcomeConditional Outcome = "conditional"
	OutcomeWaived      Outcome = "waived"
)

// ValidOutcomes is the single source of truth for outcome values.
var ValidOutcomes = map[Outcome]bool{
	OutcomeApproved:    true,
	OutcomeRejected:    true,
	OutcomeConditional: true,
	OutcomeWaived:      true,
}

// IsValid checks if the outcome is one of the supported enum values.
func (o Outcome) IsValid() bool { return ValidOutcomes[o] }

// ReasoningStep is one link in a verdict's reasoning chain. Steps are
// append-only; Index is 1-based and strictly increasing within a chain.
type ReasoningStep struct {
	Index        int
	Description  string
	EvidenceRefs []string
	RuleRefs     []id.RuleID
	Confidence   float64
}

// AuditEntry records one action taken on a verdict. Entries chain on the
// previous entry's hash for tamper evidence.
type AuditEntry struct {
	Timestamp time.Time
	Action    string
	Actor     string
	Details   string
	Hash      string
}

// Verdict is the decision record for one arbitration session. Immutable once
// returned except for audit-log appends.
type Verdict struct {
	ID              id.VerdictID
	SessionID       id.SessionID
	Outcome         Outcome
	Chain           []ReasoningStep
	RulesApplied    []id.RuleID
	EvidenceUsed    []string
	PrecedentsCited []id.PrecedentID
	Conditions      []string
	Confidence      float64
	IssuedBy        string
	IssuedAt        time.Time
	Audit           []AuditEntry
}

// MeanChainConfidence averages the reasoning-step confidences. Zero-length
// chains report zero.
func (v *Verdict) MeanChainConfidence() float64 {
	if len(v.Chain) == 0 {
		return 0
	}
	var sum float64
	for _, step := range v.Chain {
		sum += step.Confidence
	}
	return sum / float64(len(v.Chain))
}

// AppendAudit adds one entry to the verdict's audit log, chaining its hash on
// the previous entry. The only mutation permitted on an issued verdict.
func (v *Verdict) AppendAudit(ts time.Time, action, actor, details string) error {
	if action == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "audit action required")
	}
	prev := ""
	if n := len(v.Audit); n > 0 {
		prev = v.Audit[n-1].Hash
	}
	// Hash exactly what gets stored, or verification breaks on zero inputs.
	stamped := nowOrDefault(ts)
	hash, err := integrity.ChainEntry(prev, stamped, action, actor, details)
	if err != nil {
		return err
	}
	v.Audit = append(v.Audit, AuditEntry{
		Timestamp: stamped,
		Action:    action,
		Actor:     actor,
		Details:   details,
		Hash:      hash,
	})
	return nil
}

// VerifyAudit recomputes the audit hash chain; returns the first tampered
// index or -1 when intact.
func (v *Verdict) VerifyAudit() (int, error) {
	entries := make([]integrity.ChainedEntry, len(v.Audit))
	for i, e := range v.Audit {
		entries[i] = integrity.ChainedEntry{
			Timestamp: e.Timestamp,
			Action:    e.Action,
			Actor:     e.Actor,
			Details:   e.Details,
			Hash:      e.Hash,
		}
	}
	return integrity.VerifyChain(entries)
}

// Digest hashes the verdict's immutable fields. Audit entries are excluded;
// they carry their own chain.
func (v *Verdict) Digest() (string, error) {
	fields := []string{
		v.ID.String(),
		v.SessionID.String(),
		string(v.Outcome),
		strconv.FormatFloat(v.Confidence, 'f', -1, 64),
		v.IssuedBy,
		v.IssuedAt.UTC().Format(time.RFC3339Nano),
		strings.Join(v.EvidenceUsed, "\x1f"),
		strings.Join(v.Conditions, "\x1f"),
	}
	for _, r := range v.RulesApplied {
		fields = append(fields, r.String())
	}
	for _, p := range v.PrecedentsCited {
		fields = append(fields, p.String())
	}
	for _, step := range v.Chain {
		fields = append(fields,
			strconv.Itoa(step.Index),
			step.Description,
			strconv.FormatFloat(step.Confidence, 'f', -1, 64),
		)
	}
	return integrity.Digest(fields...)
}

// Clone returns a deep copy. Appeal overturns copy the original verdict before
// synthesizing a replacement, so the issued record stays untouched.
func (v *Verdict) Clone() *Verdict {
	if v == nil {
		return nil
	}
	out := *v
	out.Chain = append([]ReasoningStep(nil), v.Chain...)
	for i, step := range out.Chain {
		out.Chain[i].EvidenceRefs = append([]string(nil), step.EvidenceRefs...)
		out.Chain[i].RuleRefs = append([]id.RuleID(nil), step.RuleRefs...)
	}
	out.RulesApplied = append([]id.RuleID(nil), v.RulesApplied...)
	out.EvidenceUsed = append([]string(nil), v.EvidenceUsed...)
	out.PrecedentsCited = append([]id.PrecedentID(nil), v.PrecedentsCited...)
	out.Conditions = append([]string(nil), v.Conditions...)
	out.Audit = append([]AuditEntry(nil), v.Audit...)
	return &out
}
