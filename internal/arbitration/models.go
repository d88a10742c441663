// Package arbitration holds the shared data model for the constitutional
// arbitration core: rules, violations, sessions, verdicts, precedents,
// waivers, and appeals. Types here carry no behavior beyond invariant checks
// and lifecycle predicates; the component packages own the decision logic.
package arbitration

import (
	"time"

	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

// Severity grades how serious a rule or violation is.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// ValidSeverities is the single source of truth for severity values.
var ValidSeverities = map[Severity]bool{
	SeverityMinor:    true,
	SeverityModerate: true,
	SeverityMajor:    true,
	SeverityCritical: true,
}

// IsValid checks if the severity is one of the supported enum values.
func (s Severity) IsValid() bool { return ValidSeverities[s] }

// Rank orders severities for comparisons; higher is more severe.
// Unknown severities rank below minor.
func (s Severity) Rank() int {
	switch s {
	case SeverityMinor:
		return 1
	case SeverityModerate:
		return 2
	case SeverityMajor:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// ConstitutionalRule is immutable reference data owned by the external rule
// engine. The core reads it; it never creates or mutates rules.
type ConstitutionalRule struct {
	ID               id.RuleID
	Title            string
	Category         string
	Severity         Severity
	Waivable         bool
	RequiredEvidence string
}

// ConstitutionalViolation is produced by the rule engine when an agent action
// breaches a rule. Read-only to this core.
type ConstitutionalViolation struct {
	RuleID      id.RuleID
	Description string
	Severity    Severity
}

// RuleEvaluationResult is the rule engine's per-rule output attached to a
// session for the record.
type RuleEvaluationResult struct {
	Rule    ConstitutionalRule
	Passed  bool
	Details string
}

// SessionState tags where the orchestrator is in the session state machine.
// The core reads the tag but never advances it.
type SessionState string

const (
	SessionAssembled    SessionState = "assembled"
	SessionAdjudicating SessionState = "adjudicating"
	SessionDecided      SessionState = "decided"
)

// ArbitrationSession is assembled by the orchestrator and handed to the core
// by reference. The core reads it and returns new structures; it never
// mutates the session.
type ArbitrationSession struct {
	ID            id.SessionID
	Violation     *ConstitutionalViolation
	Rules         []ConstitutionalRule
	Evaluations   []RuleEvaluationResult
	Evidence      []string
	Precedents    []Precedent
	WaiverRequest *WaiverRequest
	State         SessionState
}

// NewSession constructs a session with the invariants the verdict generator
// later fail-fasts on. The orchestrator owns assembly; this helper exists for
// the offline CLI and tests.
func NewSession(sessionID id.SessionID, violation *ConstitutionalViolation, rules []ConstitutionalRule) (*ArbitrationSession, error) {
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidSession, "session ID required")
	}
	if violation == nil {
		return nil, dErrors.New(dErrors.CodeNoViolation, "session has no violation")
	}
	if len(rules) == 0 {
		return nil, dErrors.New(dErrors.CodeNoRules, "session has no evaluated rules")
	}
	return &ArbitrationSession{
		ID:        sessionID,
		Violation: violation,
		Rules:     rules,
		State:     SessionAssembled,
	}, nil
}

// Clamp01 bounds a score to [0, 1]. Confidence math across all components
// flows through this so the bound holds everywhere.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// nowOrDefault guards against zero timestamps sneaking into records.
func nowOrDefault(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
