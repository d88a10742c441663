package arbitration

import (
	"time"

	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

// WaiverRequest asks for a time-bounded exemption from one rule. Created
// externally, evaluated by the waiver interpreter.
type WaiverRequest struct {
	ID            id.WaiverID
	RuleID        id.RuleID
	Justification string
	Evidence      []string
	RequestedFor  time.Duration
}

// WaiverStatus enumerates waiver decision states. Revoked is terminal.
type WaiverStatus string

const (
	WaiverApproved WaiverStatus = "approved"
	WaiverRejected WaiverStatus = "rejected"
	WaiverRevoked  WaiverStatus = "revoked"
)

// IsValid checks if the status is one of the supported enum values.
func (s WaiverStatus) IsValid() bool {
	return s == WaiverApproved || s == WaiverRejected || s == WaiverRevoked
}

// WaiverDecision records the outcome of evaluating a waiver request.
//
// # Exclusivity Invariant
//
// At most one approved-and-unexpired decision may exist per rule id at any
// time. The registry enforces this under a per-rule lock; stores must not be
// written around it.
type WaiverDecision struct {
	RequestID id.WaiverID
	RuleID    id.RuleID
	Status    WaiverStatus
	Reasoning string
	DecidedBy string
	DecidedAt time.Time

	// Approved-only fields.
	ApprovedFor  time.Duration
	ExpiresAt    *time.Time
	Conditions   []string
	AutoRevokeAt *time.Time
}

// NewWaiverDecision constructs a decision with domain invariant checks.
func NewWaiverDecision(requestID id.WaiverID, ruleID id.RuleID, status WaiverStatus, deciderID string, decidedAt time.Time) (*WaiverDecision, error) {
	if requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "waiver request ID required")
	}
	if ruleID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "rule ID required")
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid waiver status")
	}
	if deciderID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "decider identity required")
	}
	return &WaiverDecision{
		RequestID: requestID,
		RuleID:    ruleID,
		Status:    status,
		DecidedBy: deciderID,
		DecidedAt: nowOrDefault(decidedAt),
	}, nil
}

// IsActive reports whether the waiver currently exempts its rule.
func (w WaiverDecision) IsActive(now time.Time) bool {
	if w.Status != WaiverApproved {
		return false
	}
	if w.ExpiresAt != nil && w.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// IsExpired reports whether an approved waiver's window has passed.
func (w WaiverDecision) IsExpired(now time.Time) bool {
	return w.Status == WaiverApproved && w.ExpiresAt != nil && w.ExpiresAt.Before(now)
}

// ComputeStatus reports the lifecycle state at the provided time, folding
// expiry into the view without mutating the record.
func (w WaiverDecision) ComputeStatus(now time.Time) WaiverStatus {
	if w.Status == WaiverApproved && w.IsExpired(now) {
		return WaiverRevoked
	}
	return w.Status
}
