package arbitration

import (
	"time"

	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

// AppealStatus enumerates appeal lifecycle states.
//
// Lifecycle: submitted → under_review → {upheld | overturned}; a decided
// appeal may re-enter submitted at level+1 until the configured maximum.
// finalized is terminal and forbids further transitions.
type AppealStatus string

const (
	AppealSubmitted   AppealStatus = "submitted"
	AppealUnderReview AppealStatus = "under_review"
	AppealUpheld      AppealStatus = "upheld"
	AppealOverturned  AppealStatus = "overturned"
	AppealFinalized   AppealStatus = "finalized"
)

// ValidAppealStatuses is the single source of truth for appeal states.
var ValidAppealStatuses = map[AppealStatus]bool{
	AppealSubmitted:   true,
	AppealUnderReview: true,
	AppealUpheld:      true,
	AppealOverturned:  true,
	AppealFinalized:   true,
}

// IsValid checks if the status is one of the supported enum values.
func (s AppealStatus) IsValid() bool { return ValidAppealStatuses[s] }

// IsDecided reports whether a review has concluded at the current level.
func (s AppealStatus) IsDecided() bool {
	return s == AppealUpheld || s == AppealOverturned
}

// Appeal challenges a previously issued verdict.
type Appeal struct {
	ID          id.AppealID
	SessionID   id.SessionID
	VerdictID   id.VerdictID
	Appellant   string
	Grounds     string
	NewEvidence []string
	Status      AppealStatus
	Level       int
	SubmittedAt time.Time
	Reviewers   []string
	ReviewedAt  *time.Time
	Metadata    Metadata
}

// NewAppeal constructs a level-1 submitted appeal with invariant checks.
// Grounds-length and evidence-count policy live in the appeal service; this
// constructor only guards structural invariants.
func NewAppeal(appealID id.AppealID, sessionID id.SessionID, verdictID id.VerdictID, appellant string, submittedAt time.Time) (*Appeal, error) {
	if appealID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "appeal ID required")
	}
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidSession, "session ID required")
	}
	if verdictID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidVerdict, "original verdict has no ID")
	}
	if appellant == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "appellant identity required")
	}
	return &Appeal{
		ID:          appealID,
		SessionID:   sessionID,
		VerdictID:   verdictID,
		Appellant:   appellant,
		Status:      AppealSubmitted,
		Level:       1,
		SubmittedAt: nowOrDefault(submittedAt),
		Metadata:    Metadata{},
	}, nil
}

// AppealOutcome is the per-review decision.
type AppealOutcome string

const (
	AppealDecisionUpheld     AppealOutcome = "upheld"
	AppealDecisionOverturned AppealOutcome = "overturned"
)

// AppealDecision is one review cycle's outcome. Re-escalation produces a new
// decision on the next review.
type AppealDecision struct {
	AppealID    id.AppealID
	Outcome     AppealOutcome
	Replacement *Verdict // present iff overturned
	Reasoning   string
	Reviewers   []string
	DecidedAt   time.Time
	Confidence  float64
}
