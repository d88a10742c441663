package audit

import (
	"time"

	id "concord/pkg/domain"
)

// Event is emitted from domain logic to capture key arbitration actions. Keep
// it transport-agnostic so the orchestrator's sinks can fan out.
type Event struct {
	Timestamp time.Time
	SessionID id.SessionID
	Subject   string // verdict/waiver/appeal identifier the event concerns
	Action    string
	Actor     string // issuer, decider, or appellant identity
	Decision  string
	Reason    string
	RequestID string // correlation ID from HTTP request context, when present
}

type AuditEvent string

const (
	EventVerdictGenerated AuditEvent = "verdict_generated"
	EventWaiverGranted    AuditEvent = "waiver_granted"
	EventWaiverDenied     AuditEvent = "waiver_denied"
	EventWaiverRevoked    AuditEvent = "waiver_revoked"
	EventWaiverExtended   AuditEvent = "waiver_extended"
	EventWaiverExpired    AuditEvent = "waiver_expired"
	EventAppealSubmitted  AuditEvent = "appeal_submitted"
	EventAppealDecided    AuditEvent = "appeal_decided"
	EventAppealEscalated  AuditEvent = "appeal_escalated"
	EventAppealFinalized  AuditEvent = "appeal_finalized"
)

// String returns the event name for use as an Event.Action.
func (e AuditEvent) String() string { return string(e) }
