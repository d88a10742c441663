package handler

import (
	"time"

	"concord/internal/arbitration"
)

// DecisionResponse is the wire shape of a waiver decision.
type DecisionResponse struct {
	RequestID    string     `json:"request_id"`
	RuleID       string     `json:"rule_id"`
	Status       string     `json:"status"`
	Reasoning    string     `json:"reasoning,omitempty"`
	DecidedBy    string     `json:"decided_by"`
	DecidedAt    time.Time  `json:"decided_at"`
	ApprovedFor  string     `json:"approved_for,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Conditions   []string   `json:"conditions,omitempty"`
	AutoRevokeAt *time.Time `json:"auto_revoke_at,omitempty"`
	Active       bool       `json:"active"`
}

// decisionResponse folds lifecycle state into the view: Status reflects
// expiry at the response time without mutating the record.
func decisionResponse(d *arbitration.WaiverDecision, now time.Time) *DecisionResponse {
	res := &DecisionResponse{
		RequestID:    d.RequestID.String(),
		RuleID:       d.RuleID.String(),
		Status:       string(d.ComputeStatus(now)),
		Reasoning:    d.Reasoning,
		DecidedBy:    d.DecidedBy,
		DecidedAt:    d.DecidedAt,
		ExpiresAt:    d.ExpiresAt,
		Conditions:   d.Conditions,
		AutoRevokeAt: d.AutoRevokeAt,
		Active:       d.IsActive(now),
	}
	if d.ApprovedFor > 0 {
		res.ApprovedFor = d.ApprovedFor.String()
	}
	return res
}
