// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "concord/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a SessionID where a VerdictID
// is expected.
type (
	SessionID   uuid.UUID
	VerdictID   uuid.UUID
	WaiverID    uuid.UUID
	AppealID    uuid.UUID
	PrecedentID uuid.UUID
)

// RuleID identifies a constitutional rule. Rules are owned by the external
// rule engine, which assigns free-form string identifiers.
type RuleID string

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseSessionID(s string) (SessionID, error) {
	id, err := parseUUID(s, "session ID")
	return SessionID(id), err
}

func ParseVerdictID(s string) (VerdictID, error) {
	id, err := parseUUID(s, "verdict ID")
	return VerdictID(id), err
}

func ParseWaiverID(s string) (WaiverID, error) {
	id, err := parseUUID(s, "waiver ID")
	return WaiverID(id), err
}

func ParseAppealID(s string) (AppealID, error) {
	id, err := parseUUID(s, "appeal ID")
	return AppealID(id), err
}

func ParsePrecedentID(s string) (PrecedentID, error) {
	id, err := parseUUID(s, "precedent ID")
	return PrecedentID(id), err
}

func ParseRuleID(s string) (RuleID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "rule ID cannot be empty")
	}
	return RuleID(s), nil
}

// String methods - for logging and debugging.

func (id SessionID) String() string   { return uuid.UUID(id).String() }
func (id VerdictID) String() string   { return uuid.UUID(id).String() }
func (id WaiverID) String() string    { return uuid.UUID(id).String() }
func (id AppealID) String() string    { return uuid.UUID(id).String() }
func (id PrecedentID) String() string { return uuid.UUID(id).String() }
func (id RuleID) String() string      { return string(id) }

// IsNil checks - used for service-layer validation.

func (id SessionID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id VerdictID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id WaiverID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AppealID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PrecedentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RuleID) IsNil() bool      { return id == "" }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
