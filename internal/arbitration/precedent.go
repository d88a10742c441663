package arbitration

import (
	"encoding/json"

	id "concord/pkg/domain"
)

// Metadata is an opaque, serialization-preserving key/value document. The
// orchestrator layer that understands the specific domain schema validates
// it; this core only carries it through.
type Metadata map[string]json.RawMessage

// Applicability describes the situations a precedent speaks to.
type Applicability struct {
	Category   string
	Severity   Severity
	Conditions []string
}

// PrecedentSummary embeds the prior verdict's reasoning for matching.
type PrecedentSummary struct {
	Reasoning string
	RuleIDs   []id.RuleID
}

// Precedent is a previously decided case sourced from an external precedent
// store. The core only scores and ranks precedents; it never writes them.
type Precedent struct {
	ID            id.PrecedentID
	Title         string
	KeyFacts      []string
	Applicability Applicability
	Summary       PrecedentSummary
	Metadata      Metadata
}
