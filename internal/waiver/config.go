package waiver

import "time"

// Config holds the waiver interpreter's durations and policy toggles.
type Config struct {
	// DefaultDuration is granted when the request asks for nothing specific
	// or asks for more than policy allows on elevated-severity rules.
	DefaultDuration time.Duration

	// MaxDuration caps any single waiver, including extensions.
	MaxDuration time.Duration

	// MinEvidenceItems is the evidence count below which a request is either
	// denied or approved conditionally, depending on AllowConditionalWaivers.
	MinEvidenceItems int

	// MinJustificationLen is the shortest acceptable justification when
	// RequireJustification is set.
	MinJustificationLen int

	RequireJustification    bool
	AllowConditionalWaivers bool

	// AutoRevokeOnExpiry revokes expired waivers on read and during cleanup
	// sweeps instead of silently dropping them.
	AutoRevokeOnExpiry bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		DefaultDuration:         7 * 24 * time.Hour,
		MaxDuration:             30 * 24 * time.Hour,
		MinEvidenceItems:        2,
		MinJustificationLen:     10,
		RequireJustification:    true,
		AllowConditionalWaivers: true,
		AutoRevokeOnExpiry:      true,
	}
}
