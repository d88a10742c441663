package appeal

// Config holds the appeal arbitrator's bounds and toggles.
type Config struct {
	// MaxAppealLevels bounds escalation; an appeal at this level can no
	// longer be escalated.
	MaxAppealLevels int

	// MinEvidenceForAppeal is the smallest acceptable new-evidence count at
	// submission.
	MinEvidenceForAppeal int

	// MinGroundsLen is the shortest acceptable grounds text at submission.
	MinGroundsLen int

	// RequireUnanimous raises the overturn threshold from 0.6 to 0.8.
	RequireUnanimous bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxAppealLevels:      3,
		MinEvidenceForAppeal: 1,
		MinGroundsLen:        20,
		RequireUnanimous:     false,
	}
}
