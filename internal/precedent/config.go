package precedent

// Weights combines the five similarity factors into one score. Values should
// sum to 1.0; the matcher normalizes defensively when they do not.
type Weights struct {
	Semantic float64
	Entity   float64
	Intent   float64
	Category float64
	Severity float64
}

// Config holds the matcher's thresholds and factor weights.
//
// SeverityMismatchScore is a tunable default, not a derived constant: any
// severity mismatch scores 0.8 ("close enough") unless reconfigured.
type Config struct {
	Weights               Weights
	SimilarityThreshold   float64
	MaxResults            int
	SeverityMismatchScore float64

	// Fallback factor values used when a precedent's full factor computation
	// fails and the simplified scorer takes over.
	FallbackEntityScore float64
	FallbackIntentScore float64

	// MaxConcurrency bounds parallel per-precedent scoring.
	MaxConcurrency int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Semantic: 0.40,
			Entity:   0.30,
			Intent:   0.20,
			Category: 0.05,
			Severity: 0.05,
		},
		SimilarityThreshold:   0.70,
		MaxResults:            10,
		SeverityMismatchScore: 0.8,
		FallbackEntityScore:   0.5,
		FallbackIntentScore:   0.5,
		MaxConcurrency:        8,
	}
}

// sum returns the weight total for normalization.
func (w Weights) sum() float64 {
	return w.Semantic + w.Entity + w.Intent + w.Category + w.Severity
}
