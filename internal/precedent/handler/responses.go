package handler

// MatchFactors exposes the per-factor breakdown behind a match score.
type MatchFactors struct {
	Semantic float64 `json:"semantic"`
	Entity   float64 `json:"entity"`
	Intent   float64 `json:"intent"`
	Category float64 `json:"category"`
	Severity float64 `json:"severity"`
}

// MatchResult is one ranked precedent match.
type MatchResult struct {
	PrecedentID string       `json:"precedent_id"`
	Title       string       `json:"title,omitempty"`
	Score       float64      `json:"score"`
	Factors     MatchFactors `json:"factors"`
	Fallback    bool         `json:"fallback,omitempty"`
}

// SearchResponse returns matches ordered by descending score.
type SearchResponse struct {
	Matches []MatchResult `json:"matches"`
}
