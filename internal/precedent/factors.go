package precedent

import (
	"strings"

	"concord/internal/arbitration"
)

// Factors is the per-factor breakdown carried on every match.
type Factors struct {
	Semantic float64
	Entity   float64
	Intent   float64
	Category float64
	Severity float64
}

// flattenContext produces the query's flat text representation.
func flattenContext(qc Context) string {
	parts := make([]string, 0, len(qc.Evidence)+1)
	parts = append(parts, qc.Description)
	parts = append(parts, qc.Evidence...)
	return strings.Join(parts, " ")
}

// flattenPrecedent produces the precedent's flat text representation:
// key facts, prior reasoning, and applicability conditions.
func flattenPrecedent(p arbitration.Precedent) string {
	parts := make([]string, 0, len(p.KeyFacts)+len(p.Applicability.Conditions)+2)
	parts = append(parts, p.Title)
	parts = append(parts, p.KeyFacts...)
	parts = append(parts, p.Summary.Reasoning)
	parts = append(parts, p.Applicability.Conditions...)
	return strings.Join(parts, " ")
}

// computeFactors scores one precedent against the query context across all
// five factors. Pure computation; failures are handled by the caller's
// fallback path.
func (m *Matcher) computeFactors(qc Context, p arbitration.Precedent) Factors {
	contextText := flattenContext(qc)
	precedentText := flattenPrecedent(p)

	f := Factors{
		Semantic: jaccard(tokenize(contextText), tokenize(precedentText)),
		Category: exactMatch(qc.Category, p.Applicability.Category),
		Severity: m.severityScore(qc.Severity, p.Applicability.Severity),
	}

	contextEntities := extractEntities(contextText)
	factTokens := tokenize(strings.Join(p.KeyFacts, " "))
	f.Entity = entityOverlap(contextEntities, factTokens)

	classified, confidence := classifyIntent(contextText)
	f.Intent = intentMatch(classified, confidence, p.Summary.Reasoning)

	return f
}

// fallbackFactors is the simplified scorer used when full factor computation
// fails for one precedent: exact category/severity, lexical similarity, and
// fixed default entity/intent factors.
func (m *Matcher) fallbackFactors(qc Context, p arbitration.Precedent) Factors {
	return Factors{
		Semantic: jaccard(tokenize(flattenContext(qc)), tokenize(flattenPrecedent(p))),
		Entity:   m.cfg.FallbackEntityScore,
		Intent:   m.cfg.FallbackIntentScore,
		Category: exactMatch(qc.Category, p.Applicability.Category),
		Severity: m.severityScore(qc.Severity, p.Applicability.Severity),
	}
}

// combine folds the factor breakdown into one overall score using the
// configured weights, normalized so misconfigured weights cannot push the
// score outside [0,1].
func (m *Matcher) combine(f Factors) float64 {
	w := m.cfg.Weights
	total := w.sum()
	if total <= 0 {
		return 0
	}
	score := f.Semantic*w.Semantic +
		f.Entity*w.Entity +
		f.Intent*w.Intent +
		f.Category*w.Category +
		f.Severity*w.Severity
	return arbitration.Clamp01(score / total)
}

func exactMatch(a, b string) float64 {
	if a != "" && strings.EqualFold(a, b) {
		return 1.0
	}
	return 0.0
}

// severityScore treats any mismatch as "close enough" at the configured
// mismatch score rather than zeroing the factor.
func (m *Matcher) severityScore(a, b arbitration.Severity) float64 {
	if a == b {
		return 1.0
	}
	return m.cfg.SeverityMismatchScore
}

// entityOverlap measures how many extracted context entities appear among the
// precedent's fact tokens, by the entity token without its tag.
func entityOverlap(entities map[string]bool, factTokens map[string]bool) float64 {
	if len(entities) == 0 {
		return 0
	}
	matched := 0
	for entity := range entities {
		if idx := strings.IndexByte(entity, ':'); idx >= 0 {
			if factTokens[entity[idx+1:]] {
				matched++
			}
		}
	}
	return float64(matched) / float64(len(entities))
}
