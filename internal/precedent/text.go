package precedent

import (
	"strings"
)

// stopwords dropped during tokenization. Short tokens (< 3 runes) are dropped
// as well, so only the longer function words appear here.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "was": true, "were": true, "are": true, "has": true,
	"had": true, "have": true, "from": true, "into": true, "not": true,
	"but": true, "its": true, "their": true, "which": true, "when": true,
	"while": true, "been": true, "being": true, "after": true, "before": true,
}

// tokenize lowercases, strips punctuation, and drops stopwords and short
// tokens. The token set feeds the lexical-overlap similarity stand-in.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		tok := strings.TrimFunc(raw, func(r rune) bool {
			return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '-' || r == '_')
		})
		if len(tok) < 3 || stopwords[tok] {
			continue
		}
		tokens[tok] = true
	}
	return tokens
}

// jaccard computes intersection-over-union of two token sets. A stand-in for
// embedding cosine similarity; preserves the [0,1] higher-is-more-similar
// contract so a true embedding scorer can replace it.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Entity marker vocabularies for naive extraction. Each tagged token is
// prefixed with its category so "agent" the actor and "agent" inside an
// object phrase stay distinct entities.
var (
	personMarkers = map[string]bool{
		"agent": true, "user": true, "operator": true, "admin": true,
		"reviewer": true, "appellant": true, "owner": true, "moderator": true,
	}
	actionMarkers = map[string]bool{
		"accessed": true, "executed": true, "deleted": true, "modified": true,
		"invoked": true, "bypassed": true, "exfiltrated": true, "escalated": true,
		"disabled": true, "overrode": true, "ignored": true, "violated": true,
		"leaked": true, "fabricated": true, "exceeded": true,
	}
	objectMarkers = map[string]bool{
		"file": true, "database": true, "tool": true, "network": true,
		"credential": true, "secret": true, "endpoint": true, "resource": true,
		"budget": true, "sandbox": true, "memory": true, "pipeline": true,
	}
)

// extractEntities tags tokens with naive person/action/object/rule markers.
func extractEntities(text string) map[string]bool {
	entities := make(map[string]bool)
	for tok := range tokenize(text) {
		switch {
		case personMarkers[tok]:
			entities["person:"+tok] = true
		case actionMarkers[tok]:
			entities["action:"+tok] = true
		case objectMarkers[tok]:
			entities["object:"+tok] = true
		case strings.HasPrefix(tok, "rule-") || tok == "rule" || tok == "rules":
			entities["rule:"+tok] = true
		}
	}
	return entities
}

// Intent vocabulary. Classification is keyword-driven over a fixed set.
type intent string

const (
	intentEnforcement   intent = "enforcement"
	intentExemption     intent = "exemption"
	intentRemediation   intent = "remediation"
	intentEscalation    intent = "escalation"
	intentClarification intent = "clarification"
)

var intentKeywords = map[intent][]string{
	intentEnforcement:   {"violation", "breach", "forbidden", "blocked", "denied", "sanction"},
	intentExemption:     {"waiver", "exemption", "exception", "allow", "permit", "grandfathered"},
	intentRemediation:   {"remediate", "remediation", "fix", "correct", "restore", "rollback"},
	intentEscalation:    {"escalate", "appeal", "review", "overturn", "dispute", "contest"},
	intentClarification: {"ambiguous", "unclear", "interpret", "clarify", "definition", "scope"},
}

// classifyIntent picks the intent with the most keyword hits in the text and
// reports a confidence proportional to its share of all hits. Zero hits
// classify as enforcement with zero confidence.
func classifyIntent(text string) (intent, float64) {
	tokens := tokenize(text)
	best, bestHits, totalHits := intentEnforcement, 0, 0
	// Iterate in a fixed order so ties resolve deterministically.
	for _, candidate := range []intent{intentEnforcement, intentExemption, intentRemediation, intentEscalation, intentClarification} {
		hits := 0
		for _, kw := range intentKeywords[candidate] {
			if tokens[kw] {
				hits++
			}
		}
		totalHits += hits
		if hits > bestHits {
			best, bestHits = candidate, hits
		}
	}
	if totalHits == 0 {
		return best, 0
	}
	return best, float64(bestHits) / float64(totalHits)
}

// intentMatch scores how strongly the precedent's reasoning speaks to the
// classified intent: keyword coverage scaled by classification confidence.
func intentMatch(classified intent, confidence float64, reasoning string) float64 {
	if confidence == 0 {
		return 0
	}
	tokens := tokenize(reasoning)
	keywords := intentKeywords[classified]
	hits := 0
	for _, kw := range keywords {
		if tokens[kw] {
			hits++
		}
	}
	if len(keywords) == 0 {
		return 0
	}
	return float64(hits) / float64(len(keywords)) * confidence
}
