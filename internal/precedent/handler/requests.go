package handler

import "concord/internal/transport/http/dto"

// SearchContext is the wire shape of the query context.
type SearchContext struct {
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Severity    string   `json:"severity,omitempty"`
	Evidence    []string `json:"evidence,omitempty"`
	RuleIDs     []string `json:"rule_ids,omitempty"`
}

// SearchRequest carries the query context and the candidate corpus.
type SearchRequest struct {
	Context    SearchContext   `json:"context"`
	Precedents []dto.Precedent `json:"precedents"`
}
