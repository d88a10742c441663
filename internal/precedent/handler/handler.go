package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"concord/internal/arbitration"
	"concord/internal/platform/middleware"
	"concord/internal/precedent"
	"concord/internal/transport/http/dto"
	"concord/internal/transport/http/shared"
	respond "concord/internal/transport/http/shared/json"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

// Service defines the interface for precedent similarity search.
type Service interface {
	FindSimilar(ctx context.Context, qc precedent.Context, precedents []arbitration.Precedent) ([]precedent.Match, error)
}

// Handler handles precedent endpoints.
type Handler struct {
	logger  *slog.Logger
	matcher Service
}

// New creates a new precedent Handler.
func New(matcher Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		matcher: matcher,
	}
}

// Register registers the precedent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/arbitration/precedents/search", h.handleSearch)
}

// handleSearch scores a posted corpus against the query context and returns
// ranked matches. The corpus travels with the request; the core holds no
// precedent storage of its own.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var searchReq SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&searchReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode precedent search request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	qc, corpus, err := searchReq.toDomain()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid precedent search payload",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	matches, err := h.matcher.FindSimilar(ctx, qc, corpus)
	if err != nil {
		h.logger.ErrorContext(ctx, "precedent search failed",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	res := &SearchResponse{Matches: make([]MatchResult, 0, len(matches))}
	for _, m := range matches {
		res.Matches = append(res.Matches, MatchResult{
			PrecedentID: m.Precedent.ID.String(),
			Title:       m.Precedent.Title,
			Score:       m.Score,
			Factors: MatchFactors{
				Semantic: m.Factors.Semantic,
				Entity:   m.Factors.Entity,
				Intent:   m.Factors.Intent,
				Category: m.Factors.Category,
				Severity: m.Factors.Severity,
			},
			Fallback: m.Fallback,
		})
	}

	respond.WriteJSON(w, http.StatusOK, res)
}

func (req *SearchRequest) toDomain() (precedent.Context, []arbitration.Precedent, error) {
	qc := precedent.Context{
		Description: req.Context.Description,
		Category:    req.Context.Category,
		Severity:    arbitration.Severity(req.Context.Severity),
		Evidence:    req.Context.Evidence,
	}
	for _, raw := range req.Context.RuleIDs {
		ruleID, err := id.ParseRuleID(raw)
		if err != nil {
			return precedent.Context{}, nil, err
		}
		qc.RuleIDs = append(qc.RuleIDs, ruleID)
	}

	corpus := make([]arbitration.Precedent, 0, len(req.Precedents))
	for _, p := range req.Precedents {
		converted, err := dto.PrecedentFromDTO(p)
		if err != nil {
			return precedent.Context{}, nil, err
		}
		corpus = append(corpus, converted)
	}
	return qc, corpus, nil
}
