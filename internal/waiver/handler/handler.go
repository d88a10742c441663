package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"concord/internal/arbitration"
	"concord/internal/platform/middleware"
	"concord/internal/transport/http/shared"
	respond "concord/internal/transport/http/shared/json"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

// Service defines the interface for waiver lifecycle operations.
type Service interface {
	Process(ctx context.Context, req *arbitration.WaiverRequest, rule *arbitration.ConstitutionalRule, deciderID string) (*arbitration.WaiverDecision, error)
	GetWaiver(ctx context.Context, ruleID id.RuleID) (*arbitration.WaiverDecision, error)
	RevokeWaiver(ctx context.Context, ruleID id.RuleID, revokedBy, reason string) (*arbitration.WaiverDecision, error)
	ExtendWaiver(ctx context.Context, ruleID id.RuleID, extra time.Duration) (*arbitration.WaiverDecision, error)
}

// Handler handles waiver endpoints.
type Handler struct {
	logger *slog.Logger
	waiver Service
	now    func() time.Time
}

// New creates a new waiver Handler.
func New(waiver Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		waiver: waiver,
		now:    time.Now,
	}
}

// Register registers the waiver routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/arbitration/waivers", h.handleProcess)
	r.Get("/arbitration/waivers/{ruleID}", h.handleGet)
	r.Post("/arbitration/waivers/{ruleID}/revoke", h.handleRevoke)
	r.Post("/arbitration/waivers/{ruleID}/extend", h.handleExtend)
}

// handleProcess evaluates a waiver request against its rule. The authenticated
// actor becomes the decider of record.
func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	decider := middleware.GetActor(ctx)
	if decider == "" {
		h.logger.ErrorContext(ctx, "actor missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var processReq ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&processReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode waiver request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	waiverReq, rule, err := processReq.toDomain()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid waiver payload",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	decision, err := h.waiver.Process(ctx, waiverReq, rule, decider)
	if err != nil {
		h.logger.ErrorContext(ctx, "waiver processing failed",
			"request_id", requestID,
			"rule_id", waiverReq.RuleID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusCreated, decisionResponse(decision, h.now()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	decision, err := h.waiver.GetWaiver(ctx, ruleID)
	if err != nil {
		h.logger.WarnContext(ctx, "waiver lookup failed",
			"request_id", requestID,
			"rule_id", ruleID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, decisionResponse(decision, h.now()))
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	revokedBy := middleware.GetActor(ctx)
	if revokedBy == "" {
		h.logger.ErrorContext(ctx, "actor missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var revokeReq RevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&revokeReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode revoke request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	decision, err := h.waiver.RevokeWaiver(ctx, ruleID, revokedBy, revokeReq.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "waiver revocation failed",
			"request_id", requestID,
			"rule_id", ruleID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, decisionResponse(decision, h.now()))
}

func (h *Handler) handleExtend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var extendReq ExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&extendReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode extend request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	extra, err := parseDuration(extendReq.ExtendBy)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	decision, err := h.waiver.ExtendWaiver(ctx, ruleID, extra)
	if err != nil {
		h.logger.WarnContext(ctx, "waiver extension failed",
			"request_id", requestID,
			"rule_id", ruleID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, decisionResponse(decision, h.now()))
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "duration required")
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid duration: "+raw)
	}
	return d, nil
}
