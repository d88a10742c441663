package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"concord/internal/arbitration"
	"concord/internal/platform/middleware"
	"concord/internal/transport/http/dto"
	"concord/internal/transport/http/shared"
	respond "concord/internal/transport/http/shared/json"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

// Service defines the interface for appeal lifecycle operations.
type Service interface {
	Submit(ctx context.Context, session *arbitration.ArbitrationSession, verdict *arbitration.Verdict, appellant, grounds string, newEvidence []string, metadata arbitration.Metadata) (*arbitration.Appeal, error)
	Get(ctx context.Context, appealID id.AppealID) (*arbitration.Appeal, error)
	Review(ctx context.Context, appealID id.AppealID, reviewers []string, originalVerdict *arbitration.Verdict) (*arbitration.AppealDecision, error)
	Escalate(ctx context.Context, appealID id.AppealID, reason string) (*arbitration.Appeal, error)
	Finalize(ctx context.Context, appealID id.AppealID) (*arbitration.Appeal, error)
}

// Handler handles appeal endpoints.
type Handler struct {
	logger *slog.Logger
	appeal Service
}

// New creates a new appeal Handler.
func New(appeal Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		appeal: appeal,
	}
}

// Register registers the appeal routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/arbitration/appeals", h.handleSubmit)
	r.Get("/arbitration/appeals/{appealID}", h.handleGet)
	r.Post("/arbitration/appeals/{appealID}/review", h.handleReview)
	r.Post("/arbitration/appeals/{appealID}/escalate", h.handleEscalate)
	r.Post("/arbitration/appeals/{appealID}/finalize", h.handleFinalize)
}

// handleSubmit files an appeal against an issued verdict. The authenticated
// actor becomes the appellant, and the caller's client fingerprint is folded
// into the appeal metadata for the review record.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	appellant := middleware.GetActor(ctx)
	if appellant == "" {
		h.logger.ErrorContext(ctx, "actor missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var submitReq SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&submitReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode appeal submission",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	session, verdict, err := submitReq.toDomain()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid appeal payload",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	metadata := arbitration.Metadata{}
	for k, v := range submitReq.Metadata {
		metadata[k] = v
	}
	if client, ok := middleware.GetClientMetadata(ctx); ok {
		if raw, err := json.Marshal(newClientRecord(client)); err == nil {
			metadata["client"] = raw
		}
	}

	appeal, err := h.appeal.Submit(ctx, session, verdict, appellant, submitReq.Grounds, submitReq.NewEvidence, metadata)
	if err != nil {
		h.logger.WarnContext(ctx, "appeal submission rejected",
			"request_id", requestID,
			"verdict_id", verdict.ID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusCreated, appealResponse(appeal))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	appealID, err := id.ParseAppealID(chi.URLParam(r, "appealID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	appeal, err := h.appeal.Get(ctx, appealID)
	if err != nil {
		h.logger.WarnContext(ctx, "appeal lookup failed",
			"request_id", requestID,
			"appeal_id", appealID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, appealResponse(appeal))
}

// handleReview runs one arbitration cycle over a submitted appeal. The
// original verdict travels with the request so the reviewers score against
// the record as issued.
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	appealID, err := id.ParseAppealID(chi.URLParam(r, "appealID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var reviewReq ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&reviewReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode review request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	verdict, err := dto.VerdictFromDTO(reviewReq.OriginalVerdict)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid verdict payload",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	decision, err := h.appeal.Review(ctx, appealID, reviewReq.Reviewers, verdict)
	if err != nil {
		h.logger.WarnContext(ctx, "appeal review failed",
			"request_id", requestID,
			"appeal_id", appealID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, decisionResponse(decision))
}

func (h *Handler) handleEscalate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	appealID, err := id.ParseAppealID(chi.URLParam(r, "appealID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var escalateReq EscalateRequest
	if err := json.NewDecoder(r.Body).Decode(&escalateReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode escalate request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	appeal, err := h.appeal.Escalate(ctx, appealID, escalateReq.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "appeal escalation failed",
			"request_id", requestID,
			"appeal_id", appealID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, appealResponse(appeal))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	appealID, err := id.ParseAppealID(chi.URLParam(r, "appealID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	appeal, err := h.appeal.Finalize(ctx, appealID)
	if err != nil {
		h.logger.WarnContext(ctx, "appeal finalization failed",
			"request_id", requestID,
			"appeal_id", appealID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, appealResponse(appeal))
}
