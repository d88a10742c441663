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
	"concord/internal/verdict"
	dErrors "concord/pkg/domain-errors"
)

// Service defines the interface for verdict generation.
type Service interface {
	Generate(ctx context.Context, session *arbitration.ArbitrationSession, issuer string) (*arbitration.Verdict, *verdict.Report, error)
}

// Handler handles verdict endpoints.
type Handler struct {
	logger  *slog.Logger
	verdict Service
}

// New creates a new verdict Handler.
func New(verdict Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		verdict: verdict,
	}
}

// Register registers the verdict routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/arbitration/verdicts", h.handleGenerate)
}

// handleGenerate runs the full verdict pipeline over a posted session. The
// authenticated actor becomes the verdict issuer.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	issuer := middleware.GetActor(ctx)
	if issuer == "" {
		h.logger.ErrorContext(ctx, "actor missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var genReq GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&genReq); err != nil {
		h.logger.WarnContext(ctx, "failed to decode verdict request",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	session, err := dto.SessionFromDTO(genReq.Session)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid session payload",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	v, report, err := h.verdict.Generate(ctx, session, issuer)
	if err != nil {
		h.logger.ErrorContext(ctx, "verdict generation failed",
			"request_id", requestID,
			"session_id", session.ID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	digest, err := v.Digest()
	if err != nil {
		h.logger.WarnContext(ctx, "failed to compute verdict digest",
			"request_id", requestID,
			"verdict_id", v.ID.String(),
			"error", err,
		)
	}

	respond.WriteJSON(w, http.StatusCreated, &GenerateResponse{
		Verdict:   dto.VerdictToDTO(v),
		Digest:    digest,
		ElapsedMS: report.Elapsed.Milliseconds(),
		Warnings:  report.Warnings,
	})
}
