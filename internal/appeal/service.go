// Package appeal implements the appeal arbitrator: submission validation,
// review scoring, escalation, and finalization of challenges to prior
// verdicts.
package appeal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"concord/internal/appeal/metrics"
	"concord/internal/arbitration"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
	"concord/pkg/platform/audit"
	"concord/pkg/platform/sentinel"
	psync "concord/pkg/platform/sync"
)

// Store defines the persistence interface for appeals.
// Error Contract:
// - FindByID and Update return sentinel.ErrNotFound when no appeal exists
// - Insert returns sentinel.ErrConflict when the appeal id is already taken
type Store interface {
	Insert(ctx context.Context, appeal *arbitration.Appeal) error
	FindByID(ctx context.Context, appealID id.AppealID) (*arbitration.Appeal, error)
	Update(ctx context.Context, appeal *arbitration.Appeal) error
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]*arbitration.Appeal, error)
}

// Service arbitrates appeals. State transitions run under a per-appeal lock
// so concurrent reviews of the same appeal cannot interleave.
type Service struct {
	cfg     Config
	store   Store
	ids     id.IDSource
	locks   *psync.ShardedMutex
	auditor audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithAuditor sets the audit publisher. Emission is best-effort.
func WithAuditor(a audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithIDSource injects the identifier source, letting tests run without
// shared global state.
func WithIDSource(src id.IDSource) Option {
	return func(s *Service) {
		if src != nil {
			s.ids = src
		}
	}
}

// WithClock injects the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an appeal arbitrator backed by the given store.
func NewService(cfg Config, store Store, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		store:  store,
		ids:    id.RandomIDSource{},
		locks:  psync.NewShardedMutex(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and records a new appeal against a prior verdict. All
// validation happens before the appeal object is created; a failure leaves
// no trace.
//
// Errors: CodeInvalidVerdict when the verdict carries no id,
// CodeInsufficientGrounds for grounds shorter than the minimum,
// CodeInsufficientEvidence for too little new evidence.
func (s *Service) Submit(ctx context.Context, session *arbitration.ArbitrationSession, verdict *arbitration.Verdict, appellant, grounds string, newEvidence []string, metadata arbitration.Metadata) (*arbitration.Appeal, error) {
	if session == nil || session.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidSession, "session lacks an ID")
	}
	if verdict == nil || verdict.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidVerdict, "original verdict has no ID")
	}
	if appellant == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "appellant identity required")
	}
	if len(strings.TrimSpace(grounds)) < s.cfg.MinGroundsLen {
		return nil, dErrors.New(dErrors.CodeInsufficientGrounds,
			fmt.Sprintf("grounds must be at least %d characters", s.cfg.MinGroundsLen))
	}
	if len(newEvidence) < s.cfg.MinEvidenceForAppeal {
		return nil, dErrors.New(dErrors.CodeInsufficientEvidence,
			fmt.Sprintf("%d new evidence item(s) provided, %d required", len(newEvidence), s.cfg.MinEvidenceForAppeal))
	}

	now := s.now().UTC()
	appeal, err := arbitration.NewAppeal(id.AppealID(s.ids.NewID()), session.ID, verdict.ID, appellant, now)
	if err != nil {
		return nil, err
	}
	appeal.Grounds = grounds
	appeal.NewEvidence = append([]string(nil), newEvidence...)
	for k, v := range metadata {
		appeal.Metadata[k] = v
	}

	if err := s.store.Insert(ctx, appeal); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store appeal")
	}

	if s.metrics != nil {
		s.metrics.Submissions.Inc()
	}
	s.emitAudit(ctx, audit.EventAppealSubmitted, appeal, "", grounds)
	s.logger.InfoContext(ctx, "appeal submitted",
		"appeal_id", appeal.ID.String(),
		"verdict_id", verdict.ID.String(),
		"appellant", appellant,
	)
	return appeal, nil
}

// Get returns one appeal.
//
// Errors: CodeAppealNotFound.
func (s *Service) Get(ctx context.Context, appealID id.AppealID) (*arbitration.Appeal, error) {
	appeal, err := s.store.FindByID(ctx, appealID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeAppealNotFound, fmt.Sprintf("appeal %s not found", appealID))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "appeal lookup failed")
	}
	return appeal, nil
}

// Review scores the appeal and decides it. Only legal from SUBMITTED. An
// overturn synthesizes a replacement verdict from the original: same facts,
// flipped outcome, one appended reasoning step citing the appeal's new
// evidence.
//
// Errors: CodeAppealNotFound, CodeInvalidAppealState, CodeInvalidVerdict when
// the supplied verdict does not match the appeal.
func (s *Service) Review(ctx context.Context, appealID id.AppealID, reviewers []string, originalVerdict *arbitration.Verdict) (*arbitration.AppealDecision, error) {
	if len(reviewers) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one reviewer required")
	}
	if originalVerdict == nil {
		return nil, dErrors.New(dErrors.CodeInvalidVerdict, "original verdict required")
	}

	key := appealID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	appeal, err := s.Get(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if appeal.Status != arbitration.AppealSubmitted {
		return nil, dErrors.New(dErrors.CodeInvalidAppealState,
			fmt.Sprintf("appeal %s is %s, review requires submitted", appealID, appeal.Status))
	}
	if originalVerdict.ID != appeal.VerdictID {
		return nil, dErrors.New(dErrors.CodeInvalidVerdict,
			fmt.Sprintf("verdict %s does not match appealed verdict %s", originalVerdict.ID, appeal.VerdictID))
	}

	now := s.now().UTC()
	appeal.Status = arbitration.AppealUnderReview
	appeal.Reviewers = append([]string(nil), reviewers...)
	appeal.ReviewedAt = &now

	eScore := evidenceScore(appeal.NewEvidence, originalVerdict.EvidenceUsed)
	gScore := groundsScore(appeal.Grounds)
	overall := (eScore + gScore) / 2

	decision := &arbitration.AppealDecision{
		AppealID:   appeal.ID,
		Reviewers:  appeal.Reviewers,
		DecidedAt:  now,
		Confidence: decisionConfidence(overall, len(reviewers)),
	}

	if overall > s.overturnThreshold() {
		replacement, err := s.synthesizeReplacement(appeal, originalVerdict, overall, now)
		if err != nil {
			return nil, err
		}
		appeal.Status = arbitration.AppealOverturned
		decision.Outcome = arbitration.AppealDecisionOverturned
		decision.Replacement = replacement
		decision.Reasoning = fmt.Sprintf(
			"appeal succeeded with score %.2f (evidence %.2f, grounds %.2f); verdict %s overturned",
			overall, eScore, gScore, originalVerdict.ID)
	} else {
		appeal.Status = arbitration.AppealUpheld
		decision.Outcome = arbitration.AppealDecisionUpheld
		decision.Reasoning = fmt.Sprintf(
			"appeal scored %.2f (evidence %.2f, grounds %.2f), below the %.2f overturn threshold; verdict stands",
			overall, eScore, gScore, s.overturnThreshold())
	}

	if err := s.store.Update(ctx, appeal); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update appeal")
	}

	if s.metrics != nil {
		s.metrics.Reviews.WithLabelValues(string(decision.Outcome)).Inc()
		s.metrics.ReviewScore.Observe(overall)
	}
	s.emitAudit(ctx, audit.EventAppealDecided, appeal, string(decision.Outcome), decision.Reasoning)
	return decision, nil
}

// synthesizeReplacement builds the superseding verdict for an overturn.
func (s *Service) synthesizeReplacement(appeal *arbitration.Appeal, original *arbitration.Verdict, overall float64, now time.Time) (*arbitration.Verdict, error) {
	replacement := original.Clone()
	replacement.ID = id.VerdictID(s.ids.NewID())
	replacement.Outcome = flipOutcome(original.Outcome)
	replacement.IssuedBy = strings.Join(appeal.Reviewers, ",")
	replacement.IssuedAt = now
	replacement.EvidenceUsed = append(replacement.EvidenceUsed, appeal.NewEvidence...)
	replacement.Chain = append(replacement.Chain, arbitration.ReasoningStep{
		Index: len(replacement.Chain) + 1,
		Description: fmt.Sprintf("appeal %s at level %d overturned verdict %s: outcome %s becomes %s",
			appeal.ID, appeal.Level, original.ID, original.Outcome, replacement.Outcome),
		EvidenceRefs: append([]string(nil), appeal.NewEvidence...),
		Confidence:   overall,
	})
	if err := replacement.AppendAudit(now, audit.EventAppealDecided.String(), replacement.IssuedBy,
		fmt.Sprintf("supersedes %s via appeal %s", original.ID, appeal.ID)); err != nil {
		return nil, err
	}
	return replacement, nil
}

// Escalate moves a decided appeal to the next review level, resetting it to
// SUBMITTED.
//
// Errors: CodeAppealNotFound, CodeInvalidAppealState when finalized,
// CodeMaxAppealLevel at the configured ceiling.
func (s *Service) Escalate(ctx context.Context, appealID id.AppealID, reason string) (*arbitration.Appeal, error) {
	key := appealID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	appeal, err := s.Get(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if appeal.Status == arbitration.AppealFinalized {
		return nil, dErrors.New(dErrors.CodeInvalidAppealState,
			fmt.Sprintf("appeal %s is finalized", appealID))
	}
	if appeal.Level >= s.cfg.MaxAppealLevels {
		return nil, dErrors.New(dErrors.CodeMaxAppealLevel,
			fmt.Sprintf("appeal %s is already at the maximum level %d", appealID, s.cfg.MaxAppealLevels))
	}

	appeal.Level++
	appeal.Status = arbitration.AppealSubmitted
	appeal.Reviewers = nil
	appeal.ReviewedAt = nil
	if reason != "" {
		raw, err := json.Marshal(reason)
		if err == nil {
			appeal.Metadata[fmt.Sprintf("escalation_reason_level_%d", appeal.Level)] = raw
		}
	}

	if err := s.store.Update(ctx, appeal); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update appeal")
	}

	if s.metrics != nil {
		s.metrics.Escalations.Inc()
	}
	s.emitAudit(ctx, audit.EventAppealEscalated, appeal, "", reason)
	s.logger.InfoContext(ctx, "appeal escalated",
		"appeal_id", appealID.String(),
		"level", appeal.Level,
	)
	return appeal, nil
}

// Finalize closes the appeal permanently. No transition is legal afterward.
//
// Errors: CodeAppealNotFound, CodeInvalidAppealState when already finalized.
func (s *Service) Finalize(ctx context.Context, appealID id.AppealID) (*arbitration.Appeal, error) {
	key := appealID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	appeal, err := s.Get(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if appeal.Status == arbitration.AppealFinalized {
		return nil, dErrors.New(dErrors.CodeInvalidAppealState,
			fmt.Sprintf("appeal %s is already finalized", appealID))
	}

	appeal.Status = arbitration.AppealFinalized
	if err := s.store.Update(ctx, appeal); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update appeal")
	}

	if s.metrics != nil {
		s.metrics.Finalized.Inc()
	}
	s.emitAudit(ctx, audit.EventAppealFinalized, appeal, "", "")
	return appeal, nil
}

// emitAudit publishes an appeal lifecycle event. Best-effort: appeal state is
// already settled, so audit failures log and proceed.
func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, appeal *arbitration.Appeal, decision, reason string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: s.now().UTC(),
		SessionID: appeal.SessionID,
		Subject:   appeal.ID.String(),
		Action:    action.String(),
		Actor:     appeal.Appellant,
		Decision:  decision,
		Reason:    reason,
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit appeal audit event",
			"appeal_id", appeal.ID.String(),
			"action", action.String(),
			"error", err,
		)
	}
}
