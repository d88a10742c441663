// Package waiver implements the waiver interpreter: policy evaluation of
// waiver requests and the lifecycle of the active-waiver registry.
package waiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"concord/internal/arbitration"
	"concord/internal/waiver/metrics"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
	"concord/pkg/platform/audit"
	"concord/pkg/platform/sentinel"
	psync "concord/pkg/platform/sync"
)

// Registry defines the persistence interface for active waiver decisions,
// at most one entry per rule id.
// Error Contract:
// - FindByRule and Remove return sentinel.ErrNotFound when no entry exists
// - Insert returns sentinel.ErrConflict when the rule already has an entry
type Registry interface {
	FindByRule(ctx context.Context, ruleID id.RuleID) (*arbitration.WaiverDecision, error)
	Insert(ctx context.Context, decision *arbitration.WaiverDecision) error
	Update(ctx context.Context, decision *arbitration.WaiverDecision) error
	Remove(ctx context.Context, ruleID id.RuleID) error
	All(ctx context.Context) ([]*arbitration.WaiverDecision, error)
}

// Service evaluates waiver requests and owns the registry's lifecycle rules.
// The check-then-insert on approval and every registry mutation run under a
// per-rule lock so the one-active-waiver-per-rule invariant survives
// concurrent callers.
type Service struct {
	cfg      Config
	registry Registry
	locks    *psync.ShardedMutex
	auditor  audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
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

// WithClock injects the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a waiver interpreter backed by the given registry.
func NewService(cfg Config, registry Registry, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		registry: registry,
		locks:    psync.NewShardedMutex(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process evaluates the request and persists the outcome: an approval is
// inserted into the registry, a denial is returned as a rejected decision.
// The whole evaluate-and-insert runs under the rule's lock.
//
// Errors: CodeInvalidInput for malformed input, CodeWaiverExists when an
// approval races an existing registry entry.
func (s *Service) Process(ctx context.Context, req *arbitration.WaiverRequest, rule *arbitration.ConstitutionalRule, deciderID string) (*arbitration.WaiverDecision, error) {
	if err := validateRequest(req, rule, deciderID); err != nil {
		return nil, err
	}

	key := rule.ID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	eval, err := s.Evaluate(ctx, req, rule, deciderID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	status := arbitration.WaiverRejected
	if eval.ShouldApprove {
		status = arbitration.WaiverApproved
	}
	decision, err := arbitration.NewWaiverDecision(req.ID, rule.ID, status, deciderID, now)
	if err != nil {
		return nil, err
	}
	decision.Reasoning = eval.Reason

	if !eval.ShouldApprove {
		s.metrics.IncrementEvaluation("denied")
		s.emitAudit(ctx, audit.EventWaiverDenied, decision)
		return decision, nil
	}

	decision.ApprovedFor = eval.RecommendedDuration
	decision.Conditions = eval.Conditions
	expiresAt := now.Add(eval.RecommendedDuration)
	decision.ExpiresAt = &expiresAt
	if s.cfg.AutoRevokeOnExpiry {
		autoRevokeAt := expiresAt
		decision.AutoRevokeAt = &autoRevokeAt
	}

	if err := s.insertDecision(ctx, decision, now); err != nil {
		return nil, err
	}

	s.metrics.IncrementEvaluation("approved")
	if s.metrics != nil {
		s.metrics.ActiveWaivers.Inc()
	}
	s.emitAudit(ctx, audit.EventWaiverGranted, decision)
	return decision, nil
}

// insertDecision replaces a stale registry entry, if any, and inserts the new
// approval. Caller holds the rule lock.
func (s *Service) insertDecision(ctx context.Context, decision *arbitration.WaiverDecision, now time.Time) error {
	existing, err := s.registry.FindByRule(ctx, decision.RuleID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "waiver registry lookup failed")
	}
	if existing != nil {
		if existing.IsActive(now) {
			return dErrors.New(dErrors.CodeWaiverExists,
				fmt.Sprintf("an active waiver already exists for rule %s", decision.RuleID))
		}
		if err := s.registry.Remove(ctx, decision.RuleID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to drop stale waiver entry")
		}
	}
	if err := s.registry.Insert(ctx, decision); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeWaiverExists,
				fmt.Sprintf("an active waiver already exists for rule %s", decision.RuleID))
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert waiver decision")
	}
	return nil
}

// IsWaiverActive reports whether the rule currently carries an active waiver.
// Expiry is interpreted lazily on read; with auto-revoke configured, an
// expired entry is revoked and removed here.
func (s *Service) IsWaiverActive(ctx context.Context, ruleID id.RuleID) (bool, error) {
	if ruleID.IsNil() {
		return false, dErrors.New(dErrors.CodeInvalidInput, "rule ID required")
	}

	key := ruleID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	decision, err := s.registry.FindByRule(ctx, ruleID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "waiver registry lookup failed")
	}

	now := s.now().UTC()
	if decision.IsActive(now) {
		return true, nil
	}
	if decision.IsExpired(now) && s.cfg.AutoRevokeOnExpiry {
		if err := s.expireDecision(ctx, decision); err != nil {
			return false, err
		}
	}
	return false, nil
}

// GetWaiver returns the rule's current registry entry.
//
// Errors: CodeNotFound when the rule has no entry.
func (s *Service) GetWaiver(ctx context.Context, ruleID id.RuleID) (*arbitration.WaiverDecision, error) {
	if ruleID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "rule ID required")
	}
	decision, err := s.registry.FindByRule(ctx, ruleID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no waiver recorded for rule %s", ruleID))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "waiver registry lookup failed")
	}
	return decision, nil
}

// RevokeWaiver marks the rule's waiver REVOKED and removes its registry
// entry. Revocation is terminal.
//
// Errors: CodeNotFound when the rule has no entry.
func (s *Service) RevokeWaiver(ctx context.Context, ruleID id.RuleID, revokedBy, reason string) (*arbitration.WaiverDecision, error) {
	if ruleID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "rule ID required")
	}
	if revokedBy == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "revoker identity required")
	}

	key := ruleID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	decision, err := s.registry.FindByRule(ctx, ruleID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no waiver recorded for rule %s", ruleID))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "waiver registry lookup failed")
	}

	decision.Status = arbitration.WaiverRevoked
	if reason != "" {
		decision.Reasoning = reason
	}
	if err := s.registry.Remove(ctx, ruleID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove waiver entry")
	}

	if s.metrics != nil {
		s.metrics.Revocations.Inc()
		s.metrics.ActiveWaivers.Dec()
	}
	event := *decision
	event.DecidedBy = revokedBy
	s.emitAudit(ctx, audit.EventWaiverRevoked, &event)
	s.logger.InfoContext(ctx, "waiver revoked",
		"rule_id", ruleID.String(),
		"revoked_by", revokedBy,
	)
	return decision, nil
}

// ExtendWaiver pushes the rule's waiver expiry out by extra. The extension is
// rejected when the resulting total would exceed the configured maximum.
//
// Errors: CodeNotFound when the rule has no entry, CodeConflict when the
// waiver is not currently active, CodeInvalidInput when the total duration
// would exceed the maximum.
func (s *Service) ExtendWaiver(ctx context.Context, ruleID id.RuleID, extra time.Duration) (*arbitration.WaiverDecision, error) {
	if ruleID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "rule ID required")
	}
	if extra <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "extension duration must be positive")
	}

	key := ruleID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	decision, err := s.registry.FindByRule(ctx, ruleID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no waiver recorded for rule %s", ruleID))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "waiver registry lookup failed")
	}
	if !decision.IsActive(s.now().UTC()) {
		return nil, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("waiver for rule %s is not active", ruleID))
	}

	total := decision.ApprovedFor + extra
	if total > s.cfg.MaxDuration {
		return nil, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("extension would bring total duration to %s, maximum is %s", total, s.cfg.MaxDuration))
	}

	decision.ApprovedFor = total
	if decision.ExpiresAt != nil {
		expiresAt := decision.ExpiresAt.Add(extra)
		decision.ExpiresAt = &expiresAt
		if decision.AutoRevokeAt != nil {
			decision.AutoRevokeAt = &expiresAt
		}
	}
	if err := s.registry.Update(ctx, decision); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update waiver entry")
	}

	if s.metrics != nil {
		s.metrics.Extensions.Inc()
	}
	s.emitAudit(ctx, audit.EventWaiverExtended, decision)
	return decision, nil
}

// CleanupExpiredWaivers sweeps the registry once, revoking or dropping every
// expired entry, and returns the count processed.
func (s *Service) CleanupExpiredWaivers(ctx context.Context) (int, error) {
	decisions, err := s.registry.All(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "waiver registry sweep failed")
	}

	processed := 0
	for _, decision := range decisions {
		key := decision.RuleID.String()
		s.locks.Lock(key)
		// Re-read under the lock: the entry may have been revoked, extended,
		// or replaced since the sweep snapshot.
		current, err := s.registry.FindByRule(ctx, decision.RuleID)
		if err != nil || !current.IsExpired(s.now().UTC()) {
			s.locks.Unlock(key)
			continue
		}
		if err := s.expireDecision(ctx, current); err != nil {
			s.locks.Unlock(key)
			return processed, err
		}
		s.locks.Unlock(key)
		processed++
	}
	return processed, nil
}

// expireDecision removes one expired entry, revoking it first when configured.
// Caller holds the rule lock.
func (s *Service) expireDecision(ctx context.Context, decision *arbitration.WaiverDecision) error {
	if s.cfg.AutoRevokeOnExpiry {
		decision.Status = arbitration.WaiverRevoked
		s.emitAudit(ctx, audit.EventWaiverExpired, decision)
		if s.metrics != nil {
			s.metrics.Revocations.Inc()
		}
	}
	if err := s.registry.Remove(ctx, decision.RuleID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove expired waiver")
	}
	if s.metrics != nil {
		s.metrics.ActiveWaivers.Dec()
	}
	return nil
}

// emitAudit publishes a waiver lifecycle event. Best-effort: registry state
// is already settled, so audit failures log and proceed.
func (s *Service) emitAudit(ctx context.Context, action audit.AuditEvent, decision *arbitration.WaiverDecision) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: s.now().UTC(),
		Subject:   decision.RuleID.String(),
		Action:    action.String(),
		Actor:     decision.DecidedBy,
		Decision:  string(decision.Status),
		Reason:    decision.Reasoning,
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit waiver audit event",
			"rule_id", decision.RuleID.String(),
			"action", action.String(),
			"error", err,
		)
	}
}
