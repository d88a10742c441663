package verdict

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"concord/internal/arbitration"
	"concord/internal/verdict/metrics"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
	"concord/pkg/platform/audit"
)

// Warning kinds reported alongside a successful generation.
const (
	warnNoPrecedents = "no_precedents"
	warnShortChain   = "short_chain"
	warnTimeBudget   = "time_budget"
)

// Report carries generation observability: elapsed wall time and non-fatal
// warnings. Exceeding the soft time budget is a warning, never a failure.
type Report struct {
	Elapsed  time.Duration
	Warnings []string
}

// Service generates verdicts for arbitration sessions. It is pure decision
// logic: the session is read, a new verdict is returned, and nothing is
// persisted here.
type Service struct {
	cfg     Config
	ids     id.IDSource
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

// New creates a verdict generator with the given configuration.
func New(cfg Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		ids:    id.RandomIDSource{},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces a verdict for the session. All validation happens before
// any work begins; there is no partial state on failure.
//
// Errors: CodeInvalidSession, CodeNoViolation, CodeNoRules.
func (s *Service) Generate(ctx context.Context, session *arbitration.ArbitrationSession, issuer string) (*arbitration.Verdict, *Report, error) {
	if err := validateSession(session); err != nil {
		return nil, nil, err
	}

	// Single authoritative timestamp for the entire generation.
	start := s.now()
	report := &Report{}

	chain := buildChain(s.cfg, session)
	if s.cfg.RequirePrecedents && len(session.Precedents) == 0 {
		s.warn(report, warnNoPrecedents, "no precedents attached to session")
	}
	if len(chain) < s.cfg.MinReasoningSteps {
		s.warn(report, warnShortChain,
			fmt.Sprintf("reasoning chain has %d step(s), configured minimum is %d", len(chain), s.cfg.MinReasoningSteps))
	}

	reasoningConfidence := meanConfidence(chain)
	outcome := determineOutcome(s.cfg, session, reasoningConfidence)

	v := &arbitration.Verdict{
		ID:         id.VerdictID(s.ids.NewID()),
		SessionID:  session.ID,
		Outcome:    outcome,
		Chain:      chain,
		Confidence: verdictConfidence(s.cfg, session, reasoningConfidence),
		IssuedBy:   issuer,
		IssuedAt:   start.UTC(),
	}
	for _, rule := range session.Rules {
		v.RulesApplied = append(v.RulesApplied, rule.ID)
	}
	v.EvidenceUsed = append(v.EvidenceUsed, session.Evidence...)
	for _, p := range session.Precedents {
		v.PrecedentsCited = append(v.PrecedentsCited, p.ID)
	}
	if outcome == arbitration.OutcomeConditional {
		v.Conditions = synthesizeConditions(s.cfg, session)
	}

	elapsed := s.now().Sub(start)
	report.Elapsed = elapsed
	if s.cfg.SoftTimeBudget > 0 && elapsed > s.cfg.SoftTimeBudget {
		s.warn(report, warnTimeBudget,
			fmt.Sprintf("generation took %s, soft budget is %s", elapsed, s.cfg.SoftTimeBudget))
	}

	if err := v.AppendAudit(start, audit.EventVerdictGenerated.String(), issuer,
		fmt.Sprintf("outcome=%s confidence=%.3f steps=%d", v.Outcome, v.Confidence, len(v.Chain))); err != nil {
		return nil, nil, err
	}

	s.emitAudit(ctx, session, v)

	if s.metrics != nil {
		s.metrics.IncrementVerdict(string(v.Outcome), string(session.Violation.Severity))
		s.metrics.ObserveGenerationLatency(elapsed)
		s.metrics.ObserveChainLength(len(v.Chain))
	}

	return v, report, nil
}

// validateSession fail-fasts on structural problems before any work begins.
func validateSession(session *arbitration.ArbitrationSession) error {
	if session == nil || session.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidSession, "session lacks an ID")
	}
	if session.Violation == nil {
		return dErrors.New(dErrors.CodeNoViolation, "session has no violation")
	}
	if len(session.Rules) == 0 {
		return dErrors.New(dErrors.CodeNoRules, "session has no evaluated rules")
	}
	return nil
}

func (s *Service) warn(report *Report, kind, msg string) {
	report.Warnings = append(report.Warnings, msg)
	if s.metrics != nil {
		s.metrics.IncrementWarning(kind)
	}
}

// emitAudit publishes the generation event. Best-effort: verdict generation
// is advisory until the orchestrator persists it, so audit failures log and
// proceed.
func (s *Service) emitAudit(ctx context.Context, session *arbitration.ArbitrationSession, v *arbitration.Verdict) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: v.IssuedAt,
		SessionID: session.ID,
		Subject:   v.ID.String(),
		Action:    audit.EventVerdictGenerated.String(),
		Actor:     v.IssuedBy,
		Decision:  string(v.Outcome),
		Reason:    session.Violation.Description,
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit verdict audit event",
			"session_id", session.ID.String(),
			"verdict_id", v.ID.String(),
			"error", err,
		)
	}
}
