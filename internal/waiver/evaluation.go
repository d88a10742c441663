package waiver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"concord/internal/arbitration"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
	"concord/pkg/platform/sentinel"
)

// Evaluation is the interpreter's recommendation for one waiver request. It
// carries no identity or timestamps; Process turns it into a WaiverDecision.
type Evaluation struct {
	ShouldApprove       bool
	Reason              string
	RecommendedDuration time.Duration
	Conditions          []string
}

// Evaluate applies the waiver policy to one request. The policy runs in a
// fixed order and the first matching rule decides:
//
//  1. non-waivable rules are always denied
//  2. missing or too-short justification is denied
//  3. an evidence shortfall is approved conditionally at half duration when
//     conditional waivers are allowed, denied otherwise
//  4. over-long requests are approved clamped to the maximum
//  5. a rule with an active waiver is denied
//  6. everything else is approved at min(requested, default), with extra
//     conditions and a default-duration cap for major and critical rules
//
// A denial is a normal Evaluation, not an error. Errors are reserved for
// structurally invalid input.
func (s *Service) Evaluate(ctx context.Context, req *arbitration.WaiverRequest, rule *arbitration.ConstitutionalRule, deciderID string) (*Evaluation, error) {
	if err := validateRequest(req, rule, deciderID); err != nil {
		return nil, err
	}

	if !rule.Waivable {
		return &Evaluation{
			ShouldApprove: false,
			Reason:        fmt.Sprintf("rule %s is not waivable", rule.ID),
		}, nil
	}

	if s.cfg.RequireJustification && len(strings.TrimSpace(req.Justification)) < s.cfg.MinJustificationLen {
		return &Evaluation{
			ShouldApprove: false,
			Reason: fmt.Sprintf("justification must be at least %d characters",
				s.cfg.MinJustificationLen),
		}, nil
	}

	if len(req.Evidence) < s.cfg.MinEvidenceItems {
		missing := s.cfg.MinEvidenceItems - len(req.Evidence)
		if !s.cfg.AllowConditionalWaivers {
			return &Evaluation{
				ShouldApprove: false,
				Reason: fmt.Sprintf("%d evidence item(s) provided, %d required",
					len(req.Evidence), s.cfg.MinEvidenceItems),
			}, nil
		}
		return &Evaluation{
			ShouldApprove:       true,
			Reason:              "approved conditionally despite evidence shortfall",
			RecommendedDuration: s.cfg.DefaultDuration / 2,
			Conditions: []string{
				fmt.Sprintf("provide %d additional supporting evidence item(s)", missing),
				"waiver is subject to re-review once evidence is supplied",
			},
		}, nil
	}

	if req.RequestedFor > s.cfg.MaxDuration {
		return &Evaluation{
			ShouldApprove:       true,
			Reason:              fmt.Sprintf("approved, requested duration clamped to the %s maximum", s.cfg.MaxDuration),
			RecommendedDuration: s.cfg.MaxDuration,
			Conditions: []string{
				"an extension may be requested before expiry if more time is needed",
			},
		}, nil
	}

	active, err := s.activeDecision(ctx, rule.ID, s.now())
	if err != nil {
		return nil, err
	}
	if active != nil {
		return &Evaluation{
			ShouldApprove: false,
			Reason:        fmt.Sprintf("an active waiver already exists for rule %s", rule.ID),
		}, nil
	}

	eval := &Evaluation{
		ShouldApprove:       true,
		Reason:              "approved",
		RecommendedDuration: req.RequestedFor,
	}
	if eval.RecommendedDuration <= 0 || eval.RecommendedDuration > s.cfg.DefaultDuration {
		eval.RecommendedDuration = s.cfg.DefaultDuration
	}
	if rule.Severity == arbitration.SeverityMajor || rule.Severity == arbitration.SeverityCritical {
		eval.Conditions = append(eval.Conditions,
			"submit weekly progress reports while the waiver is in effect",
			"waiver is revoked immediately on breach of any condition",
		)
	}
	return eval, nil
}

func validateRequest(req *arbitration.WaiverRequest, rule *arbitration.ConstitutionalRule, deciderID string) error {
	if req == nil || req.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "waiver request lacks an ID")
	}
	if rule == nil || rule.ID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "rule required")
	}
	if req.RuleID != rule.ID {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("request targets rule %s but rule %s was supplied", req.RuleID, rule.ID))
	}
	if deciderID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "decider identity required")
	}
	return nil
}

// activeDecision returns the rule's current approved-and-unexpired decision,
// or nil when none exists.
func (s *Service) activeDecision(ctx context.Context, ruleID id.RuleID, now time.Time) (*arbitration.WaiverDecision, error) {
	existing, err := s.registry.FindByRule(ctx, ruleID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "waiver registry lookup failed")
	}
	if existing.IsActive(now) {
		return existing, nil
	}
	return nil, nil
}
