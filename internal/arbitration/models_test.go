package arbitration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

// ModelsSuite tests the shared data model invariants.
//
// Justification: every component builds on these predicates; lifecycle bugs
// here (expiry, status folding, audit chaining) would surface as invariant
// violations in all four services at once.
type ModelsSuite struct {
	suite.Suite
	now time.Time
}

func TestModelsSuite(t *testing.T) {
	suite.Run(t, new(ModelsSuite))
}

func (s *ModelsSuite) SetupTest() {
	s.now = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
}

func (s *ModelsSuite) TestSeverity() {
	s.Run("ranks order severities", func() {
		s.Less(SeverityMinor.Rank(), SeverityModerate.Rank())
		s.Less(SeverityModerate.Rank(), SeverityMajor.Rank())
		s.Less(SeverityMajor.Rank(), SeverityCritical.Rank())
	})

	s.Run("unknown severity is invalid and ranks lowest", func() {
		s.False(Severity("cosmic").IsValid())
		s.Equal(0, Severity("cosmic").Rank())
	})
}

func (s *ModelsSuite) TestNewSession() {
	violation := &ConstitutionalViolation{RuleID: "rule-1", Description: "unauthorized tool call", Severity: SeverityModerate}
	rules := []ConstitutionalRule{{ID: "rule-1", Title: "Tool boundaries", Severity: SeverityModerate}}

	s.Run("valid session", func() {
		sess, err := NewSession(id.SessionID(uuid.New()), violation, rules)
		s.Require().NoError(err)
		s.Equal(SessionAssembled, sess.State)
	})

	s.Run("missing id", func() {
		_, err := NewSession(id.SessionID{}, violation, rules)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidSession))
	})

	s.Run("missing violation", func() {
		_, err := NewSession(id.SessionID(uuid.New()), nil, rules)
		s.True(dErrors.HasCode(err, dErrors.CodeNoViolation))
	})

	s.Run("no rules", func() {
		_, err := NewSession(id.SessionID(uuid.New()), violation, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNoRules))
	})
}

func (s *ModelsSuite) TestWaiverDecisionLifecycle() {
	expiry := s.now.Add(24 * time.Hour)
	decision := WaiverDecision{
		RequestID: id.WaiverID(uuid.New()),
		RuleID:    "rule-9",
		Status:    WaiverApproved,
		ExpiresAt: &expiry,
	}

	s.Run("active before expiry", func() {
		s.True(decision.IsActive(s.now))
		s.Equal(WaiverApproved, decision.ComputeStatus(s.now))
	})

	s.Run("inactive after expiry", func() {
		later := expiry.Add(time.Minute)
		s.False(decision.IsActive(later))
		s.True(decision.IsExpired(later))
		s.Equal(WaiverRevoked, decision.ComputeStatus(later))
	})

	s.Run("revoked is terminal regardless of expiry", func() {
		revoked := decision
		revoked.Status = WaiverRevoked
		s.False(revoked.IsActive(s.now))
		s.Equal(WaiverRevoked, revoked.ComputeStatus(s.now))
	})

	s.Run("rejected never activates", func() {
		rejected := decision
		rejected.Status = WaiverRejected
		s.False(rejected.IsActive(s.now))
	})
}

func (s *ModelsSuite) TestNewWaiverDecisionInvariants() {
	s.Run("requires decider", func() {
		_, err := NewWaiverDecision(id.WaiverID(uuid.New()), "rule-1", WaiverApproved, "", s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("requires rule id", func() {
		_, err := NewWaiverDecision(id.WaiverID(uuid.New()), "", WaiverApproved, "decider-1", s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *ModelsSuite) TestVerdictAuditChain() {
	v := &Verdict{
		ID:        id.VerdictID(uuid.New()),
		SessionID: id.SessionID(uuid.New()),
		Outcome:   OutcomeApproved,
		IssuedAt:  s.now,
	}

	s.Require().NoError(v.AppendAudit(s.now, "verdict_generated", "arbiter-1", "outcome=approved"))
	s.Require().NoError(v.AppendAudit(s.now.Add(time.Hour), "appeal_decided", "panel", "upheld"))

	s.Run("chain verifies when intact", func() {
		idx, err := v.VerifyAudit()
		s.Require().NoError(err)
		s.Equal(-1, idx)
	})

	s.Run("tamper is detected", func() {
		tampered := v.Clone()
		tampered.Audit[0].Details = "outcome=rejected"
		idx, err := tampered.VerifyAudit()
		s.Require().NoError(err)
		s.Equal(0, idx)
	})

	s.Run("empty action rejected", func() {
		err := v.AppendAudit(s.now, "", "actor", "")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("zero timestamp still verifies", func() {
		stamped := v.Clone()
		s.Require().NoError(stamped.AppendAudit(time.Time{}, "waiver_granted", "decider-1", ""))
		s.False(stamped.Audit[len(stamped.Audit)-1].Timestamp.IsZero())

		idx, err := stamped.VerifyAudit()
		s.Require().NoError(err)
		s.Equal(-1, idx)
	})
}

func (s *ModelsSuite) TestVerdictMeanChainConfidence() {
	v := &Verdict{}
	s.Zero(v.MeanChainConfidence())

	v.Chain = []ReasoningStep{
		{Index: 1, Confidence: 0.9},
		{Index: 2, Confidence: 0.8},
	}
	s.InDelta(0.85, v.MeanChainConfidence(), 1e-9)
}

func (s *ModelsSuite) TestVerdictCloneIsDeep() {
	v := &Verdict{
		Chain:        []ReasoningStep{{Index: 1, EvidenceRefs: []string{"e1"}, RuleRefs: []id.RuleID{"r1"}}},
		EvidenceUsed: []string{"e1"},
		Conditions:   []string{"c1"},
	}
	clone := v.Clone()
	clone.Chain[0].EvidenceRefs[0] = "mutated"
	clone.EvidenceUsed[0] = "mutated"
	clone.Conditions[0] = "mutated"

	s.Equal("e1", v.Chain[0].EvidenceRefs[0])
	s.Equal("e1", v.EvidenceUsed[0])
	s.Equal("c1", v.Conditions[0])
}

func (s *ModelsSuite) TestNewAppealInvariants() {
	sessionID := id.SessionID(uuid.New())
	verdictID := id.VerdictID(uuid.New())

	s.Run("valid appeal starts submitted at level 1", func() {
		a, err := NewAppeal(id.AppealID(uuid.New()), sessionID, verdictID, "agent-7", s.now)
		s.Require().NoError(err)
		s.Equal(AppealSubmitted, a.Status)
		s.Equal(1, a.Level)
	})

	s.Run("verdict without id rejected", func() {
		_, err := NewAppeal(id.AppealID(uuid.New()), sessionID, id.VerdictID{}, "agent-7", s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidVerdict))
	})

	s.Run("decided states", func() {
		s.True(AppealUpheld.IsDecided())
		s.True(AppealOverturned.IsDecided())
		s.False(AppealSubmitted.IsDecided())
		s.False(AppealFinalized.IsDecided())
	})
}

func (s *ModelsSuite) TestClamp01() {
	s.Equal(0.0, Clamp01(-0.2))
	s.Equal(1.0, Clamp01(1.7))
	s.Equal(0.5, Clamp01(0.5))
}
