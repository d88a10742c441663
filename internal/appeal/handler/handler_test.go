package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"concord/internal/appeal/handler/mocks"
	"concord/internal/arbitration"
	"concord/internal/platform/middleware"
	id "concord/pkg/domain"
	dErrors "concord/pkg/domain-errors"
)

const testAppellant = "agent-operator"

type HandlerSuite struct {
	suite.Suite
	router      http.Handler
	ctrl        *gomock.Controller
	mockService *mocks.MockService

	sessionID id.SessionID
	verdictID id.VerdictID
	appealID  id.AppealID
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(s.mockService, logger)

	r := chi.NewRouter()
	r.Use(middleware.ClientInfo)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithActor(r.Context(), testAppellant)))
		})
	})
	h.Register(r)
	s.router = r

	s.sessionID = id.SessionID(uuid.New())
	s.verdictID = id.VerdictID(uuid.New())
	s.appealID = id.AppealID(uuid.New())
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) post(path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) verdictBody() map[string]any {
	return map[string]any{
		"id":         s.verdictID.String(),
		"session_id": s.sessionID.String(),
		"outcome":    "rejected",
		"confidence": 0.8,
		"issued_by":  "arbiter-1",
		"issued_at":  time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *HandlerSuite) submitBody() map[string]any {
	return map[string]any{
		"session": map[string]any{
			"id": s.sessionID.String(),
			"violation": map[string]any{
				"rule_id":     "rule-sec-001",
				"description": "credential access",
				"severity":    "major",
			},
			"rules": []map[string]any{{
				"id":       "rule-sec-001",
				"severity": "major",
			}},
		},
		"original_verdict": s.verdictBody(),
		"grounds":          "the reviewers overlooked exculpatory evidence in the audit trail",
		"new_evidence":     []string{"full audit trail export"},
	}
}

func (s *HandlerSuite) storedAppeal() *arbitration.Appeal {
	return &arbitration.Appeal{
		ID:          s.appealID,
		SessionID:   s.sessionID,
		VerdictID:   s.verdictID,
		Appellant:   testAppellant,
		Grounds:     "the reviewers overlooked exculpatory evidence in the audit trail",
		Status:      arbitration.AppealSubmitted,
		Level:       1,
		SubmittedAt: time.Now().UTC(),
		Metadata:    arbitration.Metadata{},
	}
}

func (s *HandlerSuite) TestSubmit() {
	var captured arbitration.Metadata
	s.mockService.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any(), testAppellant,
			"the reviewers overlooked exculpatory evidence in the audit trail",
			[]string{"full audit trail export"}, gomock.Any()).
		DoAndReturn(func(_, _, _, _, _, _ any, metadata arbitration.Metadata) (*arbitration.Appeal, error) {
			captured = metadata
			return s.storedAppeal(), nil
		})

	rec := s.post("/arbitration/appeals", s.submitBody())

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var res AppealResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal(s.appealID.String(), res.ID)
	s.Equal(string(arbitration.AppealSubmitted), res.Status)
	s.Equal(1, res.Level)

	s.Require().Contains(captured, "client", "client fingerprint should be folded into metadata")
	var client clientRecord
	s.Require().NoError(json.Unmarshal(captured["client"], &client))
	s.Equal("Chrome", client.Browser)
}

func (s *HandlerSuite) TestSubmit_InsufficientGrounds() {
	s.mockService.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any(), testAppellant, "too short", gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInsufficientGrounds, "appeal grounds must be at least 20 characters"))

	body := s.submitBody()
	body["grounds"] = "too short"
	rec := s.post("/arbitration/appeals", body)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "insufficient_grounds")
}

func (s *HandlerSuite) TestSubmit_InvalidJSON() {
	req := httptest.NewRequest(http.MethodPost, "/arbitration/appeals",
		bytes.NewReader([]byte("not valid json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code, "expected 400 for invalid JSON")
}

func (s *HandlerSuite) TestGet() {
	s.mockService.EXPECT().
		Get(gomock.Any(), s.appealID).
		Return(s.storedAppeal(), nil)

	req := httptest.NewRequest(http.MethodGet, "/arbitration/appeals/"+s.appealID.String(), nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)

	var res AppealResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal(s.appealID.String(), res.ID)
}

func (s *HandlerSuite) TestGet_NotFound() {
	unknown := id.AppealID(uuid.New())
	s.mockService.EXPECT().
		Get(gomock.Any(), unknown).
		Return(nil, dErrors.New(dErrors.CodeAppealNotFound, "appeal not found"))

	req := httptest.NewRequest(http.MethodGet, "/arbitration/appeals/"+unknown.String(), nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestGet_BadID() {
	req := httptest.NewRequest(http.MethodGet, "/arbitration/appeals/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestReview_Overturned() {
	replacement := &arbitration.Verdict{
		ID:         id.VerdictID(uuid.New()),
		SessionID:  s.sessionID,
		Outcome:    arbitration.OutcomeConditional,
		Confidence: 0.9,
		IssuedBy:   "senior-arbiter",
		IssuedAt:   time.Now().UTC(),
	}
	s.mockService.EXPECT().
		Review(gomock.Any(), s.appealID, []string{"senior-arbiter"}, gomock.Any()).
		Return(&arbitration.AppealDecision{
			AppealID:    s.appealID,
			Outcome:     arbitration.AppealDecisionOverturned,
			Replacement: replacement,
			Reasoning:   "appeal succeeded with score 0.85",
			Reviewers:   []string{"senior-arbiter"},
			DecidedAt:   time.Now().UTC(),
			Confidence:  0.9,
		}, nil)

	rec := s.post("/arbitration/appeals/"+s.appealID.String()+"/review", map[string]any{
		"reviewers":        []string{"senior-arbiter"},
		"original_verdict": s.verdictBody(),
	})

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res DecisionResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal(string(arbitration.AppealDecisionOverturned), res.Outcome)
	s.Require().NotNil(res.Replacement)
	s.Equal(string(arbitration.OutcomeConditional), res.Replacement.Outcome)
}

func (s *HandlerSuite) TestReview_AlreadyDecided() {
	s.mockService.EXPECT().
		Review(gomock.Any(), s.appealID, []string{"senior-arbiter"}, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvalidAppealState, "appeal is not awaiting review"))

	rec := s.post("/arbitration/appeals/"+s.appealID.String()+"/review", map[string]any{
		"reviewers":        []string{"senior-arbiter"},
		"original_verdict": s.verdictBody(),
	})

	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestEscalate() {
	escalated := s.storedAppeal()
	escalated.Level = 2
	s.mockService.EXPECT().
		Escalate(gomock.Any(), s.appealID, "first review missed procedural defect").
		Return(escalated, nil)

	rec := s.post("/arbitration/appeals/"+s.appealID.String()+"/escalate", map[string]any{
		"reason": "first review missed procedural defect",
	})

	s.Require().Equal(http.StatusOK, rec.Code)

	var res AppealResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal(2, res.Level)
}

func (s *HandlerSuite) TestEscalate_MaxLevel() {
	s.mockService.EXPECT().
		Escalate(gomock.Any(), s.appealID, "again").
		Return(nil, dErrors.New(dErrors.CodeMaxAppealLevel, "appeal already at maximum level"))

	rec := s.post("/arbitration/appeals/"+s.appealID.String()+"/escalate", map[string]any{
		"reason": "again",
	})

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "max_appeal_level")
}

func (s *HandlerSuite) TestFinalize() {
	finalized := s.storedAppeal()
	finalized.Status = arbitration.AppealFinalized
	s.mockService.EXPECT().
		Finalize(gomock.Any(), s.appealID).
		Return(finalized, nil)

	rec := s.post("/arbitration/appeals/"+s.appealID.String()+"/finalize", map[string]any{})

	s.Require().Equal(http.StatusOK, rec.Code)

	var res AppealResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal(string(arbitration.AppealFinalized), res.Status)
}
