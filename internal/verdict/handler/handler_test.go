package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"concord/internal/platform/middleware"
	"concord/internal/verdict"
)

const testIssuer = "arbiter-1"

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := verdict.New(verdict.DefaultConfig())
	h := New(svc, logger)

	r := chi.NewRouter()
	r.Use(injectActor(testIssuer))
	h.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

// injectActor stands in for the bearer-token middleware so handler tests
// exercise routing without minting tokens.
func injectActor(actor string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithActor(r.Context(), actor)))
		})
	}
}

func sessionBody(sessionID string) map[string]any {
	return map[string]any{
		"session": map[string]any{
			"id": sessionID,
			"violation": map[string]any{
				"rule_id":     "rule-sec-001",
				"description": "agent accessed credentials outside scope",
				"severity":    "moderate",
			},
			"rules": []map[string]any{{
				"id":       "rule-sec-001",
				"title":    "Credential Access",
				"category": "security",
				"severity": "moderate",
				"waivable": true,
			}},
			"evidence": []string{"log-001", "log-002", "log-003"},
		},
	}
}

func (s *HandlerSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestGenerate() {
	sessionID := uuid.New().String()
	rec := s.postJSON("/arbitration/verdicts", sessionBody(sessionID))

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var res GenerateResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal(sessionID, res.Verdict.SessionID)
	s.Equal(testIssuer, res.Verdict.IssuedBy)
	s.NotEmpty(res.Verdict.Outcome)
	s.NotEmpty(res.Verdict.Chain)
	s.NotEmpty(res.Verdict.Audit)
	s.NotEmpty(res.Digest)
}

func (s *HandlerSuite) TestGenerate_InvalidJSON() {
	req := httptest.NewRequest(http.MethodPost, "/arbitration/verdicts",
		bytes.NewReader([]byte("not valid json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code, "expected 400 for invalid JSON")
}

func (s *HandlerSuite) TestGenerate_MissingViolation() {
	body := sessionBody(uuid.New().String())
	delete(body["session"].(map[string]any), "violation")

	rec := s.postJSON("/arbitration/verdicts", body)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "no_violation")
}

func (s *HandlerSuite) TestGenerate_WaiverRequestShortCircuits() {
	body := sessionBody(uuid.New().String())
	body["session"].(map[string]any)["waiver_request"] = map[string]any{
		"id":            uuid.New().String(),
		"rule_id":       "rule-sec-001",
		"justification": "migration window requires temporary exemption",
		"evidence":      []string{"migration plan"},
		"requested_for": "72h",
	}

	rec := s.postJSON("/arbitration/verdicts", body)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var res GenerateResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal("waived", res.Verdict.Outcome, "pending waiver request must override every other outcome")
}

func (s *HandlerSuite) TestGenerate_WaiverRequestBadDuration() {
	body := sessionBody(uuid.New().String())
	body["session"].(map[string]any)["waiver_request"] = map[string]any{
		"id":            uuid.New().String(),
		"rule_id":       "rule-sec-001",
		"justification": "j",
		"requested_for": "three days",
	}

	rec := s.postJSON("/arbitration/verdicts", body)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "invalid duration")
}

func (s *HandlerSuite) TestGenerate_InvalidViolationSeverity() {
	body := sessionBody(uuid.New().String())
	body["session"].(map[string]any)["violation"].(map[string]any)["severity"] = "catastrophic"

	rec := s.postJSON("/arbitration/verdicts", body)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "invalid violation severity")
}

func (s *HandlerSuite) TestGenerate_BadSessionID() {
	rec := s.postJSON("/arbitration/verdicts", sessionBody("not-a-uuid"))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGenerate_MissingActor() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(verdict.New(verdict.DefaultConfig()), logger)
	r := chi.NewRouter()
	h.Register(r)

	raw, err := json.Marshal(sessionBody(uuid.New().String()))
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, "/arbitration/verdicts", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	s.Equal(http.StatusInternalServerError, rec.Code, "expected 500 when actor context missing")
}
