package httptransport

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"concord/internal/platform/middleware"
)

const testSigningKey = "router-test-key"

type echoHandler struct {
	lastActor string
}

func (h *echoHandler) Register(r chi.Router) {
	r.Post("/arbitration/echo", func(w http.ResponseWriter, r *http.Request) {
		h.lastActor = middleware.GetActor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

type RouterSuite struct {
	suite.Suite
	router http.Handler
	echo   *echoHandler
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.echo = &echoHandler{}
	s.router = NewRouter(Config{
		JWTSigningKey:  testSigningKey,
		RequestTimeout: 5 * time.Second,
	}, logger, s.echo)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) signedToken(subject string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSigningKey))
	s.Require().NoError(err)
	return signed
}

func (s *RouterSuite) TestHealthzOpen() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "alive")
}

func (s *RouterSuite) TestMetricsOpen() {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestArbitrationRequiresToken() {
	req := httptest.NewRequest(http.MethodPost, "/arbitration/echo", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code, "expected 401 without bearer token")
}

func (s *RouterSuite) TestArbitrationWithToken() {
	req := httptest.NewRequest(http.MethodPost, "/arbitration/echo", nil)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.signedToken("arbiter-1"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal("arbiter-1", s.echo.lastActor)
}

func (s *RouterSuite) TestContentTypeEnforced() {
	req := httptest.NewRequest(http.MethodPost, "/arbitration/echo", nil)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Authorization", "Bearer "+s.signedToken("arbiter-1"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
}
