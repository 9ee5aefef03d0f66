package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	intconfig "travelweb/internal/config"
	h "travelweb/internal/http/handlers"
	"travelweb/internal/http/middleware"
	"travelweb/internal/services"
	"travelweb/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"path":"`+r.URL.Path+`"}`)
	}))
	t.Cleanup(backend.Close)

	session, err := services.NewSessionService(services.SessionConfig{Secret: "cookie-secret"})
	require.NoError(t, err)
	hs := &h.Handlers{Client: upstream.New(backend.URL, 2*time.Second), Session: session}

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{Rate: 2, Window: time.Minute, Burst: 0})
	t.Cleanup(limiter.Stop)

	env := intconfig.Env{
		JWTSecret:          testJWTSecret,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	return NewRouter(env, hs, limiter), &calls
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "9",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func serve(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRejectBeforeBackend(t *testing.T) {
	r, calls := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/admin/bookings", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/api/admin/bookings", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/api/admin/bookings", bearer(t, "customer"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Zero(t, calls.Load())

	w = serve(r, http.MethodGet, "/api/admin/bookings?status=paid", bearer(t, "Staff"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/admin/bookings"}`, w.Body.String())
	assert.EqualValues(t, 1, calls.Load())
}

func TestBearerRoutesRequireToken(t *testing.T) {
	r, calls := newTestRouter(t)

	for _, path := range []string{"/api/bookings", "/api/dashboard/summary", "/api/auth/me", "/api/bookings/TRV-1/timeline"} {
		w := serve(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	assert.Zero(t, calls.Load())

	w := serve(r, http.MethodGet, "/api/bookings/TRV-1", "Bearer anything")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/bookings/TRV-1"}`, w.Body.String())
}

func TestCatalogueRoutesAreOpen(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/packages/bali-4d3n", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/packages/bali-4d3n"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/api/flights/search?from=CGK&to=DPS", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/flights/search"}`, w.Body.String())
}

func TestLoginIsRateLimited(t *testing.T) {
	r, _ := newTestRouter(t)

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, login())
	assert.Equal(t, http.StatusOK, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route tidak ditemukan")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuditDisabledWithoutDatabase(t *testing.T) {
	r, _ := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/admin/audit", bearer(t, "admin"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "audit_disabled")
}
