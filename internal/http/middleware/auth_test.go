package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestTokenDecoderVerified(t *testing.T) {
	tok := signToken(t, "s3cret", jwt.MapClaims{
		"sub":   "42",
		"email": "ops@example.test",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rc, err := TokenDecoder{Secret: []byte("s3cret")}.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", rc.UserID)
	assert.Equal(t, "admin", rc.Role)
	assert.Equal(t, "ops@example.test", rc.Email)

	_, err = TokenDecoder{Secret: []byte("other")}.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenDecoderUnverifiedStillChecksExpiry(t *testing.T) {
	fresh := signToken(t, "backend-only", jwt.MapClaims{
		"userId": float64(7),
		"roles":  []any{"customer"},
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	rc, err := TokenDecoder{}.Decode(fresh)
	require.NoError(t, err)
	assert.Equal(t, "7", rc.UserID)
	assert.Equal(t, "customer", rc.Role)

	stale := signToken(t, "backend-only", jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	_, err = TokenDecoder{}.Decode(stale)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = TokenDecoder{}.Decode("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken("Bearer"))
	assert.Empty(t, BearerToken(""))
}

func adminRouter(dec TokenDecoder) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/admin", Authenticate(dec), RequireRoles("admin", "superadmin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetRequestContext(c).UserID, "auth": GetAuthorization(c)})
	})
	return r
}

func TestAdminGate(t *testing.T) {
	dec := TokenDecoder{Secret: []byte("k")}
	r := adminRouter(dec)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"customer role", "Bearer " + signToken(t, "k", jwt.MapClaims{"sub": "1", "role": "customer"}), http.StatusForbidden},
		{"no role", "Bearer " + signToken(t, "k", jwt.MapClaims{"sub": "1"}), http.StatusForbidden},
		{"admin role", "Bearer " + signToken(t, "k", jwt.MapClaims{"sub": "1", "role": "Admin"}), http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.name)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), tc.name)
	}
}

func TestRequireBearer(t *testing.T) {
	r := gin.New()
	r.GET("/me", RequireBearer(), func(c *gin.Context) {
		c.String(http.StatusOK, GetAuthorization(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer tok", w.Body.String())
}

func TestRequestIDKeepsIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-123", w.Body.String())
	assert.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))
}
