package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travelweb/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authorizationKey = "authorization"
	userIDKey        = "userId"
	userRoleKey      = "userRole"
	userEmailKey     = "userEmail"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenDecoder reads identity claims from backend-issued access tokens.
// With an empty Secret the signature is not checked: the backend still
// validates every forwarded token, the gateway only needs the role to
// route admin calls.
type TokenDecoder struct {
	Secret []byte
	Now    func() time.Time
}

func (d TokenDecoder) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d TokenDecoder) Decode(token string) (domain.RequestContext, error) {
	claims := jwt.MapClaims{}
	if len(d.Secret) > 0 {
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithTimeFunc(d.now),
		)
		_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return d.Secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return domain.RequestContext{}, ErrTokenExpired
			}
			return domain.RequestContext{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return domain.RequestContext{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !d.now().Before(exp.Time) {
			return domain.RequestContext{}, ErrTokenExpired
		}
	}

	return domain.RequestContext{
		UserID: firstClaim(claims, "sub", "userId", "user_id", "id"),
		Email:  firstClaim(claims, "email"),
		Role:   roleClaim(claims),
	}, nil
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := claims[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func roleClaim(claims jwt.MapClaims) string {
	if r := firstClaim(claims, "role"); r != "" {
		return r
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// BearerToken returns the token part of "Authorization: Bearer <token>".
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireBearer rejects requests without a bearer token before they reach the backend.
func RequireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if BearerToken(header) == "" {
			abortAuth(c, domain.UnauthorizedError{Msg: ErrMissingToken.Error(), Err: ErrMissingToken})
			return
		}
		c.Set(authorizationKey, header)
		c.Next()
	}
}

// Authenticate requires a bearer token and stores its claims on the context.
func Authenticate(decoder TokenDecoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := BearerToken(header)
		if token == "" {
			abortAuth(c, domain.UnauthorizedError{Msg: ErrMissingToken.Error(), Err: ErrMissingToken})
			return
		}
		rc, err := decoder.Decode(token)
		if err != nil {
			msg := ErrInvalidToken.Error()
			if errors.Is(err, ErrTokenExpired) {
				msg = ErrTokenExpired.Error()
			}
			abortAuth(c, domain.UnauthorizedError{Msg: msg, Err: err})
			return
		}
		c.Set(authorizationKey, header)
		c.Set(userIDKey, rc.UserID)
		c.Set(userRoleKey, rc.Role)
		c.Set(userEmailKey, rc.Email)
		c.Next()
	}
}

// GetAuthorization returns the Authorization header to forward, if any.
func GetAuthorization(c *gin.Context) string {
	if v := c.GetString(authorizationKey); v != "" {
		return v
	}
	if BearerToken(c.GetHeader("Authorization")) != "" {
		return c.GetHeader("Authorization")
	}
	return ""
}

// GetRequestContext returns identity stored by Authenticate.
func GetRequestContext(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID: c.GetString(userIDKey),
		Email:  c.GetString(userEmailKey),
		Role:   c.GetString(userRoleKey),
	}
}

// abortAuth answers 401 or 403 depending on err.
func abortAuth(c *gin.Context, err error) {
	status, code := http.StatusUnauthorized, "unauthorized"
	if domain.IsForbidden(err) {
		status, code = http.StatusForbidden, "forbidden"
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      err.Error(),
		"code":       code,
		"request_id": GetRequestID(c),
	})
}
