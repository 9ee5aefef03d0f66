package middleware

import (
	"strings"

	"travelweb/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRoles is role-based access control on top of Authenticate.
// Only requests whose role is in allowedRoles pass.
//
//	admin.Use(Authenticate(dec), RequireRoles("admin", "superadmin"))
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			abortAuth(c, domain.ForbiddenError{Msg: "forbidden: role tidak ditemukan pada token"})
			return
		}

		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			abortAuth(c, domain.ForbiddenError{Msg: "forbidden: role tidak diizinkan"})
			return
		}

		c.Next()
	}
}
