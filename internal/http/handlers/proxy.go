package handlers

import (
	"time"

	"travelweb/internal/domain/models"
	"travelweb/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Route describes a pass-through call to the backend.
type Route struct {
	// Method overrides the backend method; empty keeps the browser's.
	Method string
	Path   func(c *gin.Context) string
	// Extra names browser headers forwarded on top of the defaults.
	Extra   []string
	MaxBody int64
	// Audited routes record an admin audit row after the backend answers.
	Audited bool
}

// To is the common case: same method, static or param path.
func To(segments ...string) Route {
	return Route{Path: backendPath(segments...)}
}

// Forward relays the request to the backend and its answer back unchanged.
func (h *Handlers) Forward(rt Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := readBody(c, rt.MaxBody)
		if !ok {
			return
		}
		method := rt.Method
		if method == "" {
			method = c.Request.Method
		}
		req := upstreamRequest(c, method, rt.Path(c), body)
		req.Extra = rt.Extra

		res, err := h.Client.Do(c.Request.Context(), req)
		if rt.Audited {
			status := 0
			if res != nil {
				status = res.Status
			}
			h.recordAudit(c, status)
		}
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		relay(c, res)
	}
}

func (h *Handlers) recordAudit(c *gin.Context, status int) {
	rc := middleware.GetRequestContext(c)
	e := models.AuditEntry{
		RequestID:      middleware.GetRequestID(c),
		UserID:         rc.UserID,
		Role:           rc.Role,
		Method:         c.Request.Method,
		Path:           c.Request.URL.Path,
		UpstreamStatus: status,
		CreatedAt:      time.Now().UTC(),
	}
	h.Audit.Record(c.Request.Context(), e)
}
