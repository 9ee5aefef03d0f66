package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"travelweb/internal/http/middleware"
	"travelweb/internal/services"
	"travelweb/internal/upstream"

	"github.com/gin-gonic/gin"
)

// defaultMaxBody caps browser request bodies forwarded to the backend.
const defaultMaxBody = 1 << 20

// relayedHeaders are copied from backend responses besides Content-Type.
// Set-Cookie is never relayed: the gateway owns the browser cookies.
var relayedHeaders = []string{
	"Cache-Control",
	"Content-Disposition",
	"ETag",
	"Last-Modified",
	"Link",
	"Location",
	"Retry-After",
	"X-Total-Count",
}

// Handlers carries the collaborators shared by every route.
type Handlers struct {
	Client  *upstream.Client
	Session *services.SessionService
	Audit   services.AuditService
	Docs    services.DocsService
	// DBPing backs /api/db-check; nil reports the database as not configured.
	DBPing func(ctx context.Context) error
}

// upstreamRequest builds the backend call for c with the browser's auth,
// query string and headers attached.
func upstreamRequest(c *gin.Context, method, path string, body []byte) upstream.Request {
	return upstream.Request{
		Method:        method,
		Path:          path,
		RawQuery:      c.Request.URL.RawQuery,
		Body:          body,
		Authorization: middleware.GetAuthorization(c),
		Header:        c.Request.Header,
		RequestID:     middleware.GetRequestID(c),
		ClientIP:      c.ClientIP(),
	}
}

// readBody reads at most limit bytes of the request body. ok is false when a
// response has already been written.
func readBody(c *gin.Context, limit int64) (body []byte, ok bool) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, true
	}
	if limit <= 0 {
		limit = defaultMaxBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "payload_too_large", "body terlalu besar", gin.H{"limit": limit})
			return nil, false
		}
		respondError(c, http.StatusBadRequest, "bad_request", "body tidak dapat dibaca", nil)
		return nil, false
	}
	return body, true
}

// relay writes the backend response verbatim.
func relay(c *gin.Context, res *upstream.Response) {
	relayBody(c, res, res.Body)
}

// relayBody writes res's status and headers with a replacement body.
func relayBody(c *gin.Context, res *upstream.Response, body []byte) {
	for _, h := range relayedHeaders {
		if v := res.Header.Get(h); v != "" {
			c.Header(h, v)
		}
	}
	if res.Status == http.StatusNoContent || res.Status == http.StatusNotModified || len(body) == 0 {
		c.Status(res.Status)
		c.Writer.WriteHeaderNow()
		return
	}
	ct := res.ContentType()
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Data(res.Status, ct, body)
}

// backendPath returns a function that joins segments into a backend path.
// Segments starting with ':' are read from the route params and escaped.
func backendPath(segments ...string) func(c *gin.Context) string {
	return func(c *gin.Context) string {
		parts := make([]string, 0, len(segments))
		for _, s := range segments {
			if strings.HasPrefix(s, ":") {
				parts = append(parts, c.Param(s[1:]))
				continue
			}
			parts = append(parts, s)
		}
		return upstream.PathEscape(parts...)
	}
}
