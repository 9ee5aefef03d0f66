package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one access line per request. Query strings and bodies are
// left out because they can carry tokens and passenger data.
func Logger(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok && c.Writer.Status() < 400 {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "-"
		}
		user := c.GetString(userIDKey)
		if user == "" {
			user = "-"
		}

		log.Printf("[HTTP] request_id=%s method=%s path=%s route=%s status=%d bytes=%d user=%s latency_ms=%.3f ip=%s",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			route,
			c.Writer.Status(),
			c.Writer.Size(),
			user,
			float64(time.Since(start).Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
