package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"travelweb/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "gateway berjalan"})
}

// UpstreamCheck pings the backend health endpoint.
func (h *Handlers) UpstreamCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	res, err := h.Client.Ping(ctx, middleware.GetRequestID(c))
	latency := time.Since(start).Milliseconds()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": "backend tidak dapat dihubungi", "latency_ms": latency})
		return
	}
	if !res.OK() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "upstream_status": res.Status, "latency_ms": latency})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "upstream_status": res.Status, "latency_ms": latency})
}

func (h *Handlers) DBCheck(c *gin.Context) {
	if h.DBPing == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database belum dikonfigurasi"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.DBPing(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal ping database: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "koneksi database OK"})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router belum siap"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
