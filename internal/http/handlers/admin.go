package handlers

import (
	"net/http"

	"travelweb/internal/http/middleware"
	"travelweb/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuditLog lists recorded admin calls, newest first.
func (h *Handlers) AuditLog(c *gin.Context) {
	if !h.Audit.Enabled() {
		respondError(c, http.StatusServiceUnavailable, "audit_disabled", "audit log tidak aktif (DB_DSN kosong)", nil)
		return
	}
	p := utils.GetPagination(c, 20, 100)
	items, total, err := h.Audit.List(c.Request.Context(), p.Limit, p.Skip)
	if err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "audit", "list", "gagal: "+err.Error())
		respondError(c, http.StatusInternalServerError, "internal_error", "gagal memuat audit log", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"page":  p.Page,
		"limit": p.Limit,
		"total": total,
	})
}
