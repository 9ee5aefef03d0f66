package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"travelweb/internal/http/middleware"
	"travelweb/internal/services"
	"travelweb/internal/upstream"
	"travelweb/internal/utils"

	"github.com/gin-gonic/gin"
)

// Login forwards credentials and moves the refresh token into the cookie.
func (h *Handlers) Login(c *gin.Context) {
	h.startSession(c, "login")
}

// Register behaves like Login when the backend signs the new user in.
func (h *Handlers) Register(c *gin.Context) {
	h.startSession(c, "register")
}

func (h *Handlers) startSession(c *gin.Context, action string) {
	body, ok := readBody(c, 0)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(c)
	res, err := h.Client.Do(c.Request.Context(), upstreamRequest(c, http.MethodPost, upstream.PathEscape("auth", action), body))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !res.OK() {
		utils.LogEvent(reqID, "session", action, fmt.Sprintf("ditolak backend status=%d", res.Status))
		relay(c, res)
		return
	}

	token, stripped, err := services.ExtractRefreshToken(res.Body)
	if err != nil {
		utils.LogEvent(reqID, "session", action, "strip token gagal: "+err.Error())
		respondInternal(c)
		return
	}
	if token != "" && !h.setRefreshCookie(c, token, action) {
		return
	}
	relayBody(c, res, stripped)
}

// Refresh trades the cookie's refresh token for a new access token.
func (h *Handlers) Refresh(c *gin.Context) {
	reqID := middleware.GetRequestID(c)
	token, err := h.Session.RefreshToken(c.Request)
	if err != nil {
		if errors.Is(err, services.ErrBadCookie) {
			utils.LogEvent(reqID, "session", "refresh", "cookie tidak valid, dihapus")
			http.SetCookie(c.Writer, h.Session.ClearCookie())
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token missing", "request_id": reqID})
		return
	}

	req := upstreamRequest(c, http.MethodPost, upstream.PathEscape("auth", "refresh"), services.RefreshRequestBody(token))
	req.Header = contentTypeJSON(c.Request.Header)
	res, err := h.Client.Do(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !res.OK() {
		if res.Status == http.StatusUnauthorized {
			utils.LogEvent(reqID, "session", "refresh", "refresh token ditolak, cookie dihapus")
			http.SetCookie(c.Writer, h.Session.ClearCookie())
		}
		relay(c, res)
		return
	}

	rotated, stripped, err := services.ExtractRefreshToken(res.Body)
	if err != nil {
		respondInternal(c)
		return
	}
	if rotated != "" && rotated != token && !h.setRefreshCookie(c, rotated, "refresh") {
		return
	}
	relayBody(c, res, stripped)
}

// Logout revokes the refresh token on the backend and always clears the cookie.
func (h *Handlers) Logout(c *gin.Context) {
	reqID := middleware.GetRequestID(c)
	http.SetCookie(c.Writer, h.Session.ClearCookie())

	token, err := h.Session.RefreshToken(c.Request)
	if err != nil {
		utils.LogEvent(reqID, "session", "logout", "tanpa refresh token")
		c.Status(http.StatusNoContent)
		c.Writer.WriteHeaderNow()
		return
	}

	req := upstreamRequest(c, http.MethodPost, upstream.PathEscape("auth", "logout"), services.RefreshRequestBody(token))
	req.Header = contentTypeJSON(c.Request.Header)
	res, err := h.Client.Do(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(reqID, "session", "logout", "cookie dihapus")
	relay(c, res)
}

func (h *Handlers) setRefreshCookie(c *gin.Context, token, action string) bool {
	cookie, err := h.Session.Cookie(token)
	if err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "session", action, "seal cookie gagal: "+err.Error())
		respondInternal(c)
		return false
	}
	http.SetCookie(c.Writer, cookie)
	utils.LogEvent(middleware.GetRequestID(c), "session", action, "refresh cookie diset")
	return true
}

// contentTypeJSON copies h with a JSON content type, for bodies the
// gateway writes itself.
func contentTypeJSON(h http.Header) http.Header {
	out := h.Clone()
	if out == nil {
		out = http.Header{}
	}
	out.Set("Content-Type", "application/json")
	return out
}
