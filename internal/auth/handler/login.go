package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"irs-responder/internal/auth/credentials"
	"irs-responder/internal/logger"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func isFormPost(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEPOSTForm
}

// Login authenticates with email and password. HTML form posts are answered
// with redirects, JSON posts with JSON.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, http.StatusBadRequest, "invalid request")
		return
	}

	userID, err := h.credentialService.Authenticate(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			h.loginFailed(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.Error("password login failed", map[string]any{
			"error": err.Error(),
		})
		h.loginFailed(c, http.StatusInternalServerError, "login unavailable")
		return
	}

	if !h.startSession(c, userID) {
		return
	}

	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, h.opts.AfterLogin)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}

func (h *Handler) loginFailed(c *gin.Context, status int, msg string) {
	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, h.opts.LoginPath+"?error="+url.QueryEscape(msg))
		return
	}
	c.JSON(status, gin.H{"error": msg})
}
