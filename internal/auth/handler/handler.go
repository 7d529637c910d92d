package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"irs-responder/internal/auth/provider"
	"irs-responder/internal/auth/resolver"
	"irs-responder/internal/logger"
	"irs-responder/internal/session"
)

// CredentialService is the password login backend.
type CredentialService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
}

type Options struct {
	SessionTTL   time.Duration
	CookieSecure bool
	LoginPath    string
	// AfterLogin is where browsers land after a successful login.
	AfterLogin string
}

type Handler struct {
	providers         *provider.Registry
	sessionStore      session.Store
	resolver          resolver.Resolver
	credentialService CredentialService
	opts              Options
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	resolver resolver.Resolver,
	credentialService CredentialService,
	opts Options,
) *Handler {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/auth/login"
	}
	if opts.AfterLogin == "" {
		opts.AfterLogin = "/dashboard"
	}

	return &Handler{
		providers:         registry,
		sessionStore:      sessionStore,
		resolver:          resolver,
		credentialService: credentialService,
		opts:              opts,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET(h.opts.LoginPath, h.LoginPage)
	r.POST(h.opts.LoginPath, h.Login)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/logout", h.Logout)
	r.GET("/oauth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)
}

func (h *Handler) cookieOptions() session.CookieOptions {
	return session.DefaultCookieOptions(h.opts.CookieSecure)
}

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"LoginPath": h.opts.LoginPath,
		"Providers": h.providers.Names(),
		"Error":     c.Query("error"),
	})
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state, err := generateState(c, h.opts.CookieSecure)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state error"})
		return
	}
	_, codeChallenge, err := generatePKCE(c, h.opts.CookieSecure)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pkce error"})
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}
	clearFlowCookies(c, h.opts.CookieSecure)

	// The provider reports errors (for example a cancelled consent screen)
	// through query parameters. Send the user back to start a fresh flow.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, h.opts.LoginPath)
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		logger.Warn("oidc code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	userID, err := h.resolver.Resolve(c.Request.Context(), identity)
	if errors.Is(err, resolver.ErrUnverifiedEmail) {
		logger.Warn("unverified identity matches existing user", map[string]any{
			"provider": providerName,
		})
		c.JSON(http.StatusConflict, gin.H{
			"error": "email not verified by provider; sign in with your original method",
		})
		return
	}
	if err != nil {
		logger.Error("identity resolution failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	if !h.startSession(c, userID) {
		return
	}

	logger.Info("login succeeded", map[string]any{
		"user_id":   userID,
		"provider":  providerName,
		"client_ip": c.ClientIP(),
	})

	c.Redirect(http.StatusFound, h.opts.AfterLogin)
}

// startSession issues a session cookie. It writes the error response itself
// and returns false on failure.
func (h *Handler) startSession(c *gin.Context, userID string) bool {
	_, err := session.Issue(
		c.Request.Context(),
		h.sessionStore,
		c.Writer,
		userID,
		h.opts.SessionTTL,
		h.cookieOptions(),
	)
	if err != nil {
		logger.Error("session issue failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return false
	}
	return true
}

func (h *Handler) Logout(c *gin.Context) {
	if sessionID, ok := session.IDFromRequest(c.Request); ok {
		// best-effort: the cookie is cleared either way
		if err := h.sessionStore.Delete(c.Request.Context(), sessionID); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
		logger.Info("logout", map[string]any{
			"client_ip": c.ClientIP(),
		})
	}

	session.ClearCookie(c.Writer, h.cookieOptions())

	c.Status(http.StatusNoContent)
}
