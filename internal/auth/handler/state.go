package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"irs-responder/internal/utils"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

func setFlowCookie(c *gin.Context, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func generateState(c *gin.Context, secure bool) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}

	setFlowCookie(c, stateCookieName, state, stateTTL, secure)
	return state, nil
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(stateQuery)) == 1
}

// clearFlowCookies drops the one-shot state and PKCE cookies.
func clearFlowCookies(c *gin.Context, secure bool) {
	setFlowCookie(c, stateCookieName, "", -time.Second, secure)
	setFlowCookie(c, pkceCookieName, "", -time.Second, secure)
}
