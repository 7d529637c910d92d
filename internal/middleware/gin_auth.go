package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"irs-responder/internal/guard"
	"irs-responder/internal/session"
)

// SessionKey is the gin context key holding the guarded *session.Session.
const SessionKey = "session"

// GinRequirePage is RequirePage for gin route groups.
func GinRequirePage(resolver guard.Resolver, loginPath string) gin.HandlerFunc {
	return Gin(RequirePage(resolver, loginPath))
}

// GinRequireAPI is RequireAPI for gin route groups.
func GinRequireAPI(resolver guard.Resolver) gin.HandlerFunc {
	return Gin(RequireAPI(resolver))
}

// Gin adapts a net/http middleware to gin. The gin chain continues only when
// the wrapped middleware calls its next handler.
func Gin(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			if sess, ok := guard.SessionFromContext(r.Context()); ok {
				c.Set(SessionKey, sess)
			}
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

// Session returns the session placed on c by a guard middleware.
func Session(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// MustSession is Session for handlers mounted behind a guard.
func MustSession(c *gin.Context) *session.Session {
	sess, ok := Session(c)
	if !ok {
		panic("session not found in context")
	}
	return sess
}
