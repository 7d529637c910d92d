package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"irs-responder/internal/guard"
)

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	sess, ok := guard.SessionFromContext(ctx)
	if !ok {
		return "", false
	}
	return sess.Subject(), true
}

// RequirePage lets page requests through only with a session and otherwise
// redirects to loginPath.
func RequirePage(resolver guard.Resolver, loginPath string) func(http.Handler) http.Handler {
	return requireSession(resolver, guard.RedirectTo(loginPath))
}

// RequireAPI lets API requests through only with a session and otherwise
// answers 401 {"error":"Unauthorized"}.
func RequireAPI(resolver guard.Resolver) func(http.Handler) http.Handler {
	return requireSession(resolver, guard.Reject())
}

func requireSession(resolver guard.Resolver, onAbsent guard.OnAbsent) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := guard.Require(w, r, resolver, onAbsent)
			if err != nil {
				if !errors.Is(err, guard.ErrRedirected) {
					WriteUnauthorized(w, err)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(guard.WithSession(r.Context(), sess)))
		})
	}
}

// WriteUnauthorized writes a 401 JSON body carrying err's message.
func WriteUnauthorized(w http.ResponseWriter, err error) {
	if err == nil {
		err = guard.ErrUnauthorized
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
