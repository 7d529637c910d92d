package guard

import (
	"errors"
	"net/http"

	"irs-responder/internal/session"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/auth/login"

var (
	// ErrUnauthorized is returned verbatim to API clients; its message is part
	// of the wire contract.
	ErrUnauthorized = errors.New("Unauthorized") //nolint:staticcheck

	// ErrRedirected means the response already holds a redirect to the login
	// page and the caller must not write anything else.
	ErrRedirected = errors.New("guard: redirected to login")
)

// OnAbsent decides what happens when no session resolves for r.
// It must return a non-nil error.
type OnAbsent func(w http.ResponseWriter, r *http.Request) error

// RedirectTo sends the client to location with 302 Found.
func RedirectTo(location string) OnAbsent {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, location, http.StatusFound)
		return ErrRedirected
	}
}

// Reject signals ErrUnauthorized without touching the response.
func Reject() OnAbsent {
	return func(http.ResponseWriter, *http.Request) error {
		return ErrUnauthorized
	}
}

// Require returns the session resolved for r or the error produced by onAbsent.
// The session is passed through untouched.
func Require(
	w http.ResponseWriter,
	r *http.Request,
	resolver Resolver,
	onAbsent OnAbsent,
) (*session.Session, error) {
	if resolver != nil {
		if sess, ok := resolver.Current(r); ok && sess != nil {
			decisions.WithLabelValues(outcomeAuthorized).Inc()
			return sess, nil
		}
	}

	var err error
	if onAbsent != nil {
		err = onAbsent(w, r)
	}
	if err == nil {
		err = ErrUnauthorized
	}

	decisions.WithLabelValues(outcomeFor(err)).Inc()
	return nil, err
}

// RequirePage guards page rendering. On ErrRedirected the caller returns
// without further output.
func RequirePage(w http.ResponseWriter, r *http.Request, resolver Resolver) (*session.Session, error) {
	return Require(w, r, resolver, RedirectTo(LoginPath))
}

// RequireAPI guards request handlers that answer with structured responses.
func RequireAPI(r *http.Request, resolver Resolver) (*session.Session, error) {
	return Require(nil, r, resolver, Reject())
}
