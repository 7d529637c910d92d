package guard

import (
	"net/http"
	"time"

	"irs-responder/internal/logger"
	"irs-responder/internal/session"
)

// Resolver reports the session attached to a request, if any.
// Absence is a normal result, not an error.
type Resolver interface {
	Current(r *http.Request) (*session.Session, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) (*session.Session, bool)

func (f ResolverFunc) Current(r *http.Request) (*session.Session, bool) {
	return f(r)
}

// StoreResolver reads the session cookie and loads the session from a store.
type StoreResolver struct {
	store session.Store
	now   func() time.Time
}

func NewStoreResolver(store session.Store) *StoreResolver {
	return &StoreResolver{
		store: store,
		now:   time.Now,
	}
}

func (s *StoreResolver) Current(r *http.Request) (*session.Session, bool) {
	sessionID, ok := session.IDFromRequest(r)
	if !ok {
		return nil, false
	}

	ctx := r.Context()

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		// store outages read as "no session"; the provider owns its own errors
		logger.Warn("session lookup failed", map[string]any{
			"error": err.Error(),
			"path":  r.URL.Path,
		})
		return nil, false
	}
	if sess == nil {
		return nil, false
	}

	if sess.Expired(s.now()) {
		_ = s.store.Delete(ctx, sessionID)
		return nil, false
	}

	return sess, true
}
