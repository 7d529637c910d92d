package session

import (
	"context"
	"net/http"
	"time"
)

// Issue creates a session for userID, persists it and sets the cookie.
func Issue(
	ctx context.Context,
	store Store,
	w http.ResponseWriter,
	userID string,
	ttl time.Duration,
	opts CookieOptions,
) (*Session, error) {
	sessionID, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := store.Create(ctx, sess); err != nil {
		return nil, err
	}

	SetCookie(w, sessionID, sess.ExpiresAt, opts)
	return &sess, nil
}
