package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irs-responder/internal/session"
)

func TestSetAndClearCookie(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	session.SetCookie(w, "abc", time.Now().Add(time.Hour), session.CookieOptions{Secure: true})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, session.CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	w = httptest.NewRecorder()
	session.ClearCookie(w, session.DefaultCookieOptions(true))
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCookieKeepsHostPrefixRequirements(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	session.SetCookie(w, "abc", time.Now().Add(time.Hour), session.CookieOptions{Path: "/app", Secure: false})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Empty(t, cookies[0].Domain)

	w = httptest.NewRecorder()
	session.ClearCookie(w, session.DefaultCookieOptions(false))
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestIDFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := session.IDFromRequest(r)
	assert.False(t, ok)

	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid"})
	id, ok := session.IDFromRequest(r)
	assert.True(t, ok)
	assert.Equal(t, "sid", id)

	_, ok = session.IDFromRequest(nil)
	assert.False(t, ok)
}

func TestIssue(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	w := httptest.NewRecorder()

	sess, err := session.Issue(context.Background(), store, w, "u1", time.Hour, session.DefaultCookieOptions(true))
	require.NoError(t, err)
	require.NotNil(t, sess)

	assert.Equal(t, "u1", sess.UserID)
	assert.True(t, mr.Exists("session:"+sess.SessionID))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sess.SessionID, cookies[0].Value)
}

func TestGenerateIDUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		id, err := session.GenerateID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
