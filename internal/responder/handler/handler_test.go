package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irs-responder/internal/guard"
	"irs-responder/internal/middleware"
	"irs-responder/internal/responder"
	"irs-responder/internal/responder/handler"
	"irs-responder/internal/session"
	"irs-responder/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memRepo struct {
	mu     sync.Mutex
	seq    int
	drafts map[string]responder.Draft
}

func newMemRepo() *memRepo {
	return &memRepo{drafts: make(map[string]responder.Draft)}
}

func (m *memRepo) Insert(_ context.Context, d *responder.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	d.ID = fmt.Sprintf("d%d", m.seq)
	d.CreatedAt = time.Now()
	m.drafts[d.ID] = *d
	return nil
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]responder.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]responder.Draft, 0)
	for _, d := range m.drafts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, userID, id string) (*responder.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok || d.UserID != userID {
		return nil, responder.ErrNotFound
	}
	return &d, nil
}

func (m *memRepo) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok || d.UserID != userID {
		return responder.ErrNotFound
	}
	delete(m.drafts, id)
	return nil
}

// cookieResolver maps the session cookie value straight to a subject.
var cookieResolver = guard.ResolverFunc(func(r *http.Request) (*session.Session, bool) {
	id, ok := session.IDFromRequest(r)
	if !ok {
		return nil, false
	}
	return &session.Session{SessionID: id, UserID: id, ExpiresAt: time.Now().Add(time.Hour)}, true
})

func newRouter(t *testing.T) (*gin.Engine, *memRepo) {
	t.Helper()

	tmpl, err := web.Templates()
	require.NoError(t, err)

	repo := newMemRepo()
	h := handler.NewHandler(responder.NewService(repo))

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	pages := r.Group("/")
	pages.Use(middleware.GinRequirePage(cookieResolver, guard.LoginPath))
	h.RegisterPages(pages)

	api := r.Group("/api")
	api.Use(middleware.GinRequireAPI(cookieResolver))
	h.RegisterAPI(api)

	return r, repo
}

func request(method, path, user, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: user})
	}
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const draftBody = `{
	"notice_type": "CP14",
	"notice_date": "2025-01-15",
	"tax_year": 2023,
	"taxpayer_name": "Jane Doe",
	"taxpayer_last4": "4321",
	"position": "disagree",
	"explanation": "Payment was made on 2024-04-15, confirmation enclosed."
}`

func TestUnauthenticated(t *testing.T) {
	t.Parallel()

	r, repo := newRouter(t)

	for _, path := range []string{"/dashboard", "/drafts/d1"} {
		w := serve(r, request(http.MethodGet, path, "", ""))
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/auth/login", w.Header().Get("Location"), path)
	}

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/me", ""},
		{http.MethodGet, "/api/drafts", ""},
		{http.MethodPost, "/api/drafts", draftBody},
		{http.MethodDelete, "/api/drafts/d1", ""},
	} {
		w := serve(r, request(tc.method, tc.path, "", tc.body))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String(), tc.path)
	}

	assert.Empty(t, repo.drafts)
}

func TestDraftLifecycle(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)

	w := serve(r, request(http.MethodGet, "/api/me", "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)

	w = serve(r, request(http.MethodPost, "/api/drafts", "u1", draftBody))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created responder.Draft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, responder.CP14, created.NoticeType)
	assert.Contains(t, created.Body, "Payment was made on 2024-04-15")

	w = serve(r, request(http.MethodGet, "/api/drafts", "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Drafts []responder.Draft `json:"drafts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Drafts, 1)

	w = serve(r, request(http.MethodGet, "/dashboard", "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Response to CP14 for tax year 2023")

	w = serve(r, request(http.MethodGet, "/drafts/"+created.ID, "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Re: Notice CP14")

	// another user cannot see or delete it
	w = serve(r, request(http.MethodGet, "/api/drafts/"+created.ID, "u2", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = serve(r, request(http.MethodGet, "/drafts/"+created.ID, "u2", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = serve(r, request(http.MethodDelete, "/api/drafts/"+created.ID, "u2", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, request(http.MethodDelete, "/api/drafts/"+created.ID, "u1", ""))
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(r, request(http.MethodGet, "/api/drafts/"+created.ID, "u1", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDraftValidation(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)

	w := serve(r, request(http.MethodPost, "/api/drafts", "u1", `{"notice_type":"CP9999"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(r, request(http.MethodPost, "/api/drafts", "u1", `{not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoticeTypes(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)

	w := serve(r, request(http.MethodGet, "/api/notice-types", "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"CP2000"`)
}

func formRequest(path, user string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: user})
	}
	return req
}

func draftForm() url.Values {
	return url.Values{
		"notice_type":    {"CP2000"},
		"notice_date":    {"2025-02-03"},
		"tax_year":       {"2023"},
		"taxpayer_name":  {"Jane Doe"},
		"taxpayer_last4": {"4321"},
		"position":       {"partial"},
		"explanation":    {"The 1099-B basis was omitted; statement enclosed."},
	}
}

func TestNewDraftForm(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)

	w := serve(r, request(http.MethodGet, "/drafts/new", "", ""))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))

	w = serve(r, request(http.MethodGet, "/drafts/new?error=tax_year+out+of+range", "u1", ""))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/drafts"`)
	assert.Contains(t, body, `<option value="LTR525">`)
	assert.Contains(t, body, `<option value="partial">`)
	assert.Contains(t, body, "tax_year out of range")
}

func TestSubmitDraftForm(t *testing.T) {
	t.Parallel()

	t.Run("success redirects to the draft", func(t *testing.T) {
		t.Parallel()

		r, repo := newRouter(t)

		w := serve(r, formRequest("/drafts", "u1", draftForm()))
		require.Equal(t, http.StatusSeeOther, w.Code)

		require.Len(t, repo.drafts, 1)
		var created responder.Draft
		for _, d := range repo.drafts {
			created = d
		}
		assert.Equal(t, "u1", created.UserID)
		assert.Equal(t, responder.CP2000, created.NoticeType)
		assert.Equal(t, "/drafts/"+created.ID, w.Header().Get("Location"))

		w = serve(r, request(http.MethodGet, w.Header().Get("Location"), "u1", ""))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "1099-B basis was omitted")
	})

	t.Run("validation error redirects back to the form", func(t *testing.T) {
		t.Parallel()

		r, repo := newRouter(t)

		form := draftForm()
		form.Set("taxpayer_last4", "12ab")
		w := serve(r, formRequest("/drafts", "u1", form))

		require.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/drafts/new", loc.Path)
		assert.Contains(t, loc.Query().Get("error"), "taxpayer_last4 must be four digits")
		assert.Empty(t, repo.drafts)
	})

	t.Run("unknown notice redirects back to the form", func(t *testing.T) {
		t.Parallel()

		r, repo := newRouter(t)

		form := draftForm()
		form.Set("notice_type", "CP9999")
		w := serve(r, formRequest("/drafts", "u1", form))

		require.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "unknown notice type", loc.Query().Get("error"))
		assert.Empty(t, repo.drafts)
	})

	t.Run("without a session", func(t *testing.T) {
		t.Parallel()

		r, repo := newRouter(t)

		w := serve(r, formRequest("/drafts", "", draftForm()))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login", w.Header().Get("Location"))
		assert.Empty(t, repo.drafts)
	})
}
