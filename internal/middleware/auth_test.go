package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/capture-moments/backend/internal/auth"
	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/web"
)

type fakeSessions struct {
	sessions map[string]*auth.Session
	flashes  map[string][]web.Flash
	err      error
	lookups  int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions: make(map[string]*auth.Session),
		flashes:  make(map[string][]web.Flash),
	}
}

func (f *fakeSessions) Get(_ context.Context, sid string) (*auth.Session, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[sid], nil
}

func (f *fakeSessions) AddFlash(_ context.Context, sid string, fl web.Flash) error {
	f.flashes[sid] = append(f.flashes[sid], fl)
	return nil
}

func (f *fakeSessions) PopFlashes(_ context.Context, sid string) ([]web.Flash, error) {
	out := f.flashes[sid]
	delete(f.flashes, sid)
	return out, nil
}

// okHandler records whether it ran.
type okHandler struct{ called bool }

func (h *okHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.called = true
	w.WriteHeader(http.StatusOK)
}

func serveGated(t *testing.T, fs *fakeSessions, role, sid string) (*httptest.ResponseRecorder, *okHandler) {
	t.Helper()
	rs := web.NewResponder(fs, zerolog.Nop(), time.Hour, false)
	inner := &okHandler{}
	h := LoadSession(fs, zerolog.Nop())(RequireRole(rs, role)(inner))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: web.SessionCookie, Value: sid})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, inner
}

func TestRequireRole_Anonymous_RedirectsToLogin(t *testing.T) {
	for _, role := range []string{"", models.RoleClient, models.RolePhotographer} {
		fs := newFakeSessions()
		rec, inner := serveGated(t, fs, role, "")

		require.False(t, inner.called, "role %q", role)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	}
}

func TestRequireRole_UnknownSession_RedirectsToLogin(t *testing.T) {
	fs := newFakeSessions()
	rec, inner := serveGated(t, fs, "", "expired-sid")

	require.False(t, inner.called)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Equal(t, web.FlashWarning, fs.flashes["expired-sid"][0].Category)
}

func TestRequireRole_WrongRole_RedirectsHome(t *testing.T) {
	fs := newFakeSessions()
	fs.sessions["client-sid"] = &auth.Session{ID: "client-sid", UserID: "2", Username: "bob"}
	fs.sessions["photo-sid"] = &auth.Session{ID: "photo-sid", UserID: "1", Username: "alice", IsPhotographer: true}

	rec, inner := serveGated(t, fs, models.RolePhotographer, "client-sid")
	require.False(t, inner.called)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.Equal(t, "Access denied.", fs.flashes["client-sid"][0].Message)

	rec, inner = serveGated(t, fs, models.RoleClient, "photo-sid")
	require.False(t, inner.called)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireRole_MatchingRole_Delegates(t *testing.T) {
	fs := newFakeSessions()
	fs.sessions["photo-sid"] = &auth.Session{ID: "photo-sid", UserID: "1", Username: "alice", IsPhotographer: true}
	fs.sessions["client-sid"] = &auth.Session{ID: "client-sid", UserID: "2", Username: "bob"}

	cases := []struct {
		role string
		sid  string
	}{
		{models.RolePhotographer, "photo-sid"},
		{models.RoleClient, "client-sid"},
		{"", "photo-sid"},
		{"", "client-sid"},
	}
	for _, tc := range cases {
		rec, inner := serveGated(t, fs, tc.role, tc.sid)
		require.True(t, inner.called, "role %q sid %q", tc.role, tc.sid)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLoadSession_LookupErrorIsAnonymous(t *testing.T) {
	fs := newFakeSessions()
	fs.err = errors.New("redis down")

	rec, inner := serveGated(t, fs, "", "some-sid")
	require.False(t, inner.called)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Equal(t, 1, fs.lookups)
}

func TestRequireAuthNotice(t *testing.T) {
	fs := newFakeSessions()
	fs.sessions["client-sid"] = &auth.Session{ID: "client-sid", UserID: "2", Username: "bob"}
	rs := web.NewResponder(fs, zerolog.Nop(), time.Hour, false)

	serve := func(sid string) (*httptest.ResponseRecorder, *okHandler) {
		inner := &okHandler{}
		h := LoadSession(fs, zerolog.Nop())(RequireAuthNotice(rs, "Please log in to book a photographer.")(inner))
		req := httptest.NewRequest(http.MethodPost, "/booking/1", nil)
		req.AddCookie(&http.Cookie{Name: web.SessionCookie, Value: sid})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec, inner
	}

	rec, inner := serve("stale-sid")
	require.False(t, inner.called)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Equal(t, web.Flash{Category: web.FlashWarning, Message: "Please log in to book a photographer."}, fs.flashes["stale-sid"][0])

	_, inner = serve("client-sid")
	require.True(t, inner.called)
}
