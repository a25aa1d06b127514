package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/auth"
	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/web"
)

// SessionReader resolves a session id to the identity stored at login.
type SessionReader interface {
	Get(ctx context.Context, sid string) (*auth.Session, error)
}

// LoadSession reads the session cookie and injects the session, if any, into
// the request context. Requests without a valid session pass through
// anonymously.
func LoadSession(sessions SessionReader, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := web.SessionID(r)
			if sid == "" {
				next.ServeHTTP(w, r)
				return
			}

			s, err := sessions.Get(r.Context(), sid)
			if err != nil {
				log.Warn().Err(err).Msg("session lookup failed")
				next.ServeHTTP(w, r)
				return
			}
			if s != nil {
				r = r.WithContext(auth.WithSession(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

const loginNotice = "Please log in to access this page."

// RequireRole gates a handler on the session identity. An empty role admits
// any authenticated user. Anonymous requests go to /login and role mismatches
// to /; in both cases the wrapped handler is not invoked.
func RequireRole(rs *web.Responder, role string) func(http.Handler) http.Handler {
	return gate(rs, role, loginNotice)
}

// RequireAuthNotice admits any authenticated identity and greets anonymous
// requests with notice instead of the generic login prompt.
func RequireAuthNotice(rs *web.Responder, notice string) func(http.Handler) http.Handler {
	return gate(rs, "", notice)
}

func gate(rs *web.Responder, role, notice string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := auth.FromContext(r.Context())
			if !s.Authenticated() {
				rs.Redirect(w, r, "/login", web.FlashWarning, notice)
				return
			}

			switch role {
			case models.RolePhotographer:
				if !s.IsPhotographer {
					rs.Redirect(w, r, "/", web.FlashDanger, "Access denied.")
					return
				}
			case models.RoleClient:
				if s.IsPhotographer {
					rs.Redirect(w, r, "/", web.FlashDanger, "Access denied.")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth admits any authenticated identity.
func RequireAuth(rs *web.Responder) func(http.Handler) http.Handler {
	return RequireRole(rs, "")
}
