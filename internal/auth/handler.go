package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/web"
)

// SessionManager creates and destroys login sessions.
type SessionManager interface {
	Create(ctx context.Context, u *models.User) (string, error)
	Delete(ctx context.Context, sid string) error
}

// Handler holds the signup, login and logout endpoints.
type Handler struct {
	svc      *Service
	sessions SessionManager
	rs       *web.Responder
}

func NewHandler(svc *Service, sessions SessionManager, rs *web.Responder) *Handler {
	return &Handler{svc: svc, sessions: sessions, rs: rs}
}

type signupForm struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	UserTypes []string `json:"user_types"`
}

// SignupForm renders GET /signup.
func (h *Handler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.rs.Render(w, r, http.StatusOK, signupForm{
		UserTypes: []string{models.RoleClient, models.RolePhotographer},
	})
}

// Signup handles POST /signup. Failures re-display the form with a notice.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	req := models.SignupRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		UserType: r.FormValue("user_type"),
	}

	err := web.Validate(req)
	if err == nil {
		_, err = h.svc.Signup(r.Context(), req)
	}
	if err != nil {
		category, message := web.Classify(err)
		h.rs.Flash(w, r, category, message)
		status := http.StatusOK
		if !errors.Is(err, models.ErrDuplicateIdentity) && !errors.Is(err, models.ErrInvalidInput) {
			status = http.StatusServiceUnavailable
		}
		h.rs.Render(w, r, status, signupForm{
			Username:  req.Username,
			Email:     req.Email,
			UserTypes: []string{models.RoleClient, models.RolePhotographer},
		})
		return
	}

	h.rs.Redirect(w, r, "/login", web.FlashSuccess, "Account created successfully! Please log in.")
}

// LoginForm renders GET /login.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.rs.Render(w, r, http.StatusOK, map[string]string{"form": "login"})
}

// Login handles POST /login and establishes the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req := models.LoginRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	err := web.Validate(req)
	var user *models.User
	if err == nil {
		user, err = h.svc.Login(r.Context(), req.Username, req.Password)
	}
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			err = models.ErrInvalidCredentials
		}
		category, message := web.Classify(err)
		h.rs.Flash(w, r, category, message)
		h.rs.Render(w, r, http.StatusOK, map[string]string{"form": "login"})
		return
	}

	sid, err := h.sessions.Create(r.Context(), user)
	if err != nil {
		h.rs.Fail(w, r, err, "/login")
		return
	}
	if old := web.SessionID(r); old != "" {
		_ = h.sessions.Delete(r.Context(), old)
	}
	h.rs.StartSession(w, r, sid)

	dest := "/dashboard/client"
	if user.IsPhotographer {
		dest = "/dashboard/photographer"
	}
	h.rs.Redirect(w, r, dest, web.FlashSuccess, "Logged in successfully!")
}

// Logout handles GET /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := web.SessionID(r); sid != "" {
		_ = h.sessions.Delete(r.Context(), sid)
	}
	h.rs.StartSession(w, r, uuid.NewString())
	h.rs.Redirect(w, r, "/login", web.FlashInfo, "You have been logged out.")
}
