// Package web holds the response conventions shared by all handlers: JSON
// views carrying pending flash notices, and redirects that leave one behind.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/models"
)

// SessionCookie names the cookie carrying the server-side session id.
const SessionCookie = "session_id"

// Flash categories.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered view.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Flasher stores flashes against a session id.
type Flasher interface {
	AddFlash(ctx context.Context, sessionID string, f Flash) error
	PopFlashes(ctx context.Context, sessionID string) ([]Flash, error)
}

// View is the envelope of every rendered page.
type View struct {
	Flashes []Flash `json:"flashes"`
	Data    any     `json:"data,omitempty"`
}

// Responder renders views and redirects for handlers.
type Responder struct {
	flashes    Flasher
	log        zerolog.Logger
	cookieTTL  time.Duration
	secureOnly bool
}

func NewResponder(flashes Flasher, log zerolog.Logger, cookieTTL time.Duration, secureOnly bool) *Responder {
	return &Responder{flashes: flashes, log: log, cookieTTL: cookieTTL, secureOnly: secureOnly}
}

// SessionID returns the session cookie value, or "" if the request has none.
func SessionID(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetSessionCookie writes the session cookie.
func (rs *Responder) SetSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   rs.secureOnly,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(rs.cookieTTL / time.Second),
	})
}

// StartSession points the response cookie and r at sid, so notices queued
// later in the same request land in the new session.
func (rs *Responder) StartSession(w http.ResponseWriter, r *http.Request, sid string) {
	rs.SetSessionCookie(w, sid)
	r.Header.Del("Cookie")
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
}

// Flash queues a notice for the requester. Anonymous visitors get a fresh
// session id cookie so the notice survives the redirect.
func (rs *Responder) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	sid := SessionID(r)
	if sid == "" {
		sid = uuid.NewString()
		rs.StartSession(w, r, sid)
	}
	if err := rs.flashes.AddFlash(r.Context(), sid, Flash{Category: category, Message: message}); err != nil {
		rs.log.Warn().Err(err).Msg("flash write failed")
	}
}

// Redirect queues a notice and sends a 303 to url.
func (rs *Responder) Redirect(w http.ResponseWriter, r *http.Request, url, category, message string) {
	if message != "" {
		rs.Flash(w, r, category, message)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Render writes data as a JSON view with the pending flashes attached.
func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, status int, data any) {
	view := View{Flashes: []Flash{}, Data: data}
	if sid := SessionID(r); sid != "" {
		flashes, err := rs.flashes.PopFlashes(r.Context(), sid)
		if err != nil {
			rs.log.Warn().Err(err).Msg("flash read failed")
		} else if len(flashes) > 0 {
			view.Flashes = flashes
		}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(view); err != nil {
		rs.log.Error().Err(err).Str("path", r.URL.Path).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Fail converts a service error into a notice plus a redirect to fallback.
// Nothing propagates past this point.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	category, message := Classify(err)
	if category == FlashDanger && message == genericFailure {
		rs.log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	rs.Redirect(w, r, fallback, category, message)
}

const genericFailure = "Something went wrong. Please try again."

// Classify maps the error taxonomy onto a flash category and message.
func Classify(err error) (category, message string) {
	switch {
	case errors.Is(err, models.ErrInvalidTransition):
		return FlashWarning, "Booking cannot be changed from its current status."
	case errors.Is(err, models.ErrForbidden):
		return FlashDanger, "Access denied."
	case errors.Is(err, models.ErrNotFound):
		return FlashDanger, "The requested record was not found."
	case errors.Is(err, models.ErrDuplicateIdentity):
		return FlashDanger, "Username or email already exists."
	case errors.Is(err, models.ErrInvalidCredentials):
		return FlashDanger, "Invalid username or password."
	case errors.Is(err, models.ErrInvalidInput):
		return FlashDanger, inputMessage(err)
	case errors.Is(err, models.ErrBackendUnavailable):
		return FlashDanger, "The service is temporarily unavailable. Please try again later."
	default:
		return FlashDanger, genericFailure
	}
}

// inputMessage keeps only the field detail of a validation error.
func inputMessage(err error) string {
	if _, detail, ok := strings.Cut(err.Error(), models.ErrInvalidInput.Error()+": "); ok && detail != "" {
		return detail
	}
	return "Please check the form and try again."
}
