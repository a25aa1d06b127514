// Package server assembles the HTTP surface.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/capture-moments/backend/internal/auth"
	"github.com/capture-moments/backend/internal/booking"
	"github.com/capture-moments/backend/internal/config"
	"github.com/capture-moments/backend/internal/health"
	"github.com/capture-moments/backend/internal/middleware"
	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/photographer"
	"github.com/capture-moments/backend/internal/review"
	"github.com/capture-moments/backend/internal/store"
	"github.com/capture-moments/backend/internal/web"
)

// SessionStore is everything the HTTP layer needs from the session backend.
type SessionStore interface {
	auth.SessionManager
	middleware.SessionReader
	web.Flasher
}

// Deps are the long-lived collaborators of the router.
type Deps struct {
	Config   *config.Config
	Backend  *store.Backend
	Sessions SessionStore
	Images   photographer.ImageStore
	Health   map[string]health.Pinger
	Log      zerolog.Logger

	// HashCost overrides the bcrypt cost when positive.
	HashCost int
}

// NewRouter builds the chi router with every route registered.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	rs := web.NewResponder(d.Sessions, d.Log, cfg.Session.TTL, cfg.Session.Secure)

	authSvc := auth.NewService(d.Backend, d.Log)
	if d.HashCost > 0 {
		authSvc.WithHashCost(d.HashCost)
	}
	reviewSvc := review.NewService(d.Backend, d.Backend, d.Log)
	photoSvc := photographer.NewService(d.Backend, reviewSvc, d.Images, d.Log)
	bookingSvc := booking.NewService(d.Backend, d.Backend, d.Log)

	authH := auth.NewHandler(authSvc, d.Sessions, rs)
	photoH := photographer.NewHandler(photoSvc, rs, cfg.Images.MaxUploadBytes, d.Log)
	bookingH := booking.NewHandler(bookingSvc, rs, cfg.Booking.Immediate)
	reviewH := review.NewHandler(reviewSvc, rs)
	healthH := health.NewHandler(d.Health)

	requireAuth := middleware.RequireAuth(rs)
	requireBookingLogin := middleware.RequireAuthNotice(rs, "Please log in to book a photographer.")
	requirePhotographer := middleware.RequireRole(rs, models.RolePhotographer)
	requireClient := middleware.RequireRole(rs, models.RoleClient)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(d.Log))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Operational endpoints skip session loading.
	r.Get("/health", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions, d.Log))

		r.Get("/", home(rs, d.Backend.Name))
		r.Get("/photographers", photoH.List)
		r.Get("/profile/{id}", photoH.Profile)
		r.Get("/images/{name}", photoH.Image)

		r.Get("/signup", authH.SignupForm)
		r.Post("/signup", authH.Signup)
		r.Get("/login", authH.LoginForm)
		r.Post("/login", authH.Login)
		r.Get("/logout", authH.Logout)

		r.Get("/booking/{id}", bookingH.Form)
		r.With(requireBookingLogin).Post("/booking/{id}", bookingH.Create)
		r.With(requirePhotographer).Post("/booking/{id}/accept", bookingH.Accept)
		r.With(requirePhotographer).Post("/booking/{id}/reject", bookingH.Reject)

		r.With(requirePhotographer).Get("/edit_profile", photoH.EditForm)
		r.With(requirePhotographer).Post("/edit_profile", photoH.Edit)

		r.With(requirePhotographer).Get("/dashboard/photographer", bookingH.PhotographerDashboard)
		r.With(requireClient).Get("/dashboard/client", bookingH.ClientDashboard)
		r.With(requireAuth).Get("/my_bookings", bookingH.MyBookings)

		r.With(requireClient).Post("/reviews/{id}", reviewH.Create)
	})

	return r
}

func accessLog(r *http.Request, status, size int, elapsed time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("elapsed", elapsed).
		Msg("request")
}

type homeView struct {
	Backend string            `json:"backend"`
	User    *homeUser         `json:"user,omitempty"`
	Links   map[string]string `json:"links"`
}

type homeUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func home(rs *web.Responder, backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := homeView{
			Backend: backend,
			Links: map[string]string{
				"photographers": "/photographers",
				"signup":        "/signup",
				"login":         "/login",
			},
		}
		if s := auth.FromContext(r.Context()); s.Authenticated() {
			view.User = &homeUser{Username: s.Username, Role: s.Role()}
			view.Links["my_bookings"] = "/my_bookings"
			view.Links["logout"] = "/logout"
			if s.IsPhotographer {
				view.Links["dashboard"] = "/dashboard/photographer"
			} else {
				view.Links["dashboard"] = "/dashboard/client"
			}
		}
		rs.Render(w, r, http.StatusOK, view)
	}
}
