package booking

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/capture-moments/backend/internal/auth"
	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/web"
)

// Handler holds the booking and dashboard endpoints.
type Handler struct {
	svc       *Service
	rs        *web.Responder
	immediate bool
}

// NewHandler builds the handler. With immediate set, new bookings skip the
// photographer approval step and start out confirmed.
func NewHandler(svc *Service, rs *web.Responder, immediate bool) *Handler {
	return &Handler{svc: svc, rs: rs, immediate: immediate}
}

type bookingFormView struct {
	Photographer *models.Photographer `json:"photographer"`
	Immediate    bool                 `json:"immediate"`
}

// Form renders GET /booking/{id}.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.dir.PhotographerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderLookupError(w, r, err)
		return
	}
	h.rs.Render(w, r, http.StatusOK, bookingFormView{Photographer: p, Immediate: h.immediate})
}

// Create handles POST /booking/{id}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	photographerID := chi.URLParam(r, "id")

	duration, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("duration")))
	req := models.BookingRequest{
		Date:     strings.TrimSpace(r.FormValue("date")),
		Time:     strings.TrimSpace(r.FormValue("time")),
		Duration: duration,
	}
	if err := web.Validate(req); err != nil {
		h.rs.Fail(w, r, err, "/booking/"+photographerID)
		return
	}

	initial := models.StatusPending
	if h.immediate {
		initial = models.StatusConfirmed
	}

	_, err := h.svc.Create(r.Context(), s.UserID, photographerID, req.Date, req.Time, req.Duration, initial)
	if err != nil {
		fallback := "/booking/" + photographerID
		if errors.Is(err, models.ErrNotFound) {
			fallback = "/photographers"
		}
		h.rs.Fail(w, r, err, fallback)
		return
	}

	dest := "/dashboard/client"
	if s.IsPhotographer {
		dest = "/my_bookings"
	}
	msg := "Booking request sent! The photographer will confirm it shortly."
	if initial == models.StatusConfirmed {
		msg = "Booking successful!"
	}
	h.rs.Redirect(w, r, dest, web.FlashSuccess, msg)
}

// Accept handles POST /booking/{id}/accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	if _, err := h.svc.Accept(r.Context(), chi.URLParam(r, "id"), s.UserID); err != nil {
		h.rs.Fail(w, r, err, "/dashboard/photographer")
		return
	}
	h.rs.Redirect(w, r, "/dashboard/photographer", web.FlashSuccess, "Booking accepted.")
}

// Reject handles POST /booking/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	if _, err := h.svc.Reject(r.Context(), chi.URLParam(r, "id"), s.UserID); err != nil {
		h.rs.Fail(w, r, err, "/dashboard/photographer")
		return
	}
	h.rs.Redirect(w, r, "/dashboard/photographer", web.FlashInfo, "Booking rejected.")
}

type photographerDashboard struct {
	Photographer *models.Photographer `json:"photographer"`
	Bookings     []models.Booking     `json:"bookings"`
}

// PhotographerDashboard renders GET /dashboard/photographer.
func (h *Handler) PhotographerDashboard(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	p, bookings, err := h.svc.ListForPhotographerUser(r.Context(), s.UserID)
	if err != nil {
		h.rs.Fail(w, r, err, "/")
		return
	}
	h.rs.Render(w, r, http.StatusOK, photographerDashboard{Photographer: p, Bookings: nonNil(bookings)})
}

type clientDashboard struct {
	Photographers []models.Photographer `json:"photographers"`
	MyBookings    []models.Booking      `json:"my_bookings"`
}

// ClientDashboard renders GET /dashboard/client.
func (h *Handler) ClientDashboard(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	photographers, err := h.svc.dir.ListPhotographers(r.Context())
	if err != nil {
		h.rs.Fail(w, r, err, "/")
		return
	}
	bookings, err := h.svc.ListForUser(r.Context(), s.UserID)
	if err != nil {
		h.rs.Fail(w, r, err, "/")
		return
	}
	if photographers == nil {
		photographers = []models.Photographer{}
	}
	h.rs.Render(w, r, http.StatusOK, clientDashboard{Photographers: photographers, MyBookings: nonNil(bookings)})
}

type myBookings struct {
	Bookings []models.Booking `json:"bookings"`
}

// MyBookings renders GET /my_bookings for either role.
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())

	var (
		bookings []models.Booking
		err      error
	)
	if s.IsPhotographer {
		_, bookings, err = h.svc.ListForPhotographerUser(r.Context(), s.UserID)
	} else {
		bookings, err = h.svc.ListForUser(r.Context(), s.UserID)
	}
	if err != nil {
		h.rs.Fail(w, r, err, "/")
		return
	}
	h.rs.Render(w, r, http.StatusOK, myBookings{Bookings: nonNil(bookings)})
}

func (h *Handler) renderLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrNotFound) {
		h.rs.Render(w, r, http.StatusNotFound, map[string]string{"error": "photographer not found"})
		return
	}
	h.rs.Fail(w, r, err, "/photographers")
}

func nonNil(b []models.Booking) []models.Booking {
	if b == nil {
		return []models.Booking{}
	}
	return b
}
