package photographer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/auth"
	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/web"
)

type Handler struct {
	svc       *Service
	rs        *web.Responder
	maxUpload int64
	log       zerolog.Logger
}

func NewHandler(svc *Service, rs *web.Responder, maxUpload int64, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, rs: rs, maxUpload: maxUpload, log: log}
}

type listView struct {
	Photographers []models.Photographer `json:"photographers"`
}

// List handles GET /photographers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.List(r.Context())
	if err != nil {
		h.rs.Fail(w, r, err, "/")
		return
	}
	h.rs.Render(w, r, http.StatusOK, listView{Photographers: ps})
}

// Profile handles GET /profile/{id}.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.rs.Render(w, r, http.StatusNotFound, map[string]string{"error": "photographer not found"})
			return
		}
		h.rs.Fail(w, r, err, "/photographers")
		return
	}
	h.rs.Render(w, r, http.StatusOK, p)
}

// EditForm handles GET /edit_profile.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	p, err := h.svc.ForUser(r.Context(), s.UserID)
	if err != nil {
		h.failEdit(w, r, err)
		return
	}
	h.rs.Render(w, r, http.StatusOK, p)
}

// Edit handles POST /edit_profile. The body is a form, optionally multipart
// with a profile_image file.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			h.rs.Fail(w, r, fmt.Errorf("%w: upload too large or malformed", models.ErrInvalidInput), "/edit_profile")
			return
		}
		defer r.MultipartForm.RemoveAll()
	}

	upd, err := parseProfileUpdate(r)
	if err != nil {
		h.rs.Fail(w, r, err, "/edit_profile")
		return
	}

	var img *Upload
	file, header, err := r.FormFile("profile_image")
	switch {
	case err == nil:
		defer file.Close()
		if header.Filename != "" {
			img = &Upload{Filename: header.Filename, Body: file}
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.rs.Fail(w, r, fmt.Errorf("%w: could not read profile_image", models.ErrInvalidInput), "/edit_profile")
		return
	}

	if _, err := h.svc.UpdateProfile(r.Context(), s.UserID, upd, img); err != nil {
		h.failEdit(w, r, err)
		return
	}
	h.rs.Redirect(w, r, "/dashboard/photographer", web.FlashSuccess, "Profile updated successfully!")
}

// Image handles GET /images/{name}.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	body, contentType, err := h.svc.OpenImage(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error().Err(err).Msg("image read failed")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	defer body.Close()

	if !strings.HasPrefix(contentType, "image/") {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, body); err != nil {
		h.log.Warn().Err(err).Msg("image write interrupted")
	}
}

func (h *Handler) failEdit(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrNotFound) {
		h.rs.Redirect(w, r, "/dashboard/photographer", web.FlashDanger, "Photographer profile not found.")
		return
	}
	h.rs.Fail(w, r, err, "/edit_profile")
}

func parseProfileUpdate(r *http.Request) (models.ProfileUpdate, error) {
	upd := models.ProfileUpdate{
		Name:      strings.TrimSpace(r.FormValue("name")),
		Specialty: strings.TrimSpace(r.FormValue("specialty")),
		Location:  strings.TrimSpace(r.FormValue("location")),
		Bio:       strings.TrimSpace(r.FormValue("bio")),
	}
	if raw := strings.TrimSpace(r.FormValue("price_per_hour")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
			return upd, fmt.Errorf("%w: price_per_hour must be a number", models.ErrInvalidInput)
		}
		upd.PricePerHour = price
	}
	if err := web.Validate(upd); err != nil {
		return upd, err
	}
	return upd, nil
}
