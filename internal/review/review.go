// Package review records client ratings of photographers. Reviews are never
// edited or deleted once written.
package review

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/auth"
	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/web"
)

type Store interface {
	CreateReview(ctx context.Context, r *models.Review) (*models.Review, error)
	ReviewsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Review, error)
}

type PhotographerLookup interface {
	PhotographerByID(ctx context.Context, id models.ID) (*models.Photographer, error)
}

type Service struct {
	store Store
	dir   PhotographerLookup
	now   func() time.Time
	log   zerolog.Logger
}

func NewService(store Store, dir PhotographerLookup, log zerolog.Logger) *Service {
	return &Service{store: store, dir: dir, now: time.Now, log: log}
}

// Create writes a review by userID for photographerID.
func (s *Service) Create(ctx context.Context, userID, photographerID models.ID, req models.ReviewRequest) (*models.Review, error) {
	if err := web.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.dir.PhotographerByID(ctx, photographerID); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	rev, err := s.store.CreateReview(ctx, &models.Review{
		UserID:         userID,
		PhotographerID: photographerID,
		Rating:         req.Rating,
		Comment:        strings.TrimSpace(req.Comment),
		CreatedAt:      s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.log.Info().Str("review_id", rev.ID).Str("photographer_id", photographerID).Int("rating", rev.Rating).Msg("review created")
	return rev, nil
}

// ReviewsByPhotographer returns the reviews for photographerID, never nil.
func (s *Service) ReviewsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Review, error) {
	out, err := s.store.ReviewsByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if out == nil {
		out = []models.Review{}
	}
	return out, nil
}

type Handler struct {
	svc *Service
	rs  *web.Responder
}

func NewHandler(svc *Service, rs *web.Responder) *Handler {
	return &Handler{svc: svc, rs: rs}
}

// Create handles POST /reviews/{id}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := auth.FromContext(r.Context())
	photographerID := chi.URLParam(r, "id")
	profile := "/profile/" + photographerID

	rating, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))
	req := models.ReviewRequest{Rating: rating, Comment: r.FormValue("comment")}

	if _, err := h.svc.Create(r.Context(), s.UserID, photographerID, req); err != nil {
		h.rs.Fail(w, r, err, profile)
		return
	}
	h.rs.Redirect(w, r, profile, web.FlashSuccess, "Thanks for your review!")
}
