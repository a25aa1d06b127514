package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/metrics"
	"github.com/capture-moments/backend/internal/models"
)

// Ledger persists bookings.
type Ledger interface {
	CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	BookingByID(ctx context.Context, id models.ID) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id models.ID, status models.BookingStatus) error
	BookingsByUser(ctx context.Context, userID models.ID) ([]models.Booking, error)
	BookingsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Booking, error)
}

// Directory resolves photographer profiles for existence and ownership checks.
type Directory interface {
	ListPhotographers(ctx context.Context) ([]models.Photographer, error)
	PhotographerByID(ctx context.Context, id models.ID) (*models.Photographer, error)
	PhotographerByUser(ctx context.Context, userID models.ID) (*models.Photographer, error)
}

// Service owns the booking status lifecycle.
type Service struct {
	ledger Ledger
	dir    Directory
	now    func() time.Time
	log    zerolog.Logger
}

func NewService(ledger Ledger, dir Directory, log zerolog.Logger) *Service {
	return &Service{ledger: ledger, dir: dir, now: time.Now, log: log}
}

// Create records a booking for photographerID in the given initial status.
// Overlapping slots are accepted.
func (s *Service) Create(
	ctx context.Context,
	requesterID, photographerID models.ID,
	date, startTime string,
	durationHours int,
	initial models.BookingStatus,
) (*models.Booking, error) {
	if !initial.IsInitial() {
		return nil, fmt.Errorf("%w: %q is not an initial status", models.ErrInvalidInput, initial)
	}
	if durationHours < 1 {
		return nil, fmt.Errorf("%w: duration must be a positive number of hours", models.ErrInvalidInput)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrInvalidInput)
	}
	if _, err := time.Parse(models.TimeLayout, startTime); err != nil {
		return nil, fmt.Errorf("%w: time must be HH:MM", models.ErrInvalidInput)
	}

	if _, err := s.dir.PhotographerByID(ctx, photographerID); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	b, err := s.ledger.CreateBooking(ctx, &models.Booking{
		UserID:         requesterID,
		PhotographerID: photographerID,
		Date:           date,
		Time:           startTime,
		Duration:       durationHours,
		Status:         initial,
		CreatedAt:      s.now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("photographer_id", photographerID).Msg("failed to create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(b.Status)).Inc()
	s.log.Info().
		Str("booking_id", b.ID).
		Str("user_id", requesterID).
		Str("photographer_id", photographerID).
		Str("status", string(b.Status)).
		Msg("booking created")
	return b, nil
}

// Accept moves a pending booking to accepted on behalf of its photographer.
func (s *Service) Accept(ctx context.Context, bookingID, actingUserID models.ID) (*models.Booking, error) {
	return s.transition(ctx, "accept", bookingID, actingUserID, models.StatusAccepted)
}

// Reject moves a pending booking to rejected on behalf of its photographer.
func (s *Service) Reject(ctx context.Context, bookingID, actingUserID models.ID) (*models.Booking, error) {
	return s.transition(ctx, "reject", bookingID, actingUserID, models.StatusRejected)
}

// transition re-reads the acting user's profile on every call; ownership is
// never taken from the session. Concurrent transitions are last-writer-wins.
func (s *Service) transition(ctx context.Context, action string, bookingID, actingUserID models.ID, next models.BookingStatus) (*models.Booking, error) {
	b, err := s.ledger.BookingByID(ctx, bookingID)
	if err != nil {
		s.countTransition(action, err)
		return nil, fmt.Errorf("%s booking: %w", action, err)
	}

	owner, err := s.dir.PhotographerByUser(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			err = models.ErrForbidden
		}
		s.countTransition(action, err)
		return nil, fmt.Errorf("%s booking: %w", action, err)
	}
	if owner.ID != b.PhotographerID {
		s.countTransition(action, models.ErrForbidden)
		return nil, fmt.Errorf("%s booking: %w", action, models.ErrForbidden)
	}

	if !b.Status.CanTransitionTo(next) {
		s.countTransition(action, models.ErrInvalidTransition)
		return b, fmt.Errorf("%s booking: %w (from %s to %s)", action, models.ErrInvalidTransition, b.Status, next)
	}

	if err := s.ledger.UpdateBookingStatus(ctx, b.ID, next); err != nil {
		s.countTransition(action, err)
		return nil, fmt.Errorf("%s booking: update status: %w", action, err)
	}

	s.countTransition(action, nil)
	s.log.Info().
		Str("booking_id", b.ID).
		Str("from", string(b.Status)).
		Str("to", string(next)).
		Msg("booking status changed")

	b.Status = next
	return b, nil
}

func (s *Service) countTransition(action string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, models.ErrForbidden):
		result = "forbidden"
	case errors.Is(err, models.ErrInvalidTransition):
		result = "invalid_transition"
	case errors.Is(err, models.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.BookingTransitionsTotal.WithLabelValues(action, result).Inc()
}

// ListForUser returns the bookings requested by userID, unordered.
func (s *Service) ListForUser(ctx context.Context, userID models.ID) ([]models.Booking, error) {
	return s.ledger.BookingsByUser(ctx, userID)
}

// ListForPhotographer returns the bookings targeting photographerID, unordered.
func (s *Service) ListForPhotographer(ctx context.Context, photographerID models.ID) ([]models.Booking, error) {
	return s.ledger.BookingsByPhotographer(ctx, photographerID)
}

// ListForPhotographerUser resolves the profile owned by userID and lists its
// bookings. A photographer without a profile has no bookings.
func (s *Service) ListForPhotographerUser(ctx context.Context, userID models.ID) (*models.Photographer, []models.Booking, error) {
	p, err := s.dir.PhotographerByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, []models.Booking{}, nil
		}
		return nil, nil, err
	}
	bookings, err := s.ledger.BookingsByPhotographer(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, bookings, nil
}
