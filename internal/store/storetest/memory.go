// Package storetest provides an in-memory store.Repository for tests.
package storetest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/capture-moments/backend/internal/models"
	"github.com/capture-moments/backend/internal/store"
)

// Memory keeps every entity in maps behind one mutex.
type Memory struct {
	mu            sync.Mutex
	seq           int
	users         map[models.ID]models.User
	photographers map[models.ID]models.Photographer
	bookings      map[models.ID]models.Booking
	reviews       []models.Review
	closed        bool
}

var _ store.Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[models.ID]models.User),
		photographers: make(map[models.ID]models.Photographer),
		bookings:      make(map[models.ID]models.Booking),
	}
}

// Connector returns a connector that hands out m under name.
func Connector(name string, m *Memory) store.Connector {
	return func(context.Context) (*store.Backend, error) {
		return &store.Backend{Name: name, Repository: m}, nil
	}
}

// Unreachable returns a connector that always fails with err.
func Unreachable(err error) store.Connector {
	return func(context.Context) (*store.Backend, error) {
		return nil, fmt.Errorf("connect: %w: %v", models.ErrBackendUnavailable, err)
	}
}

func (m *Memory) nextID() models.ID {
	m.seq++
	return strconv.Itoa(m.seq)
}

func (m *Memory) CreateAccount(_ context.Context, u *models.User, profile *models.Photographer) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, fmt.Errorf("create user: %w", models.ErrDuplicateIdentity)
		}
	}
	created := *u
	created.ID = m.nextID()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	m.users[created.ID] = created

	if profile != nil {
		p := *profile
		p.ID = m.nextID()
		p.UserID = created.ID
		m.photographers[p.ID] = p
	}
	return &created, nil
}

func (m *Memory) UserByName(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *Memory) ListPhotographers(context.Context) ([]models.Photographer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Photographer, 0, len(m.photographers))
	for _, p := range m.photographers {
		out = append(out, p)
	}
	return out, nil
}

func (m *Memory) PhotographerByID(_ context.Context, id models.ID) (*models.Photographer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photographers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) PhotographerByUser(_ context.Context, userID models.ID) (*models.Photographer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.photographers {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *Memory) UpdatePhotographer(_ context.Context, p *models.Photographer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photographers[p.ID]; !ok {
		return models.ErrNotFound
	}
	m.photographers[p.ID] = *p
	return nil
}

func (m *Memory) CreateBooking(_ context.Context, b *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *b
	created.ID = m.nextID()
	m.bookings[created.ID] = created
	return &created, nil
}

func (m *Memory) BookingByID(_ context.Context, id models.ID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &b, nil
}

func (m *Memory) UpdateBookingStatus(_ context.Context, id models.ID, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.ErrNotFound
	}
	b.Status = status
	m.bookings[id] = b
	return nil
}

func (m *Memory) BookingsByUser(_ context.Context, userID models.ID) ([]models.Booking, error) {
	return m.filterBookings(func(b models.Booking) bool { return b.UserID == userID }), nil
}

func (m *Memory) BookingsByPhotographer(_ context.Context, photographerID models.ID) ([]models.Booking, error) {
	return m.filterBookings(func(b models.Booking) bool { return b.PhotographerID == photographerID }), nil
}

func (m *Memory) filterBookings(keep func(models.Booking) bool) []models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (m *Memory) CreateReview(_ context.Context, r *models.Review) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *r
	created.ID = m.nextID()
	m.reviews = append(m.reviews, created)
	return &created, nil
}

func (m *Memory) ReviewsByPhotographer(_ context.Context, photographerID models.ID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, r := range m.reviews {
		if r.PhotographerID == photographerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return models.ErrBackendUnavailable
	}
	return nil
}

func (m *Memory) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
