// Package store holds the persistence adapters. Both the relational and the
// document adapter satisfy Repository; exactly one of them serves a process.
package store

import (
	"context"

	"github.com/capture-moments/backend/internal/models"
)

// Repository is the full persistence surface used by the services.
type Repository interface {
	CreateAccount(ctx context.Context, u *models.User, profile *models.Photographer) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)

	ListPhotographers(ctx context.Context) ([]models.Photographer, error)
	PhotographerByID(ctx context.Context, id models.ID) (*models.Photographer, error)
	PhotographerByUser(ctx context.Context, userID models.ID) (*models.Photographer, error)
	UpdatePhotographer(ctx context.Context, p *models.Photographer) error

	CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error)
	BookingByID(ctx context.Context, id models.ID) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id models.ID, status models.BookingStatus) error
	BookingsByUser(ctx context.Context, userID models.ID) ([]models.Booking, error)
	BookingsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Booking, error)

	CreateReview(ctx context.Context, r *models.Review) (*models.Review, error)
	ReviewsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Review, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Backend names the repository chosen at startup.
type Backend struct {
	Name string
	Repository
}

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

var (
	_ Repository = (*PostgresStore)(nil)
	_ Repository = (*MongoStore)(nil)
)
