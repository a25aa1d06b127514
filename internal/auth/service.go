package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/capture-moments/backend/internal/metrics"
	"github.com/capture-moments/backend/internal/models"
)

// UserStore is the identity store as seen by the auth service.
type UserStore interface {
	// CreateAccount persists u and, when profile is non-nil, the photographer
	// profile owned by u. Name or email collisions yield ErrDuplicateIdentity.
	CreateAccount(ctx context.Context, u *models.User, profile *models.Photographer) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
}

// Service implements signup and credential verification.
type Service struct {
	users UserStore
	cost  int
	log   zerolog.Logger
}

func NewService(users UserStore, log zerolog.Logger) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost, log: log}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// Signup creates a user. Photographers also get a profile named after the
// username at the platform default hourly rate.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	isPhotographer := req.UserType == models.RolePhotographer
	role := models.RoleClient
	if isPhotographer {
		role = models.RolePhotographer
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Password:       string(hashed),
		IsPhotographer: isPhotographer,
	}

	var profile *models.Photographer
	if isPhotographer {
		profile = &models.Photographer{
			Name:         user.Username,
			PricePerHour: models.DefaultHourlyRate,
		}
	}

	created, err := s.users.CreateAccount(ctx, user, profile)
	if err != nil {
		result := "error"
		if errors.Is(err, models.ErrDuplicateIdentity) {
			result = "duplicate"
		}
		metrics.SignupsTotal.WithLabelValues(role, result).Inc()
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(role, "ok").Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", role).Msg("user signed up")
	return created, nil
}

// Login verifies the credential pair and returns the user.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.UserByName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}
