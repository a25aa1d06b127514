package photographer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/capture-moments/backend/internal/models"
)

// Directory is the photographer profile store.
type Directory interface {
	ListPhotographers(ctx context.Context) ([]models.Photographer, error)
	PhotographerByID(ctx context.Context, id models.ID) (*models.Photographer, error)
	PhotographerByUser(ctx context.Context, userID models.ID) (*models.Photographer, error)
	UpdatePhotographer(ctx context.Context, p *models.Photographer) error
}

// ReviewLister supplies the reviews shown on a profile page.
type ReviewLister interface {
	ReviewsByPhotographer(ctx context.Context, photographerID models.ID) ([]models.Review, error)
}

// ImageStore holds uploaded profile images by file name.
type ImageStore interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

// Upload is an image file attached to a profile edit. Body is read in full,
// so callers bound its size.
type Upload struct {
	Filename string
	Body     io.Reader
}

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Service implements the photographer directory operations.
type Service struct {
	dir     Directory
	reviews ReviewLister
	images  ImageStore
	log     zerolog.Logger
}

func NewService(dir Directory, reviews ReviewLister, images ImageStore, log zerolog.Logger) *Service {
	return &Service{dir: dir, reviews: reviews, images: images, log: log}
}

// List returns every profile, unordered.
func (s *Service) List(ctx context.Context) ([]models.Photographer, error) {
	out, err := s.dir.ListPhotographers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list photographers: %w", err)
	}
	if out == nil {
		out = []models.Photographer{}
	}
	return out, nil
}

// Profile is a photographer together with the reviews left for them.
type Profile struct {
	Photographer *models.Photographer `json:"photographer"`
	Reviews      []models.Review      `json:"reviews"`
	AvgRating    float64              `json:"avg_rating"`
}

// Get returns the public profile for id.
func (s *Service) Get(ctx context.Context, id models.ID) (*Profile, error) {
	p, err := s.dir.PhotographerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get photographer: %w", err)
	}
	reviews, err := s.reviews.ReviewsByPhotographer(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &Profile{Photographer: p, Reviews: reviews, AvgRating: averageRating(reviews)}, nil
}

// ForUser returns the profile owned by userID.
func (s *Service) ForUser(ctx context.Context, userID models.ID) (*models.Photographer, error) {
	return s.dir.PhotographerByUser(ctx, userID)
}

// UpdateProfile applies upd to the profile owned by userID. An image, when
// present, is stored under a randomized name before the profile is written.
func (s *Service) UpdateProfile(ctx context.Context, userID models.ID, upd models.ProfileUpdate, img *Upload) (*models.Photographer, error) {
	p, err := s.dir.PhotographerByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	upd.Apply(p)

	if img != nil {
		name, err := s.storeImage(ctx, img)
		if err != nil {
			return nil, err
		}
		p.ProfileImage = name
	}

	if err := s.dir.UpdatePhotographer(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.log.Info().Str("photographer_id", p.ID).Bool("image", img != nil).Msg("profile updated")
	return p, nil
}

// OpenImage streams a stored image.
func (s *Service) OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, "", models.ErrNotFound
	}
	return s.images.Open(ctx, name)
}

func (s *Service) storeImage(ctx context.Context, img *Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("%w: profile_image must be a jpg, png, gif or webp file", models.ErrInvalidInput)
	}

	data, err := io.ReadAll(img.Body)
	if err != nil {
		return "", fmt.Errorf("%w: could not read profile_image", models.ErrInvalidInput)
	}
	kind, err := detectImage(data)
	if err != nil {
		return "", err
	}

	name := imageName(kind.ext)
	if err := s.images.Put(ctx, name, bytes.NewReader(data), int64(len(data)), kind.contentType); err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return "", err
		}
		return "", fmt.Errorf("store image: %w", err)
	}
	return name, nil
}

func imageName(ext string) string {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return prefix + ext
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}
