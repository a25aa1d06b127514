package review

import (
	"context"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/capture-moments/backend/internal/models"
)

type memStore struct {
	reviews []models.Review
}

func (m *memStore) CreateReview(_ context.Context, r *models.Review) (*models.Review, error) {
	clone := *r
	clone.ID = strconv.Itoa(len(m.reviews) + 1)
	m.reviews = append(m.reviews, clone)
	return &clone, nil
}

func (m *memStore) ReviewsByPhotographer(_ context.Context, id models.ID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.PhotographerID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

type oneProfile struct{ id models.ID }

func (o oneProfile) PhotographerByID(_ context.Context, id models.ID) (*models.Photographer, error) {
	if id != o.id {
		return nil, models.ErrNotFound
	}
	return &models.Photographer{ID: id}, nil
}

func TestCreate(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, oneProfile{id: "p1"}, zerolog.Nop())

	rev, err := svc.Create(context.Background(), "3", "p1", models.ReviewRequest{Rating: 5, Comment: "  lovely  "})
	require.NoError(t, err)
	require.Equal(t, "lovely", rev.Comment)
	require.False(t, rev.CreatedAt.IsZero())

	list, err := svc.ReviewsByPhotographer(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	none, err := svc.ReviewsByPhotographer(context.Background(), "p9")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestCreate_Invalid(t *testing.T) {
	store := &memStore{}
	svc := NewService(store, oneProfile{id: "p1"}, zerolog.Nop())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), "3", "p1", models.ReviewRequest{Rating: rating})
		require.ErrorIs(t, err, models.ErrInvalidInput, "rating %d", rating)
	}

	_, err := svc.Create(context.Background(), "3", "p2", models.ReviewRequest{Rating: 3})
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Empty(t, store.reviews)
}
