package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/capture-moments/backend/internal/models"
)

type memFlasher struct {
	flashes map[string][]Flash
}

func newMemFlasher() *memFlasher {
	return &memFlasher{flashes: make(map[string][]Flash)}
}

func (m *memFlasher) AddFlash(_ context.Context, sid string, f Flash) error {
	m.flashes[sid] = append(m.flashes[sid], f)
	return nil
}

func (m *memFlasher) PopFlashes(_ context.Context, sid string) ([]Flash, error) {
	out := m.flashes[sid]
	delete(m.flashes, sid)
	return out, nil
}

func newTestResponder(f Flasher) *Responder {
	return NewResponder(f, zerolog.Nop(), time.Hour, false)
}

func TestRedirect_AnonymousGetsSessionCookie(t *testing.T) {
	flasher := newMemFlasher()
	rs := newTestResponder(flasher)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/client", nil)
	rec := httptest.NewRecorder()
	rs.Redirect(rec, req, "/login", FlashWarning, "Please log in to access this page.")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookie, cookies[0].Name)
	require.Len(t, flasher.flashes[cookies[0].Value], 1)
}

func TestRender_PopsFlashes(t *testing.T) {
	flasher := newMemFlasher()
	flasher.flashes["sid-1"] = []Flash{{Category: FlashSuccess, Message: "Booking successful!"}}
	rs := newTestResponder(flasher)

	req := httptest.NewRequest(http.MethodGet, "/my_bookings", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-1"})
	rec := httptest.NewRecorder()
	rs.Render(rec, req, http.StatusOK, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Flashes []Flash           `json:"flashes"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Booking successful!", view.Flashes[0].Message)
	require.Equal(t, "world", view.Data["hello"])
	require.Empty(t, flasher.flashes["sid-1"])
}

func TestRender_UnencodableDataIs500(t *testing.T) {
	rs := newTestResponder(newMemFlasher())

	req := httptest.NewRequest(http.MethodGet, "/photographers", nil)
	rec := httptest.NewRecorder()
	rs.Render(rec, req, http.StatusOK, map[string]float64{"price_per_hour": math.Inf(1)})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotEqual(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err      error
		category string
	}{
		{fmt.Errorf("accept: %w", models.ErrInvalidTransition), FlashWarning},
		{models.ErrForbidden, FlashDanger},
		{models.ErrNotFound, FlashDanger},
		{models.ErrDuplicateIdentity, FlashDanger},
		{models.ErrBackendUnavailable, FlashDanger},
		{errors.New("boom"), FlashDanger},
	}
	for _, tc := range cases {
		category, message := Classify(tc.err)
		require.Equal(t, tc.category, category, "error %v", tc.err)
		require.NotEmpty(t, message)
	}

	_, msg := Classify(errors.New("boom"))
	require.Equal(t, genericFailure, msg)

	_, msg = Classify(fmt.Errorf("create booking: %w: duration is required", models.ErrInvalidInput))
	require.Equal(t, "duration is required", msg)
}

func TestFail_RedirectsWithNotice(t *testing.T) {
	flasher := newMemFlasher()
	rs := newTestResponder(flasher)

	req := httptest.NewRequest(http.MethodPost, "/booking/7/accept", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-2"})
	rec := httptest.NewRecorder()
	rs.Fail(rec, req, models.ErrInvalidTransition, "/dashboard/photographer")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard/photographer", rec.Header().Get("Location"))
	require.Equal(t, FlashWarning, flasher.flashes["sid-2"][0].Category)
}

func TestValidate(t *testing.T) {
	err := Validate(models.BookingRequest{Date: "2024-05-01", Time: "14:00", Duration: 2})
	require.NoError(t, err)

	err = Validate(models.BookingRequest{Date: "05/01/2024", Time: "2pm", Duration: 0})
	require.ErrorIs(t, err, models.ErrInvalidInput)
	require.Contains(t, err.Error(), "date must match")
	require.Contains(t, err.Error(), "duration is required")
}
