package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/service"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

type fakeBookingSrv struct {
	err        error
	created    dto.CreateBookingRequest
	actor      *models.JWTClaims
	status     dto.UpdateBookingStatusRequest
	lastID     int64
	lastFormat string
}

func (f *fakeBookingSrv) Create(_ context.Context, actor *models.JWTClaims, req dto.CreateBookingRequest) (*models.Booking, error) {
	f.actor = actor
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Booking{ID: 1, UserID: actor.UserID, LessonID: req.LessonID, Status: "pending"}, nil
}

func (f *fakeBookingSrv) ListMine(_ context.Context, actor *models.JWTClaims) ([]models.BookingWithLesson, error) {
	f.actor = actor
	return []models.BookingWithLesson{{Booking: models.Booking{ID: 1, UserID: actor.UserID}}}, f.err
}

func (f *fakeBookingSrv) UpdateStatus(_ context.Context, actor *models.JWTClaims, id int64, req dto.UpdateBookingStatusRequest) (*models.Booking, error) {
	f.actor = actor
	f.lastID = id
	f.status = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Booking{ID: id, Status: req.Status}, nil
}

func (f *fakeBookingSrv) Export(_ context.Context, format string) (*service.ExportFile, error) {
	f.lastFormat = format
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportFile{Filename: "bookings." + format, ContentType: "text/csv; charset=utf-8", Payload: []byte("id\n1\n")}, nil
}

func TestBookingHandlerCreateUsesCaller(t *testing.T) {
	srv := &fakeBookingSrv{}
	handler := NewBookingHandler(srv)
	actor := &models.JWTClaims{UserID: 5, Username: "student"}

	c, rec := newTestContext(http.MethodPost, "/bookings", `{"lesson_id":3,"schedule_date":"2024-04-01T18:00:00Z"}`, actor)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Same(t, actor, srv.actor)
	assert.Equal(t, int64(3), srv.created.LessonID)
	assert.True(t, srv.created.ScheduleDate.Equal(time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)))
}

func TestBookingHandlerCreateFailures(t *testing.T) {
	srv := &fakeBookingSrv{}
	handler := NewBookingHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/bookings", `{"lesson_id":3}`, nil)
	handler.Create(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	actor := &models.JWTClaims{UserID: 5}
	c, rec = newTestContext(http.MethodPost, "/bookings", `{"lesson_id":3,"schedule_date":"next tuesday"}`, actor)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	srv.err = appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	c, rec = newTestContext(http.MethodPost, "/bookings", `{"lesson_id":77,"schedule_date":"2024-04-01T18:00:00Z"}`, actor)
	handler.Create(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingHandlerMine(t *testing.T) {
	handler := NewBookingHandler(&fakeBookingSrv{})
	c, rec := newTestContext(http.MethodGet, "/bookings/me", "", &models.JWTClaims{UserID: 8})

	handler.Mine(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeEnvelope(t, rec).Meta["count"])
}

func TestBookingHandlerUpdateStatus(t *testing.T) {
	srv := &fakeBookingSrv{}
	handler := NewBookingHandler(srv)
	actor := &models.JWTClaims{UserID: 2, IsCoach: true}

	c, rec := newTestContext(http.MethodPatch, "/bookings/4/status", `{"status":"confirmed"}`, actor, gin.Param{Key: "id", Value: "4"})
	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), srv.lastID)
	assert.Equal(t, "confirmed", srv.status.Status)

	srv.err = appErrors.ErrForbidden
	c, rec = newTestContext(http.MethodPatch, "/bookings/4/status", `{"status":"cancelled"}`, actor, gin.Param{Key: "id", Value: "4"})
	handler.UpdateStatus(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingHandlerExportAttachment(t *testing.T) {
	srv := &fakeBookingSrv{}
	handler := NewBookingHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/admin/bookings/export", "", nil)
	handler.Export(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, `attachment; filename="bookings.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "id\n1\n", rec.Body.String())

	c, _ = newTestContext(http.MethodGet, "/admin/bookings/export?format=PDF", "", nil)
	handler.Export(c)
	assert.Equal(t, "pdf", srv.lastFormat)

	srv.err = appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	c, rec = newTestContext(http.MethodGet, "/admin/bookings/export?format=xlsx", "", nil)
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
