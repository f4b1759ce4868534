package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
	"github.com/noah-isme/kickoff-coach-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered export ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// BookingService manages lesson bookings.
type BookingService struct {
	store     repository.Store
	agg       *Aggregator
	metrics   *MetricsService
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService constructs a BookingService. Nil renderers fall back to
// the default exporters.
func NewBookingService(store repository.Store, metrics *MetricsService, csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &BookingService{
		store:     store,
		agg:       NewAggregator(store),
		metrics:   metrics,
		csv:       csv,
		pdf:       pdf,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create books a lesson for the actor. Overlapping bookings of the same lesson
// and date are accepted.
func (s *BookingService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateBookingRequest) (*models.Booking, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid booking payload")
	}
	lesson, err := s.store.GetLesson(ctx, req.LessonID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load lesson")
	}
	if lesson == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.BookingStatusPending
	}
	booking, err := s.store.InsertBooking(ctx, models.Booking{
		UserID:       actor.UserID,
		LessonID:     req.LessonID,
		ScheduleDate: req.ScheduleDate.UTC(),
		Status:       status,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create booking")
	}

	s.metrics.BookingCreated()
	s.logger.Info("booking created", zap.Int64("booking_id", booking.ID), zap.Int64("lesson_id", booking.LessonID), zap.Int64("user_id", booking.UserID))
	return booking, nil
}

// ListMine returns the actor's bookings with lesson details.
func (s *BookingService) ListMine(ctx context.Context, actor *models.JWTClaims) ([]models.BookingWithLesson, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	bookings, err := s.agg.BookingsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list bookings")
	}
	return bookings, nil
}

// UpdateStatus sets a booking's status. Admins may update any booking; coaches
// only bookings of their own lessons.
func (s *BookingService) UpdateStatus(ctx context.Context, actor *models.JWTClaims, id int64, req dto.UpdateBookingStatusRequest) (*models.Booking, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid status payload")
	}

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load booking")
	}
	if booking == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	if !actor.IsAdmin {
		if err := s.ensureLessonOwner(ctx, actor, booking.LessonID); err != nil {
			return nil, err
		}
	}

	status := strings.TrimSpace(req.Status)
	updated, err := s.store.UpdateBooking(ctx, id, func(b *models.Booking) { b.Status = status })
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update booking")
	}
	if updated == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	s.logger.Info("booking status changed", zap.Int64("booking_id", id), zap.String("from", booking.Status), zap.String("to", status), zap.Int64("by", actor.UserID))
	return updated, nil
}

func (s *BookingService) ensureLessonOwner(ctx context.Context, actor *models.JWTClaims, lessonID int64) error {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return appErrors.Internal(err, "failed to load lesson")
	}
	if lesson != nil {
		coach, err := s.store.GetCoach(ctx, lesson.CoachID)
		if err != nil {
			return appErrors.Internal(err, "failed to load coach")
		}
		if coach != nil && coach.UserID == actor.UserID {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the lesson's coach or an admin can change this booking")
}

// Export renders every booking as CSV or PDF.
func (s *BookingService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	dataset, err := s.bookingDataset(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to collect bookings")
	}

	stamp := s.now().Format("20060102-150405")
	file := &ExportFile{Filename: fmt.Sprintf("bookings-%s.%s", stamp, format)}
	switch format {
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Payload, err = s.pdf.Render(dataset, "Bookings")
	default:
		file.ContentType = "text/csv; charset=utf-8"
		file.Payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return file, nil
}

func (s *BookingService) bookingDataset(ctx context.Context) (export.Dataset, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{
		Headers: []string{"id", "user", "lesson", "coach", "schedule_date", "status", "created_at"},
		Rows:    make([]map[string]string, 0, len(bookings)),
	}
	for _, booking := range bookings {
		row := map[string]string{
			"id":            strconv.FormatInt(booking.ID, 10),
			"user":          strconv.FormatInt(booking.UserID, 10),
			"lesson":        strconv.FormatInt(booking.LessonID, 10),
			"schedule_date": booking.ScheduleDate.Format("2006-01-02 15:04"),
			"status":        booking.Status,
			"created_at":    booking.CreatedAt.Format(time.RFC3339),
		}
		if user, err := s.store.GetUser(ctx, booking.UserID); err != nil {
			return export.Dataset{}, err
		} else if user != nil {
			row["user"] = user.Username
		}
		lesson, err := s.agg.LessonWithDetails(ctx, booking.LessonID)
		if err != nil {
			return export.Dataset{}, err
		}
		if lesson != nil {
			row["lesson"] = lesson.Title
			row["coach"] = lesson.Coach.User.FullName
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}
