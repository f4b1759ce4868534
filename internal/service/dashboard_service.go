package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// DashboardService composes the admin overview from store counts and the
// instrumentation snapshot.
type DashboardService struct {
	store   repository.Store
	metrics metricsSnapshotter
	logger  *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(store repository.Store, metrics metricsSnapshotter, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, metrics: metrics, logger: logger}
}

// Stats returns entity counts, bookings per status and the metrics snapshot.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.collect(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build dashboard stats")
	}
	if s.metrics != nil {
		stats.System = s.metrics.Snapshot()
	}
	return stats, nil
}

func (s *DashboardService) collect(ctx context.Context) (*models.DashboardStats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	coaches, err := s.store.ListCoaches(ctx)
	if err != nil {
		return nil, fmt.Errorf("count coaches: %w", err)
	}
	lessons, err := s.store.ListLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	reviews, err := s.store.ListReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	inquiries, err := s.store.ListInquiries(ctx)
	if err != nil {
		return nil, fmt.Errorf("count inquiries: %w", err)
	}

	stats := &models.DashboardStats{
		Users:            len(users),
		Coaches:          len(coaches),
		Lessons:          len(lessons),
		Bookings:         len(bookings),
		BookingsByStatus: make(map[string]int),
		Reviews:          len(reviews),
	}
	for _, booking := range bookings {
		stats.BookingsByStatus[booking.Status]++
	}
	for _, inquiry := range inquiries {
		if !inquiry.Resolved {
			stats.OpenInquiries++
		}
	}
	return stats, nil
}
