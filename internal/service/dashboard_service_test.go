package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

type fixedSnapshot struct {
	snapshot models.SystemMetrics
}

func (f fixedSnapshot) Snapshot() models.SystemMetrics {
	return f.snapshot
}

func TestDashboardServiceStats(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	coach := f.coachWithUser("coach", "서울", 0)
	lesson := f.lesson(coach.ID, "L", "서울", nil, nil)
	f.review(student.ID, lesson.ID, 5)
	for _, status := range []string{"pending", "pending", "confirmed"} {
		_, err := f.store.InsertBooking(f.ctx, models.Booking{UserID: student.ID, LessonID: lesson.ID, Status: status})
		require.NoError(t, err)
	}
	open, err := f.store.InsertInquiry(f.ctx, models.Inquiry{Name: "a"})
	require.NoError(t, err)
	_, err = f.store.InsertInquiry(f.ctx, models.Inquiry{Name: "b", Resolved: true})
	require.NoError(t, err)

	generated := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	svc := NewDashboardService(f.store, fixedSnapshot{models.SystemMetrics{CacheHits: 3, GeneratedAt: generated}}, nil)

	stats, err := svc.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 1, stats.Coaches)
	assert.Equal(t, 1, stats.Lessons)
	assert.Equal(t, 3, stats.Bookings)
	assert.Equal(t, map[string]int{"pending": 2, "confirmed": 1}, stats.BookingsByStatus)
	assert.Equal(t, 1, stats.Reviews)
	assert.Equal(t, 1, stats.OpenInquiries, "inquiry %d is the only open one", open.ID)
	assert.Equal(t, uint64(3), stats.System.CacheHits)
	assert.Equal(t, generated, stats.System.GeneratedAt)
}

func TestDashboardServiceStoreFailure(t *testing.T) {
	svc := NewDashboardService(failingStore{}, nil, nil)

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.ErrorIs(t, err, errStoreDown)
}
