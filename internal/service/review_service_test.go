package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

func TestReviewServiceRecomputesAcrossLessons(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	coach := f.coachWithUser("coach", "서울", 0)
	l1 := f.lesson(coach.ID, "L1", "서울", nil, nil)
	l2 := f.lesson(coach.ID, "L2", "서울", nil, nil)
	metrics := NewMetricsService()
	svc := NewReviewService(f.store, nil, metrics, nil, nil)

	for _, r := range []struct {
		lesson int64
		rating int
	}{{l1.ID, 5}, {l2.ID, 3}, {l1.ID, 4}} {
		_, err := svc.Create(f.ctx, claimsFor(student), dto.CreateReviewRequest{LessonID: r.lesson, Rating: r.rating})
		require.NoError(t, err)
	}

	stored, err := f.store.GetCoach(f.ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.Rating)
	assert.Equal(t, 3, stored.ReviewCount)
	assert.Equal(t, uint64(3), metrics.Snapshot().ReviewsCreated)
}

func TestReviewServiceLeavesOtherCoachesAlone(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	reviewed := f.coachWithUser("reviewed", "서울", 0)
	bystander := f.coachWithUser("bystander", "서울", 33)
	lesson := f.lesson(reviewed.ID, "L", "서울", nil, nil)
	svc := NewReviewService(f.store, nil, nil, nil, nil)

	_, err := svc.Create(f.ctx, claimsFor(student), dto.CreateReviewRequest{LessonID: lesson.ID, Rating: 2})
	require.NoError(t, err)

	other, err := f.store.GetCoach(f.ctx, bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, other.Rating)
	assert.Zero(t, other.ReviewCount)
}

func TestReviewServiceKeepsReviewOfMissingLesson(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	coach := f.coachWithUser("coach", "서울", 27)
	svc := NewReviewService(f.store, nil, nil, nil, nil)

	review, err := svc.Create(f.ctx, claimsFor(student), dto.CreateReviewRequest{LessonID: 321, Rating: 5, Comment: " 좋아요 "})
	require.NoError(t, err)
	assert.Equal(t, "좋아요", review.Comment)

	reviews, err := f.store.ListReviews(f.ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	unchanged, err := f.store.GetCoach(f.ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, 27, unchanged.Rating)
}

func TestReviewServiceKeepsReviewWhenCoachMissing(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	lesson := f.lesson(88, "orphan", "서울", nil, nil)
	svc := NewReviewService(f.store, nil, nil, nil, nil)

	_, err := svc.Create(f.ctx, claimsFor(student), dto.CreateReviewRequest{LessonID: lesson.ID, Rating: 3})
	require.NoError(t, err)

	coaches, err := f.store.ListCoaches(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, coaches)
}

func TestReviewServiceInvalidatesListingCaches(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	coach := f.coachWithUser("coach", "서울", 0)
	lesson := f.lesson(coach.ID, "L", "서울", nil, nil)
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	coaches := NewCoachService(f.store, cache, nil, nil)
	svc := NewReviewService(f.store, cache, nil, nil, nil)

	top, _, err := coaches.Top(f.ctx, 4)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Zero(t, top[0].Rating)
	cache.Set(f.ctx, "lessons:recommended:6", []int{1}, 0)

	_, err = svc.Create(f.ctx, claimsFor(student), dto.CreateReviewRequest{LessonID: lesson.ID, Rating: 5})
	require.NoError(t, err)
	assert.Empty(t, repo.keys())

	top, hit, err := coaches.Top(f.ctx, 4)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 50, top[0].Rating)
}

func TestReviewServiceConcurrentReviewsConverge(t *testing.T) {
	f := newMarketFixture(t)
	coach := f.coachWithUser("coach", "서울", 0)
	l1 := f.lesson(coach.ID, "L1", "서울", nil, nil)
	l2 := f.lesson(coach.ID, "L2", "서울", nil, nil)
	svc := NewReviewService(f.store, nil, nil, nil, nil)

	ratings := []int{5, 4, 3, 5, 2, 4, 5, 1}
	var wg sync.WaitGroup
	for i, rating := range ratings {
		lessonID := l1.ID
		if i%2 == 1 {
			lessonID = l2.ID
		}
		wg.Add(1)
		go func(lessonID int64, rating int) {
			defer wg.Done()
			_, err := svc.Record(context.Background(), models.Review{UserID: 1, LessonID: lessonID, Rating: rating})
			assert.NoError(t, err)
		}(lessonID, rating)
	}
	wg.Wait()

	stored, err := f.store.GetCoach(f.ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, len(ratings), stored.ReviewCount)
	assert.Equal(t, 36, stored.Rating)
}

func TestReviewServiceValidation(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	svc := NewReviewService(f.store, nil, nil, nil, nil)

	for _, rating := range []int{0, 6} {
		_, err := svc.Create(f.ctx, claimsFor(student), dto.CreateReviewRequest{LessonID: 1, Rating: rating})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}

	_, err := svc.Create(f.ctx, nil, dto.CreateReviewRequest{LessonID: 1, Rating: 3})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

type brokenTxStore struct {
	repository.Store
}

func (brokenTxStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return errors.New("begin failed")
}

func TestReviewServiceSurfacesTxFailure(t *testing.T) {
	svc := NewReviewService(brokenTxStore{}, nil, nil, nil, nil)

	_, err := svc.Record(context.Background(), models.Review{LessonID: 1, Rating: 4})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
