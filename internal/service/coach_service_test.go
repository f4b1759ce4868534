package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

func TestCoachServiceTopOrdersAndTruncates(t *testing.T) {
	f := newMarketFixture(t)
	f.coachWithUser("a", "서울", 49)
	f.coachWithUser("b", "서울", 10)
	f.coachWithUser("c", "경기", 47)
	svc := NewCoachService(f.store, nil, nil, nil)

	top, hit, err := svc.Top(f.ctx, 2)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, top, 2)
	assert.Equal(t, 49, top[0].Rating)
	assert.Equal(t, 47, top[1].Rating)
}

func TestCoachServiceTopKeepsStoreOrderForTies(t *testing.T) {
	f := newMarketFixture(t)
	first := f.coachWithUser("a", "서울", 40)
	second := f.coachWithUser("b", "서울", 40)
	svc := NewCoachService(f.store, nil, nil, nil)

	top, _, err := svc.Top(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, first.ID, top[0].ID)
	assert.Equal(t, second.ID, top[1].ID)
}

func TestCoachServiceTopUsesCache(t *testing.T) {
	f := newMarketFixture(t)
	f.coachWithUser("a", "서울", 49)
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	svc := NewCoachService(f.store, cache, nil, nil)

	_, hit, err := svc.Top(f.ctx, 4)
	require.NoError(t, err)
	assert.False(t, hit)

	cached, hit, err := svc.Top(f.ctx, 4)
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, cached, 1)
	assert.Equal(t, "a", cached[0].User.Username)
}

func TestCoachServiceSearch(t *testing.T) {
	f := newMarketFixture(t)
	gangnam := f.coachWithUser("a", "서울 강남구", 0)
	f.coachWithUser("b", "경기 분당구", 0)
	keeperUser := f.user("keeper")
	keeper, err := f.store.InsertCoach(f.ctx, models.Coach{UserID: keeperUser.ID, Location: "서울 마포구", Specializations: []string{"골키퍼"}})
	require.NoError(t, err)
	svc := NewCoachService(f.store, nil, nil, nil)

	seoul, err := svc.Search(f.ctx, models.CoachFilter{Location: "서울"})
	require.NoError(t, err)
	require.Len(t, seoul, 2)
	assert.Equal(t, gangnam.ID, seoul[0].ID)
	assert.Equal(t, keeper.ID, seoul[1].ID)

	keepers, err := svc.Search(f.ctx, models.CoachFilter{Location: "서울", Specialization: "골키퍼"})
	require.NoError(t, err)
	require.Len(t, keepers, 1)
	assert.Equal(t, keeper.ID, keepers[0].ID)

	all, err := svc.Search(f.ctx, models.CoachFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCoachServiceGetNotFound(t *testing.T) {
	f := newMarketFixture(t)
	svc := NewCoachService(f.store, nil, nil, nil)

	_, err := svc.Get(f.ctx, 9)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCoachServiceCreateFlagsUser(t *testing.T) {
	f := newMarketFixture(t)
	user := f.user("newcoach")
	svc := NewCoachService(f.store, nil, nil, nil)

	coach, err := svc.Create(f.ctx, claimsFor(user), dto.CreateCoachRequest{
		Specializations: []string{" 드리블 ", "슈팅"},
		Location:        "서울 송파구",
		HourlyRate:      60000,
	})
	require.NoError(t, err)
	assert.True(t, coach.User.IsCoach)
	assert.Equal(t, []string{"드리블", "슈팅"}, []string(coach.Specializations))
	assert.Zero(t, coach.Rating)

	_, err = svc.Create(f.ctx, claimsFor(user), dto.CreateCoachRequest{Location: "서울"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCoachServiceCreateValidates(t *testing.T) {
	f := newMarketFixture(t)
	user := f.user("newcoach")
	svc := NewCoachService(f.store, nil, nil, nil)

	_, err := svc.Create(f.ctx, claimsFor(user), dto.CreateCoachRequest{HourlyRate: -1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(f.ctx, nil, dto.CreateCoachRequest{Location: "서울"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestCoachServiceUpdateOwnership(t *testing.T) {
	f := newMarketFixture(t)
	owner := f.user("owner")
	coach := f.coach(owner.ID, "서울", 42)
	stranger := f.user("stranger")
	svc := NewCoachService(f.store, nil, nil, nil)
	location := "경기 수원시"

	_, err := svc.Update(f.ctx, claimsFor(stranger), coach.ID, dto.UpdateCoachRequest{Location: &location})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	updated, err := svc.Update(f.ctx, claimsFor(owner), coach.ID, dto.UpdateCoachRequest{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, location, updated.Location)
	assert.Equal(t, 42, updated.Rating)

	admin := &models.JWTClaims{UserID: 999, IsAdmin: true}
	rate := 70000
	updated, err = svc.Update(f.ctx, admin, coach.ID, dto.UpdateCoachRequest{HourlyRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, rate, updated.HourlyRate)
	assert.Equal(t, location, updated.Location)
}

func TestCoachServiceSchedules(t *testing.T) {
	f := newMarketFixture(t)
	owner := f.user("owner")
	coach := f.coach(owner.ID, "서울", 0)
	svc := NewCoachService(f.store, nil, nil, nil)

	_, err := svc.AddSchedule(f.ctx, claimsFor(owner), coach.ID, dto.CreateScheduleRequest{DayOfWeek: 2, StartTime: "19:00", EndTime: "18:00"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	slot, err := svc.AddSchedule(f.ctx, claimsFor(owner), coach.ID, dto.CreateScheduleRequest{DayOfWeek: 2, StartTime: "18:00", EndTime: "20:00"})
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)

	slots, err := svc.Schedules(f.ctx, coach.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, slot.ID, slots[0].ID)

	_, err = svc.Schedules(f.ctx, 99)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCoachServiceLessonsAndReviews(t *testing.T) {
	f := newMarketFixture(t)
	student := f.user("student")
	coach := f.coachWithUser("coach", "서울", 0)
	lesson := f.lesson(coach.ID, "패스 훈련", "서울", nil, nil)
	f.review(student.ID, lesson.ID, 5)
	svc := NewCoachService(f.store, nil, nil, nil)

	lessons, err := svc.Lessons(f.ctx, coach.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "패스 훈련", lessons[0].Title)

	reviews, err := svc.Reviews(f.ctx, coach.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "student", reviews[0].User.Username)
}

func TestCoachServiceSurfacesStoreErrors(t *testing.T) {
	svc := NewCoachService(failingStore{}, nil, nil, nil)

	_, err := svc.Search(context.Background(), models.CoachFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.ErrorIs(t, err, errStoreDown)
}
