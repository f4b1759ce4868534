package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	"github.com/noah-isme/kickoff-coach-api/internal/service"
)

func newDeps(store repository.Store) Deps {
	return Deps{
		Store:   store,
		Auth:    service.NewAuthService(store, nil, nil, nil, service.AuthConfig{AccessTokenSecret: "seed-secret"}),
		Coaches: service.NewCoachService(store, nil, nil, nil),
		Lessons: service.NewLessonService(store, nil, nil, nil),
		Reviews: service.NewReviewService(store, nil, nil, nil, nil),
	}
}

func TestRunSeedsMarketplace(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, Run(ctx, newDeps(store), Options{AdminPassword: "admin-pass", Now: now}, zaptest.NewLogger(t)))

	types, err := store.ListLessonTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 4)
	assert.Equal(t, "개인 레슨", types[0].Name)
	assert.Equal(t, "피지컬 트레이닝", types[3].Name)

	levels, err := store.ListSkillLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 4)
	assert.Equal(t, "입문", levels[0].Name)

	admin, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)
	assert.NotEmpty(t, admin.PasswordHash)

	lessons, err := store.ListLessons(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 6)

	reviews, err := store.ListReviews(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 14)
	assert.True(t, reviews[0].CreatedAt.Before(now()))

	schedules, err := store.ListSchedules(ctx)
	require.NoError(t, err)
	assert.Len(t, schedules, 5)

	coaches, err := store.ListCoaches(ctx)
	require.NoError(t, err)
	require.Len(t, coaches, 4)

	byLocation := map[string][2]int{}
	for _, coach := range coaches {
		byLocation[coach.Location] = [2]int{coach.Rating, coach.ReviewCount}
		user, err := store.GetUser(ctx, coach.UserID)
		require.NoError(t, err)
		assert.True(t, user.IsCoach)
	}
	assert.Equal(t, [2]int{46, 5}, byLocation["서울 강남구"])
	assert.Equal(t, [2]int{45, 4}, byLocation["서울 송파구"])
	assert.Equal(t, [2]int{35, 2}, byLocation["경기 분당구"])
	assert.Equal(t, [2]int{50, 3}, byLocation["경기 수원시"])
}

func TestRunSeededAccountsCanLogIn(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	deps := newDeps(store)
	require.NoError(t, Run(ctx, deps, Options{AdminPassword: "admin-pass"}, nil))

	res, err := deps.Auth.Login(ctx, models.LoginRequest{Username: "admin", Password: "admin-pass"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)

	res, err = deps.Auth.Login(ctx, models.LoginRequest{Username: "coach_kim", Password: "coach_kim1234"})
	require.NoError(t, err)
	assert.True(t, res.User.IsCoach)
}

func TestRunSkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	deps := newDeps(store)

	require.NoError(t, Run(ctx, deps, Options{AdminPassword: "admin-pass"}, nil))
	require.NoError(t, Run(ctx, deps, Options{AdminPassword: "admin-pass"}, nil))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1+len(students)+len(coaches))
}
