package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
)

var errStoreDown = errors.New("store down")

// marketFixture seeds a fresh memory store through the store API.
type marketFixture struct {
	t     *testing.T
	ctx   context.Context
	store *repository.MemoryStore
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()
	return &marketFixture{t: t, ctx: context.Background(), store: repository.NewMemoryStore()}
}

func (f *marketFixture) user(username string) models.User {
	f.t.Helper()
	user, err := f.store.InsertUser(f.ctx, models.User{Username: username, Email: username + "@example.com", FullName: username})
	require.NoError(f.t, err)
	return *user
}

func (f *marketFixture) coach(userID int64, location string, rating int) models.Coach {
	f.t.Helper()
	coach, err := f.store.InsertCoach(f.ctx, models.Coach{UserID: userID, Location: location, Rating: rating, Specializations: []string{"드리블"}})
	require.NoError(f.t, err)
	return *coach
}

func (f *marketFixture) coachWithUser(username, location string, rating int) models.Coach {
	f.t.Helper()
	user := f.user(username)
	return f.coach(user.ID, location, rating)
}

func (f *marketFixture) lessonType(name string) models.LessonType {
	f.t.Helper()
	lt, err := f.store.InsertLessonType(f.ctx, models.LessonType{Name: name})
	require.NoError(f.t, err)
	return *lt
}

func (f *marketFixture) skillLevel(name string) models.SkillLevel {
	f.t.Helper()
	level, err := f.store.InsertSkillLevel(f.ctx, models.SkillLevel{Name: name})
	require.NoError(f.t, err)
	return *level
}

func (f *marketFixture) lesson(coachID int64, title, location string, lessonTypeID, skillLevelID *int64) models.Lesson {
	f.t.Helper()
	lesson, err := f.store.InsertLesson(f.ctx, models.Lesson{
		CoachID:      coachID,
		Title:        title,
		Location:     location,
		LessonTypeID: lessonTypeID,
		SkillLevelID: skillLevelID,
		GroupSize:    1,
		Duration:     60,
		Price:        50000,
	})
	require.NoError(f.t, err)
	return *lesson
}

func (f *marketFixture) review(userID, lessonID int64, rating int) models.Review {
	f.t.Helper()
	review, err := f.store.InsertReview(f.ctx, models.Review{UserID: userID, LessonID: lessonID, Rating: rating})
	require.NoError(f.t, err)
	return *review
}

func claimsFor(user models.User) *models.JWTClaims {
	return &models.JWTClaims{UserID: user.ID, Username: user.Username, IsCoach: user.IsCoach, IsAdmin: user.IsAdmin}
}

func int64Ptr(v int64) *int64 {
	return &v
}

// failingStore fails the listing calls a test exercises. Other methods are
// not expected to be reached.
type failingStore struct {
	repository.Store
}

func (failingStore) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	return nil, errStoreDown
}

func (failingStore) ListCoaches(ctx context.Context) ([]models.Coach, error) {
	return nil, errStoreDown
}

func (failingStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return nil, errStoreDown
}

func (failingStore) GetCoach(ctx context.Context, id int64) (*models.Coach, error) {
	return nil, errStoreDown
}
