package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

type fakeLessonSrv struct {
	lessons    []models.LessonWithDetails
	hit        bool
	err        error
	lastFilter models.LessonFilter
	lastLimit  int
	lastID     int64
	created    dto.CreateLessonRequest
}

func (f *fakeLessonSrv) Get(_ context.Context, id int64) (*models.LessonWithDetails, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.LessonWithDetails{Lesson: models.Lesson{ID: id}}, nil
}

func (f *fakeLessonSrv) Search(_ context.Context, filter models.LessonFilter) ([]models.LessonWithDetails, error) {
	f.lastFilter = filter
	return f.lessons, f.err
}

func (f *fakeLessonSrv) Recommended(_ context.Context, limit int) ([]models.LessonWithDetails, bool, error) {
	f.lastLimit = limit
	return f.lessons, f.hit, f.err
}

func (f *fakeLessonSrv) Reviews(_ context.Context, id int64) ([]models.ReviewWithUser, error) {
	f.lastID = id
	return []models.ReviewWithUser{}, f.err
}

func (f *fakeLessonSrv) LessonTypes(context.Context) ([]models.LessonType, error) {
	return []models.LessonType{{ID: 1, Name: "개인 레슨"}}, f.err
}

func (f *fakeLessonSrv) SkillLevels(context.Context) ([]models.SkillLevel, error) {
	return []models.SkillLevel{{ID: 1, Name: "입문"}}, f.err
}

func (f *fakeLessonSrv) Create(_ context.Context, _ *models.JWTClaims, req dto.CreateLessonRequest) (*models.LessonWithDetails, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.LessonWithDetails{Lesson: models.Lesson{ID: 1, Title: req.Title}}, nil
}

func TestLessonHandlerSearchParsesFilters(t *testing.T) {
	srv := &fakeLessonSrv{lessons: []models.LessonWithDetails{{Lesson: models.Lesson{ID: 1}}}}
	handler := NewLessonHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/lessons?lessonTypeId=2&skillLevelId=3&location=%EA%B2%BD%EA%B8%B0", "", nil)

	handler.Search(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LessonFilter{Location: "경기", LessonTypeID: 2, SkillLevelID: 3}, srv.lastFilter)
}

func TestLessonHandlerSearchWithoutFilters(t *testing.T) {
	srv := &fakeLessonSrv{}
	handler := NewLessonHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/lessons", "", nil)

	handler.Search(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LessonFilter{}, srv.lastFilter)
}

func TestLessonHandlerSearchRejectsBadIDs(t *testing.T) {
	handler := NewLessonHandler(&fakeLessonSrv{})

	for _, target := range []string{"/lessons?lessonTypeId=abc", "/lessons?skillLevelId=0", "/lessons?lessonTypeId=-4"} {
		c, rec := newTestContext(http.MethodGet, target, "", nil)
		handler.Search(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)
	}
}

func TestLessonHandlerRecommendedDefaultLimit(t *testing.T) {
	srv := &fakeLessonSrv{}
	handler := NewLessonHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/lessons/recommended", "", nil)

	handler.Recommended(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, srv.lastLimit)
	assert.Equal(t, false, decodeEnvelope(t, rec).Meta["cache_hit"])
}

func TestLessonHandlerGetAndReviews(t *testing.T) {
	srv := &fakeLessonSrv{}
	handler := NewLessonHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/lessons/12", "", nil, gin.Param{Key: "id", Value: "12"})
	handler.Get(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), srv.lastID)

	c, rec = newTestContext(http.MethodGet, "/lessons/13/reviews", "", nil, gin.Param{Key: "id", Value: "13"})
	handler.Reviews(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(13), srv.lastID)

	srv.err = appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	c, rec = newTestContext(http.MethodGet, "/lessons/99", "", nil, gin.Param{Key: "id", Value: "99"})
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLessonHandlerReferenceTables(t *testing.T) {
	handler := NewLessonHandler(&fakeLessonSrv{})

	c, rec := newTestContext(http.MethodGet, "/lesson-types", "", nil)
	handler.LessonTypes(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "개인 레슨")

	c, rec = newTestContext(http.MethodGet, "/skill-levels", "", nil)
	handler.SkillLevels(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "입문")
}

func TestLessonHandlerCreate(t *testing.T) {
	srv := &fakeLessonSrv{}
	handler := NewLessonHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/lessons", `{"title":"슈팅"}`, nil)
	handler.Create(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	actor := &models.JWTClaims{UserID: 2, IsCoach: true}
	c, rec = newTestContext(http.MethodPost, "/lessons", `{"title":"슈팅 클리닉","location":"서울 강남구","group_size":4,"duration":60,"price":50000,"lesson_type_id":1}`, actor)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "슈팅 클리닉", srv.created.Title)
	require.NotNil(t, srv.created.LessonTypeID)
	assert.Equal(t, int64(1), *srv.created.LessonTypeID)
	assert.Nil(t, srv.created.SkillLevelID)
}
