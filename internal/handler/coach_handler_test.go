package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

type fakeCoachSrv struct {
	coaches    []models.CoachWithUser
	hit        bool
	err        error
	lastFilter models.CoachFilter
	lastLimit  int
	lastID     int64
	lastActor  *models.JWTClaims
	lastCreate dto.CreateCoachRequest
}

func (f *fakeCoachSrv) Get(_ context.Context, id int64) (*models.CoachWithUser, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &f.coaches[0], nil
}

func (f *fakeCoachSrv) Search(_ context.Context, filter models.CoachFilter) ([]models.CoachWithUser, error) {
	f.lastFilter = filter
	return f.coaches, f.err
}

func (f *fakeCoachSrv) Top(_ context.Context, limit int) ([]models.CoachWithUser, bool, error) {
	f.lastLimit = limit
	return f.coaches, f.hit, f.err
}

func (f *fakeCoachSrv) Lessons(_ context.Context, id int64) ([]models.LessonWithDetails, error) {
	f.lastID = id
	return nil, f.err
}

func (f *fakeCoachSrv) Reviews(_ context.Context, id int64) ([]models.ReviewWithUser, error) {
	f.lastID = id
	return nil, f.err
}

func (f *fakeCoachSrv) Schedules(_ context.Context, id int64) ([]models.Schedule, error) {
	f.lastID = id
	return []models.Schedule{{ID: 1, CoachID: id}}, f.err
}

func (f *fakeCoachSrv) Create(_ context.Context, actor *models.JWTClaims, req dto.CreateCoachRequest) (*models.CoachWithUser, error) {
	f.lastActor = actor
	f.lastCreate = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.CoachWithUser{Coach: models.Coach{ID: 9, UserID: actor.UserID}}, nil
}

func (f *fakeCoachSrv) Update(_ context.Context, actor *models.JWTClaims, id int64, _ dto.UpdateCoachRequest) (*models.CoachWithUser, error) {
	f.lastActor = actor
	f.lastID = id
	return &models.CoachWithUser{Coach: models.Coach{ID: id}}, f.err
}

func (f *fakeCoachSrv) AddSchedule(_ context.Context, actor *models.JWTClaims, id int64, _ dto.CreateScheduleRequest) (*models.Schedule, error) {
	f.lastActor = actor
	f.lastID = id
	return &models.Schedule{ID: 1, CoachID: id}, f.err
}

func sampleCoaches() []models.CoachWithUser {
	return []models.CoachWithUser{
		{Coach: models.Coach{ID: 1, Location: "서울 강남구", Rating: 48}},
		{Coach: models.Coach{ID: 2, Location: "서울 송파구", Rating: 45}},
	}
}

func TestCoachHandlerSearchPassesFilters(t *testing.T) {
	srv := &fakeCoachSrv{coaches: sampleCoaches()}
	handler := NewCoachHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/coaches?location=%EC%84%9C%EC%9A%B8&specialization=%EB%93%9C%EB%A6%AC%EB%B8%94", "", nil)

	handler.Search(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CoachFilter{Location: "서울", Specialization: "드리블"}, srv.lastFilter)
	assert.EqualValues(t, 2, decodeEnvelope(t, rec).Meta["count"])
}

func TestCoachHandlerTopDefaultsAndCacheMeta(t *testing.T) {
	srv := &fakeCoachSrv{coaches: sampleCoaches(), hit: true}
	handler := NewCoachHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/coaches/top", "", nil)

	handler.Top(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, srv.lastLimit)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])

	var coaches []models.CoachWithUser
	require.NoError(t, json.Unmarshal(envelope.Data, &coaches))
	assert.Len(t, coaches, 2)
}

func TestCoachHandlerTopRejectsBadLimit(t *testing.T) {
	srv := &fakeCoachSrv{}
	handler := NewCoachHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/coaches/top?limit=abc", "", nil)
	handler.Top(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/coaches/top?limit=-1", "", nil)
	handler.Top(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/coaches/top?limit=10", "", nil)
	handler.Top(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, srv.lastLimit)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
}

func TestCoachHandlerGet(t *testing.T) {
	srv := &fakeCoachSrv{coaches: sampleCoaches()}
	handler := NewCoachHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/coaches/x", "", nil, gin.Param{Key: "id", Value: "x"})
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/coaches/1", "", nil, gin.Param{Key: "id", Value: "1"})
	handler.Get(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), srv.lastID)

	srv.err = appErrors.Clone(appErrors.ErrNotFound, "coach not found")
	c, rec = newTestContext(http.MethodGet, "/coaches/5", "", nil, gin.Param{Key: "id", Value: "5"})
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, rec).Error.Code)
}

func TestCoachHandlerSubresources(t *testing.T) {
	srv := &fakeCoachSrv{}
	handler := NewCoachHandler(srv)

	for _, call := range []func(*gin.Context){handler.Lessons, handler.Reviews, handler.Schedules} {
		c, rec := newTestContext(http.MethodGet, "/coaches/3/x", "", nil, gin.Param{Key: "id", Value: "3"})
		call(c)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(3), srv.lastID)
	}
}

func TestCoachHandlerCreateRequiresAuth(t *testing.T) {
	srv := &fakeCoachSrv{}
	handler := NewCoachHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/coaches", `{"location":"서울"}`, nil)
	handler.Create(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	actor := &models.JWTClaims{UserID: 4, Username: "kim"}
	c, rec = newTestContext(http.MethodPost, "/coaches", `{"location":`, actor)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(http.MethodPost, "/coaches", `{"location":"서울 강남구","specializations":["드리블"]}`, actor)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Same(t, actor, srv.lastActor)
	assert.Equal(t, "서울 강남구", srv.lastCreate.Location)
}

func TestCoachHandlerUpdateAndSchedule(t *testing.T) {
	srv := &fakeCoachSrv{}
	handler := NewCoachHandler(srv)
	actor := &models.JWTClaims{UserID: 2, IsCoach: true}

	c, rec := newTestContext(http.MethodPut, "/coaches/7", `{"bio":"hi"}`, actor, gin.Param{Key: "id", Value: "7"})
	handler.Update(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), srv.lastID)

	srv.err = appErrors.ErrForbidden
	c, rec = newTestContext(http.MethodPost, "/coaches/7/schedules", `{"day_of_week":1,"start_time":"18:00","end_time":"20:00"}`, actor, gin.Param{Key: "id", Value: "7"})
	handler.AddSchedule(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
