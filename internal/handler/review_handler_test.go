package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

type fakeReviewSrv struct {
	err   error
	req   dto.CreateReviewRequest
	actor *models.JWTClaims
}

func (f *fakeReviewSrv) Create(_ context.Context, actor *models.JWTClaims, req dto.CreateReviewRequest) (*models.Review, error) {
	f.actor, f.req = actor, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Review{ID: 1, UserID: actor.UserID, LessonID: req.LessonID, Rating: req.Rating}, nil
}

func TestReviewHandlerCreate(t *testing.T) {
	srv := &fakeReviewSrv{}
	handler := NewReviewHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/reviews", `{"lesson_id":1,"rating":5}`, nil)
	handler.Create(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	actor := &models.JWTClaims{UserID: 3}
	c, rec = newTestContext(http.MethodPost, "/reviews", `{"lesson_id":1,"rating":5,"comment":"최고","tags":["친절"]}`, actor)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 5, srv.req.Rating)
	assert.Equal(t, []string{"친절"}, srv.req.Tags)
	assert.Same(t, actor, srv.actor)

	srv.err = appErrors.Clone(appErrors.ErrValidation, "invalid review payload")
	c, rec = newTestContext(http.MethodPost, "/reviews", `{"lesson_id":1,"rating":9}`, actor)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
