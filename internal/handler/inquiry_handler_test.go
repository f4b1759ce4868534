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

type fakeInquirySrv struct {
	err        error
	created    dto.CreateInquiryRequest
	submitter  *models.JWTClaims
	lastFilter dto.InquiryFilter
	resolvedID int64
}

func (f *fakeInquirySrv) Create(_ context.Context, actor *models.JWTClaims, req dto.CreateInquiryRequest) (*models.Inquiry, error) {
	f.created, f.submitter = req, actor
	if f.err != nil {
		return nil, f.err
	}
	return &models.Inquiry{ID: 1, Name: req.Name}, nil
}

func (f *fakeInquirySrv) List(_ context.Context, filter dto.InquiryFilter) ([]models.Inquiry, error) {
	f.lastFilter = filter
	return []models.Inquiry{}, f.err
}

func (f *fakeInquirySrv) Resolve(_ context.Context, _ *models.JWTClaims, id int64) (*models.Inquiry, error) {
	f.resolvedID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Inquiry{ID: id, Resolved: true}, nil
}

func TestInquiryHandlerCreateIsPublic(t *testing.T) {
	srv := &fakeInquirySrv{}
	handler := NewInquiryHandler(srv)
	c, rec := newTestContext(http.MethodPost, "/inquiries", `{"name":"박민수","email":"park@example.com","subject":"단체 레슨","message":"문의드립니다"}`, nil)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "박민수", srv.created.Name)
	assert.Nil(t, srv.submitter)

	member := &models.JWTClaims{UserID: 4}
	c, rec = newTestContext(http.MethodPost, "/inquiries", `{"name":"박민수","email":"park@example.com","subject":"단체 레슨","message":"문의드립니다"}`, member)
	handler.Create(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Same(t, member, srv.submitter)
}

func TestInquiryHandlerListResolvedFilter(t *testing.T) {
	srv := &fakeInquirySrv{}
	handler := NewInquiryHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/admin/inquiries", "", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastFilter.Resolved)

	c, rec = newTestContext(http.MethodGet, "/admin/inquiries?resolved=false", "", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastFilter.Resolved)
	assert.False(t, *srv.lastFilter.Resolved)

	c, rec = newTestContext(http.MethodGet, "/admin/inquiries?resolved=maybe", "", nil)
	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInquiryHandlerResolve(t *testing.T) {
	srv := &fakeInquirySrv{}
	handler := NewInquiryHandler(srv)
	admin := &models.JWTClaims{UserID: 1, IsAdmin: true}

	c, rec := newTestContext(http.MethodPatch, "/admin/inquiries/6/resolve", "", admin, gin.Param{Key: "id", Value: "6"})
	handler.Resolve(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(6), srv.resolvedID)

	srv.err = appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
	c, rec = newTestContext(http.MethodPatch, "/admin/inquiries/60/resolve", "", admin, gin.Param{Key: "id", Value: "60"})
	handler.Resolve(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
