package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

func TestCompanyInfoServiceListUsesDefaults(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCompanyInfoService(store, nil, nil, map[string]string{"company_name": "킥오프", "unknown": "x"})

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, len(companyInfoKeys))
	assert.Equal(t, "company_name", items[0].Key)
	assert.Equal(t, "킥오프", items[0].Value)
	assert.Nil(t, items[0].UpdatedAt)

	public, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, public, "unknown")
	assert.Equal(t, "", public["email"])
}

func TestCompanyInfoServiceUpdate(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCompanyInfoService(store, nil, nil, nil)
	admin := &models.JWTClaims{UserID: 7, IsAdmin: true}
	ctx := context.Background()

	item, err := svc.Update(ctx, "email", " help@kickoff.kr ", admin)
	require.NoError(t, err)
	assert.Equal(t, "help@kickoff.kr", item.Value)
	require.NotNil(t, item.UpdatedAt)

	stored, err := store.GetCompanyInfo(ctx, "email")
	require.NoError(t, err)
	require.NotNil(t, stored.UpdatedBy)
	assert.Equal(t, int64(7), *stored.UpdatedBy)

	_, err = svc.Update(ctx, "email", "nope", admin)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(ctx, "ceo_salary", "1", admin)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(ctx, "company_name", "  ", admin)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCompanyInfoServiceBulkUpdateIsAllOrNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewCompanyInfoService(store, nil, nil, nil)
	admin := &models.JWTClaims{UserID: 7, IsAdmin: true}
	ctx := context.Background()

	_, err := svc.BulkUpdate(ctx, dto.BulkUpdateCompanyInfoRequest{Items: []dto.CompanyInfoEntry{
		{Key: "phone", Value: "02-000-0000"},
		{Key: "kakao_channel", Value: "not a url"},
	}}, admin)
	require.Error(t, err)
	rows, err := store.ListCompanyInfo(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	items, err := svc.BulkUpdate(ctx, dto.BulkUpdateCompanyInfoRequest{Items: []dto.CompanyInfoEntry{
		{Key: "phone", Value: "02-000-0000"},
		{Key: "kakao_channel", Value: "https://pf.kakao.com/_kickoff"},
	}}, admin)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	public, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "02-000-0000", public["phone"])
	assert.Equal(t, "https://pf.kakao.com/_kickoff", public["kakao_channel"])

	_, err = svc.BulkUpdate(ctx, dto.BulkUpdateCompanyInfoRequest{}, admin)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
