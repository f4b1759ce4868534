package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

type companyInfoField struct {
	Key         string
	Description string
	Validate    string
}

// companyInfoKeys is the allow-list, in display order.
var companyInfoKeys = []companyInfoField{
	{Key: "company_name", Description: "Company name shown in the header and footer", Validate: "required,max=100"},
	{Key: "representative", Description: "Name of the representative director", Validate: "max=100"},
	{Key: "business_number", Description: "Business registration number", Validate: "max=30"},
	{Key: "address", Description: "Registered office address", Validate: "max=300"},
	{Key: "phone", Description: "Customer service phone number", Validate: "max=30"},
	{Key: "email", Description: "Customer service email address", Validate: "omitempty,email"},
	{Key: "about", Description: "About us page content"},
	{Key: "terms_of_service", Description: "Terms of service page content"},
	{Key: "privacy_policy", Description: "Privacy policy page content"},
	{Key: "kakao_channel", Description: "KakaoTalk channel link", Validate: "omitempty,url"},
}

// CompanyInfoService manages the editable company content.
type CompanyInfoService struct {
	repo      repository.CompanyInfoStore
	validator *validator.Validate
	logger    *zap.Logger
	defaults  map[string]string
	fields    map[string]companyInfoField
}

// NewCompanyInfoService constructs a CompanyInfoService. defaults supplies
// values for keys that were never written.
func NewCompanyInfoService(repo repository.CompanyInfoStore, validate *validator.Validate, logger *zap.Logger, defaults map[string]string) *CompanyInfoService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := make(map[string]companyInfoField, len(companyInfoKeys))
	for _, field := range companyInfoKeys {
		fields[field.Key] = field
	}
	values := make(map[string]string, len(defaults))
	for key, value := range defaults {
		if _, ok := fields[key]; ok && value != "" {
			values[key] = value
		}
	}
	return &CompanyInfoService{repo: repo, validator: validate, logger: logger, defaults: values, fields: fields}
}

// List returns every allow-listed key with its stored value or default.
func (s *CompanyInfoService) List(ctx context.Context) ([]dto.CompanyInfoItem, error) {
	rows, err := s.repo.ListCompanyInfo(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list company info")
	}
	stored := make(map[string]models.CompanyInfo, len(rows))
	for _, row := range rows {
		stored[row.Key] = row
	}

	items := make([]dto.CompanyInfoItem, 0, len(companyInfoKeys))
	for _, field := range companyInfoKeys {
		items = append(items, s.item(field, stored[field.Key]))
	}
	return items, nil
}

// Public returns the content as a flat key/value map.
func (s *CompanyInfoService) Public(ctx context.Context) (map[string]string, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, item := range items {
		out[item.Key] = item.Value
	}
	return out, nil
}

// Update writes a single key.
func (s *CompanyInfoService) Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.CompanyInfoItem, error) {
	entry, err := s.prepare(key, value, actor)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpsertCompanyInfo(ctx, entry); err != nil {
		return nil, appErrors.Internal(err, "failed to update company info")
	}
	s.logChange(actor, entry.Key)
	entry.UpdatedAt = time.Now().UTC()
	item := s.item(s.fields[key], entry)
	return &item, nil
}

// BulkUpdate validates every entry before writing any of them.
func (s *CompanyInfoService) BulkUpdate(ctx context.Context, req dto.BulkUpdateCompanyInfoRequest, actor *models.JWTClaims) ([]dto.CompanyInfoItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid bulk payload")
	}
	entries := make([]models.CompanyInfo, 0, len(req.Items))
	for _, raw := range req.Items {
		entry, err := s.prepare(raw.Key, raw.Value, actor)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := s.repo.UpsertCompanyInfo(ctx, entries...); err != nil {
		return nil, appErrors.Internal(err, "failed to bulk update company info")
	}

	now := time.Now().UTC()
	items := make([]dto.CompanyInfoItem, 0, len(entries))
	for _, entry := range entries {
		s.logChange(actor, entry.Key)
		entry.UpdatedAt = now
		items = append(items, s.item(s.fields[entry.Key], entry))
	}
	return items, nil
}

func (s *CompanyInfoService) prepare(key, value string, actor *models.JWTClaims) (models.CompanyInfo, error) {
	field, ok := s.fields[key]
	if !ok {
		return models.CompanyInfo{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported company info key %q", key))
	}
	value = strings.TrimSpace(value)
	if field.Validate != "" {
		if err := s.validator.Var(value, field.Validate); err != nil {
			return models.CompanyInfo{}, appErrors.Invalid(err, fmt.Sprintf("invalid value for %s", key))
		}
	}
	entry := models.CompanyInfo{Key: key, Value: value}
	if actor != nil {
		id := actor.UserID
		entry.UpdatedBy = &id
	}
	return entry, nil
}

func (s *CompanyInfoService) item(field companyInfoField, row models.CompanyInfo) dto.CompanyInfoItem {
	item := dto.CompanyInfoItem{Key: field.Key, Description: field.Description}
	if row.Key != "" {
		item.Value = row.Value
		updated := row.UpdatedAt
		item.UpdatedAt = &updated
	} else {
		item.Value = s.defaults[field.Key]
	}
	return item
}

func (s *CompanyInfoService) logChange(actor *models.JWTClaims, key string) {
	var by int64
	if actor != nil {
		by = actor.UserID
	}
	s.logger.Info("company info updated", zap.String("key", key), zap.Int64("by", by))
}
