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
	"github.com/noah-isme/kickoff-coach-api/pkg/jobs"
)

// JobTypeInquiryNotification is the job type for new-inquiry notices.
const JobTypeInquiryNotification = "inquiry.notify"

type inquiryQueue interface {
	Enqueue(job jobs.Job) error
}

// InquiryService accepts contact-form submissions and lets admins work them.
type InquiryService struct {
	store     repository.Store
	queue     inquiryQueue
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewInquiryService constructs an InquiryService. queue may be nil, in which
// case no notifications are sent.
func NewInquiryService(store repository.Store, queue inquiryQueue, validate *validator.Validate, logger *zap.Logger) *InquiryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InquiryService{store: store, queue: queue, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores an inquiry and queues a notification for the admins. A failed
// enqueue is logged and does not fail the submission. actor is nil for
// anonymous visitors.
func (s *InquiryService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateInquiryRequest) (*models.Inquiry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid inquiry payload")
	}
	var userID *int64
	if actor != nil {
		id := actor.UserID
		userID = &id
	}
	inquiry, err := s.store.InsertInquiry(ctx, models.Inquiry{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     trimOptional(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create inquiry")
	}

	if s.queue != nil {
		job := jobs.Job{ID: fmt.Sprintf("inquiry-%d", inquiry.ID), Type: JobTypeInquiryNotification, Payload: *inquiry}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to queue inquiry notification", zap.Int64("inquiry_id", inquiry.ID), zap.Error(err))
		}
	}
	return inquiry, nil
}

// List returns inquiries, newest first, optionally filtered by resolution.
func (s *InquiryService) List(ctx context.Context, filter dto.InquiryFilter) ([]models.Inquiry, error) {
	inquiries, err := s.store.ListInquiries(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list inquiries")
	}
	result := make([]models.Inquiry, 0, len(inquiries))
	for i := len(inquiries) - 1; i >= 0; i-- {
		if filter.Resolved != nil && inquiries[i].Resolved != *filter.Resolved {
			continue
		}
		result = append(result, inquiries[i])
	}
	return result, nil
}

// Resolve marks an inquiry as handled.
func (s *InquiryService) Resolve(ctx context.Context, actor *models.JWTClaims, id int64) (*models.Inquiry, error) {
	inquiry, err := s.store.UpdateInquiry(ctx, id, func(i *models.Inquiry) { i.Resolved = true })
	if err != nil {
		return nil, appErrors.Internal(err, "failed to resolve inquiry")
	}
	if inquiry == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
	}
	var by int64
	if actor != nil {
		by = actor.UserID
	}
	s.logger.Info("inquiry resolved", zap.Int64("inquiry_id", id), zap.Int64("by", by))
	return inquiry, nil
}
