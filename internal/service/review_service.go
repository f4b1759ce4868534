package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

// ReviewService records reviews and keeps coach ratings in step with them.
type ReviewService struct {
	store     repository.Store
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReviewService constructs a ReviewService. cache and metrics may be nil.
func NewReviewService(store repository.Store, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		store:     store,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the request and stores the review as the actor.
func (s *ReviewService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateReviewRequest) (*models.Review, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid review payload")
	}
	return s.Record(ctx, models.Review{
		UserID:   actor.UserID,
		LessonID: req.LessonID,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
		Tags:     trimAll(req.Tags),
	})
}

// Record stores a review and recomputes the rating and review count of the
// coach owning the reviewed lesson from all of that coach's reviews. Both
// writes happen in one unit of work with the coach locked. When the lesson or
// its coach no longer exists the review is kept and the recompute is skipped.
func (s *ReviewService) Record(ctx context.Context, review models.Review) (*models.Review, error) {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now()
	}

	var (
		created *models.Review
		coach   *models.Coach
		elapsed time.Duration
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		lesson, err := tx.GetLesson(ctx, review.LessonID)
		if err != nil {
			return err
		}
		if lesson != nil {
			if err := tx.LockCoach(ctx, lesson.CoachID); err != nil {
				return err
			}
		}

		created, err = tx.InsertReview(ctx, review)
		if err != nil {
			return err
		}
		if lesson == nil {
			return nil
		}

		start := time.Now()
		reviews, err := NewAggregator(tx).ReviewsByCoach(ctx, lesson.CoachID)
		if err != nil {
			return err
		}
		rating, count := ratingFor(reviews), len(reviews)
		coach, err = tx.UpdateCoach(ctx, lesson.CoachID, func(c *models.Coach) {
			c.Rating = rating
			c.ReviewCount = count
		})
		elapsed = time.Since(start)
		return err
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to record review")
	}

	s.metrics.ReviewCreated(elapsed)
	if coach != nil {
		s.cache.Invalidate(ctx, cachePatternCoaches, cachePatternLessons)
		s.logger.Info("coach rating recomputed",
			zap.Int64("coach_id", coach.ID),
			zap.Int("rating", coach.Rating),
			zap.Int("review_count", coach.ReviewCount))
	} else {
		s.logger.Warn("review stored without rating recompute", zap.Int64("review_id", created.ID), zap.Int64("lesson_id", review.LessonID))
	}
	return created, nil
}
