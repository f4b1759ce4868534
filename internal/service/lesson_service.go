package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

// DefaultRecommendedLimit is used when the caller does not pass a limit.
const DefaultRecommendedLimit = 6

// LessonService exposes lesson browsing, the reference tables and lesson
// publishing.
type LessonService struct {
	store     repository.Store
	agg       *Aggregator
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs a LessonService. cache may be nil.
func NewLessonService(store repository.Store, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{store: store, agg: NewAggregator(store), cache: cache, validator: validate, logger: logger}
}

// Get returns the lesson with its coach, type and level.
func (s *LessonService) Get(ctx context.Context, id int64) (*models.LessonWithDetails, error) {
	lesson, err := s.agg.LessonWithDetails(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load lesson")
	}
	if lesson == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	}
	return lesson, nil
}

// Search returns lessons matching every present filter. Location is a
// case-sensitive substring match; ids must match exactly. Matches whose
// coach chain is broken are dropped.
func (s *LessonService) Search(ctx context.Context, filter models.LessonFilter) ([]models.LessonWithDetails, error) {
	lessons, err := s.store.ListLessons(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list lessons")
	}
	matched := make([]models.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		if matchesLesson(lesson, filter) {
			matched = append(matched, lesson)
		}
	}
	views, err := s.agg.expandLessons(ctx, matched)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load lessons")
	}
	return views, nil
}

func matchesLesson(lesson models.Lesson, filter models.LessonFilter) bool {
	if filter.Location != "" && !strings.Contains(lesson.Location, filter.Location) {
		return false
	}
	if filter.LessonTypeID != 0 && (lesson.LessonTypeID == nil || *lesson.LessonTypeID != filter.LessonTypeID) {
		return false
	}
	if filter.SkillLevelID != 0 && (lesson.SkillLevelID == nil || *lesson.SkillLevelID != filter.SkillLevelID) {
		return false
	}
	return true
}

// Recommended returns the first limit lessons in store order. The bool reports
// a cache hit.
func (s *LessonService) Recommended(ctx context.Context, limit int) ([]models.LessonWithDetails, bool, error) {
	key := fmt.Sprintf(cacheKeyRecommended, limit)
	var cached []models.LessonWithDetails
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	lessons, err := s.store.ListLessons(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list lessons")
	}
	views, err := s.agg.expandLessons(ctx, lessons)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load lessons")
	}
	views = truncate(views, limit)

	s.cache.Set(ctx, key, views, 0)
	return views, false, nil
}

// Reviews returns the lesson's reviews with their authors.
func (s *LessonService) Reviews(ctx context.Context, lessonID int64) ([]models.ReviewWithUser, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load lesson")
	}
	if lesson == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	}
	reviews, err := s.agg.ReviewsByLesson(ctx, lessonID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list reviews")
	}
	views, err := s.agg.withAuthors(ctx, reviews)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load review authors")
	}
	return views, nil
}

// LessonTypes lists the lesson type reference table.
func (s *LessonService) LessonTypes(ctx context.Context) ([]models.LessonType, error) {
	types, err := s.store.ListLessonTypes(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list lesson types")
	}
	return types, nil
}

// SkillLevels lists the skill level reference table.
func (s *LessonService) SkillLevels(ctx context.Context) ([]models.SkillLevel, error) {
	levels, err := s.store.ListSkillLevels(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list skill levels")
	}
	return levels, nil
}

// Create publishes a lesson under the actor's coach profile, or under
// req.CoachID when the actor is an admin.
func (s *LessonService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateLessonRequest) (*models.LessonWithDetails, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid lesson payload")
	}

	coachID, err := s.resolveCoach(ctx, actor, req.CoachID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReferences(ctx, req.LessonTypeID, req.SkillLevelID); err != nil {
		return nil, err
	}

	lesson, err := s.store.InsertLesson(ctx, models.Lesson{
		CoachID:      coachID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		LessonTypeID: req.LessonTypeID,
		SkillLevelID: req.SkillLevelID,
		Location:     strings.TrimSpace(req.Location),
		GroupSize:    req.GroupSize,
		Duration:     req.Duration,
		Price:        req.Price,
		Image:        strings.TrimSpace(req.Image),
		Tags:         trimAll(req.Tags),
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create lesson")
	}

	s.cache.Invalidate(ctx, cachePatternLessons)
	s.logger.Info("lesson published", zap.Int64("lesson_id", lesson.ID), zap.Int64("coach_id", coachID))
	return s.Get(ctx, lesson.ID)
}

func (s *LessonService) resolveCoach(ctx context.Context, actor *models.JWTClaims, requested int64) (int64, error) {
	if actor.IsAdmin && requested != 0 {
		coach, err := s.store.GetCoach(ctx, requested)
		if err != nil {
			return 0, appErrors.Internal(err, "failed to load coach")
		}
		if coach == nil {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "coach not found")
		}
		return coach.ID, nil
	}
	coach, err := s.store.GetCoachByUserID(ctx, actor.UserID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to load coach")
	}
	if coach == nil {
		return 0, appErrors.Clone(appErrors.ErrForbidden, "a coach profile is required to publish lessons")
	}
	return coach.ID, nil
}

func (s *LessonService) ensureReferences(ctx context.Context, lessonTypeID, skillLevelID *int64) error {
	if lessonTypeID != nil {
		lt, err := s.store.GetLessonType(ctx, *lessonTypeID)
		if err != nil {
			return appErrors.Internal(err, "failed to load lesson type")
		}
		if lt == nil {
			return appErrors.Clone(appErrors.ErrValidation, "unknown lesson_type_id")
		}
	}
	if skillLevelID != nil {
		level, err := s.store.GetSkillLevel(ctx, *skillLevelID)
		if err != nil {
			return appErrors.Internal(err, "failed to load skill level")
		}
		if level == nil {
			return appErrors.Clone(appErrors.ErrValidation, "unknown skill_level_id")
		}
	}
	return nil
}
