package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/kickoff-coach-api/internal/dto"
	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	appErrors "github.com/noah-isme/kickoff-coach-api/pkg/errors"
)

// DefaultTopCoachesLimit is used when the caller does not pass a limit.
const DefaultTopCoachesLimit = 4

// CoachService exposes coach browsing and coach profile management.
type CoachService struct {
	store     repository.Store
	agg       *Aggregator
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCoachService constructs a CoachService. cache may be nil.
func NewCoachService(store repository.Store, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CoachService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoachService{store: store, agg: NewAggregator(store), cache: cache, validator: validate, logger: logger}
}

// Get returns the coach with its user.
func (s *CoachService) Get(ctx context.Context, id int64) (*models.CoachWithUser, error) {
	coach, err := s.agg.CoachWithUser(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load coach")
	}
	if coach == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "coach not found")
	}
	return coach, nil
}

// Search lists coaches matching every non-empty filter field. Location is a
// substring match; specialization must equal one of the coach's entries.
func (s *CoachService) Search(ctx context.Context, filter models.CoachFilter) ([]models.CoachWithUser, error) {
	coaches, err := s.store.ListCoaches(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list coaches")
	}
	matched := make([]models.Coach, 0, len(coaches))
	for _, coach := range coaches {
		if filter.Location != "" && !strings.Contains(coach.Location, filter.Location) {
			continue
		}
		if filter.Specialization != "" && !containsString(coach.Specializations, filter.Specialization) {
			continue
		}
		matched = append(matched, coach)
	}
	views, err := s.agg.expandCoaches(ctx, matched)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load coaches")
	}
	return views, nil
}

// Top returns coaches ordered by rating, highest first, keeping store order
// between equal ratings. The bool reports a cache hit.
func (s *CoachService) Top(ctx context.Context, limit int) ([]models.CoachWithUser, bool, error) {
	key := fmt.Sprintf(cacheKeyTopCoaches, limit)
	var cached []models.CoachWithUser
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	coaches, err := s.store.ListCoaches(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to list coaches")
	}
	views, err := s.agg.expandCoaches(ctx, coaches)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load coaches")
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Rating > views[j].Rating })
	views = truncate(views, limit)

	s.cache.Set(ctx, key, views, 0)
	return views, false, nil
}

// Lessons returns the coach's lessons with details.
func (s *CoachService) Lessons(ctx context.Context, coachID int64) ([]models.LessonWithDetails, error) {
	if _, err := s.Get(ctx, coachID); err != nil {
		return nil, err
	}
	lessons, err := s.store.ListLessons(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list lessons")
	}
	owned := make([]models.Lesson, 0)
	for _, lesson := range lessons {
		if lesson.CoachID == coachID {
			owned = append(owned, lesson)
		}
	}
	views, err := s.agg.expandLessons(ctx, owned)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load lessons")
	}
	return views, nil
}

// Reviews returns every review across the coach's lessons with authors.
func (s *CoachService) Reviews(ctx context.Context, coachID int64) ([]models.ReviewWithUser, error) {
	if _, err := s.Get(ctx, coachID); err != nil {
		return nil, err
	}
	reviews, err := s.agg.ReviewsByCoach(ctx, coachID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list reviews")
	}
	views, err := s.agg.withAuthors(ctx, reviews)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load review authors")
	}
	return views, nil
}

// Schedules returns the coach's weekly slots.
func (s *CoachService) Schedules(ctx context.Context, coachID int64) ([]models.Schedule, error) {
	if _, err := s.Get(ctx, coachID); err != nil {
		return nil, err
	}
	schedules, err := s.store.ListSchedules(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list schedules")
	}
	result := make([]models.Schedule, 0)
	for _, schedule := range schedules {
		if schedule.CoachID == coachID {
			result = append(result, schedule)
		}
	}
	return result, nil
}

// Create registers the actor as a coach and flags the user accordingly.
func (s *CoachService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateCoachRequest) (*models.CoachWithUser, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid coach payload")
	}

	var created *models.Coach
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		user, err := tx.GetUser(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		existing, err := tx.GetCoachByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return appErrors.Clone(appErrors.ErrConflict, "user already has a coach profile")
		}
		created, err = tx.InsertCoach(ctx, models.Coach{
			UserID:          actor.UserID,
			Specializations: trimAll(req.Specializations),
			Experience:      strings.TrimSpace(req.Experience),
			Certifications:  strings.TrimSpace(req.Certifications),
			Location:        strings.TrimSpace(req.Location),
			HourlyRate:      req.HourlyRate,
		})
		if err != nil {
			return err
		}
		_, err = tx.UpdateUser(ctx, actor.UserID, func(u *models.User) { u.IsCoach = true })
		return err
	})
	if err != nil {
		return nil, asAppError(err, "failed to create coach")
	}

	s.cache.Invalidate(ctx, cachePatternCoaches)
	s.logger.Info("coach registered", zap.Int64("coach_id", created.ID), zap.Int64("user_id", actor.UserID))
	return s.Get(ctx, created.ID)
}

// Update edits the coach profile. Only the owner or an admin may do so.
func (s *CoachService) Update(ctx context.Context, actor *models.JWTClaims, id int64, req dto.UpdateCoachRequest) (*models.CoachWithUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid coach payload")
	}
	if _, err := s.authorizeCoach(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCoach(ctx, id, func(c *models.Coach) {
		if req.Specializations != nil {
			c.Specializations = trimAll(req.Specializations)
		}
		if req.Experience != nil {
			c.Experience = strings.TrimSpace(*req.Experience)
		}
		if req.Certifications != nil {
			c.Certifications = strings.TrimSpace(*req.Certifications)
		}
		if req.Location != nil {
			c.Location = strings.TrimSpace(*req.Location)
		}
		if req.HourlyRate != nil {
			c.HourlyRate = *req.HourlyRate
		}
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update coach")
	}
	if updated == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "coach not found")
	}

	s.cache.Invalidate(ctx, cachePatternCoaches, cachePatternLessons)
	return s.Get(ctx, id)
}

// AddSchedule adds a weekly slot to the coach. Only the owner or an admin may
// do so.
func (s *CoachService) AddSchedule(ctx context.Context, actor *models.JWTClaims, coachID int64, req dto.CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid schedule payload")
	}
	if req.EndTime <= req.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	if _, err := s.authorizeCoach(ctx, actor, coachID); err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	schedule, err := s.store.InsertSchedule(ctx, models.Schedule{
		CoachID:     coachID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: available,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create schedule")
	}
	return schedule, nil
}

// authorizeCoach loads the coach and checks that actor owns it or is an admin.
func (s *CoachService) authorizeCoach(ctx context.Context, actor *models.JWTClaims, coachID int64) (*models.Coach, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	coach, err := s.store.GetCoach(ctx, coachID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load coach")
	}
	if coach == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "coach not found")
	}
	if !actor.IsAdmin && coach.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not the owner of this coach profile")
	}
	return coach, nil
}
