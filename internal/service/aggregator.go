package service

import (
	"context"
	"fmt"
	"math"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
)

// Aggregator assembles composite read views from the entity store. A view is
// either fully populated or nil; a broken reference anywhere in the chain makes
// the whole view absent.
type Aggregator struct {
	store repository.Store
}

// NewAggregator constructs an Aggregator over store. Pass the transaction
// scoped store to aggregate inside a unit of work.
func NewAggregator(store repository.Store) *Aggregator {
	return &Aggregator{store: store}
}

// CoachWithUser returns the coach joined with its owning user.
func (a *Aggregator) CoachWithUser(ctx context.Context, coachID int64) (*models.CoachWithUser, error) {
	coach, err := a.store.GetCoach(ctx, coachID)
	if err != nil || coach == nil {
		return nil, err
	}
	return a.expandCoach(ctx, *coach)
}

func (a *Aggregator) expandCoach(ctx context.Context, coach models.Coach) (*models.CoachWithUser, error) {
	user, err := a.store.GetUser(ctx, coach.UserID)
	if err != nil || user == nil {
		return nil, err
	}
	return &models.CoachWithUser{Coach: coach, User: *user}, nil
}

// LessonWithDetails returns the lesson with its coach, lesson type and skill
// level. Type and level stay nil when the lesson carries no reference.
func (a *Aggregator) LessonWithDetails(ctx context.Context, lessonID int64) (*models.LessonWithDetails, error) {
	lesson, err := a.store.GetLesson(ctx, lessonID)
	if err != nil || lesson == nil {
		return nil, err
	}
	return a.expandLesson(ctx, *lesson)
}

func (a *Aggregator) expandLesson(ctx context.Context, lesson models.Lesson) (*models.LessonWithDetails, error) {
	coach, err := a.CoachWithUser(ctx, lesson.CoachID)
	if err != nil || coach == nil {
		return nil, err
	}
	view := &models.LessonWithDetails{Lesson: lesson, Coach: *coach}
	if lesson.LessonTypeID != nil {
		if view.LessonType, err = a.store.GetLessonType(ctx, *lesson.LessonTypeID); err != nil {
			return nil, err
		}
	}
	if lesson.SkillLevelID != nil {
		if view.SkillLevel, err = a.store.GetSkillLevel(ctx, *lesson.SkillLevelID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// expandLessons maps lessons to their detail views, dropping broken chains.
func (a *Aggregator) expandLessons(ctx context.Context, lessons []models.Lesson) ([]models.LessonWithDetails, error) {
	views := make([]models.LessonWithDetails, 0, len(lessons))
	for _, lesson := range lessons {
		view, err := a.expandLesson(ctx, lesson)
		if err != nil {
			return nil, fmt.Errorf("expand lesson %d: %w", lesson.ID, err)
		}
		if view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

// expandCoaches maps coaches to coach+user views, dropping coaches whose user
// is missing.
func (a *Aggregator) expandCoaches(ctx context.Context, coaches []models.Coach) ([]models.CoachWithUser, error) {
	views := make([]models.CoachWithUser, 0, len(coaches))
	for _, coach := range coaches {
		view, err := a.expandCoach(ctx, coach)
		if err != nil {
			return nil, fmt.Errorf("expand coach %d: %w", coach.ID, err)
		}
		if view != nil {
			views = append(views, *view)
		}
	}
	return views, nil
}

// ReviewsByCoach returns every review left on any lesson of the coach, found by
// scanning lessons then reviews.
func (a *Aggregator) ReviewsByCoach(ctx context.Context, coachID int64) ([]models.Review, error) {
	lessons, err := a.store.ListLessons(ctx)
	if err != nil {
		return nil, err
	}
	owned := make(map[int64]struct{})
	for _, lesson := range lessons {
		if lesson.CoachID == coachID {
			owned[lesson.ID] = struct{}{}
		}
	}

	reviews, err := a.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.Review, 0)
	for _, review := range reviews {
		if _, ok := owned[review.LessonID]; ok {
			result = append(result, review)
		}
	}
	return result, nil
}

// ReviewsByLesson returns the reviews of one lesson in creation order.
func (a *Aggregator) ReviewsByLesson(ctx context.Context, lessonID int64) ([]models.Review, error) {
	reviews, err := a.store.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.Review, 0)
	for _, review := range reviews {
		if review.LessonID == lessonID {
			result = append(result, review)
		}
	}
	return result, nil
}

// withAuthors attaches each review's author. Reviews whose author is missing
// are dropped.
func (a *Aggregator) withAuthors(ctx context.Context, reviews []models.Review) ([]models.ReviewWithUser, error) {
	views := make([]models.ReviewWithUser, 0, len(reviews))
	for _, review := range reviews {
		user, err := a.store.GetUser(ctx, review.UserID)
		if err != nil {
			return nil, fmt.Errorf("load author of review %d: %w", review.ID, err)
		}
		if user == nil {
			continue
		}
		views = append(views, models.ReviewWithUser{Review: review, User: models.AuthorOf(*user)})
	}
	return views, nil
}

// BookingsByUser returns the user's bookings with their lesson views. Bookings
// whose lesson chain is broken are dropped.
func (a *Aggregator) BookingsByUser(ctx context.Context, userID int64) ([]models.BookingWithLesson, error) {
	bookings, err := a.store.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.BookingWithLesson, 0)
	for _, booking := range bookings {
		if booking.UserID != userID {
			continue
		}
		lesson, err := a.LessonWithDetails(ctx, booking.LessonID)
		if err != nil {
			return nil, fmt.Errorf("expand booking %d: %w", booking.ID, err)
		}
		if lesson == nil {
			continue
		}
		views = append(views, models.BookingWithLesson{Booking: booking, Lesson: *lesson})
	}
	return views, nil
}

// ratingFor is round(mean(stars) × RatingScale); zero when there are no reviews.
func ratingFor(reviews []models.Review) int {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return int(math.Round(float64(sum) * models.RatingScale / float64(len(reviews))))
}

// truncate keeps the first limit items. limit <= 0 keeps everything.
func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
