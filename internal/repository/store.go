package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
)

// ErrUsernameTaken is returned by InsertUser when the username already exists.
var ErrUsernameTaken = errors.New("username already exists")

// Store is the entity store. Every Get* returns (nil, nil) when the record does
// not exist; absence is not an error. Update* applies the mutation to the
// stored record and returns the result, or nil when the id is unknown. Inserts
// assign the next id of the entity type; ids are never reused. List* returns
// records in id order. Nothing is ever deleted.
type Store interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserBySocial(ctx context.Context, provider, socialID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	InsertUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, apply func(*models.User)) (*models.User, error)

	GetCoach(ctx context.Context, id int64) (*models.Coach, error)
	GetCoachByUserID(ctx context.Context, userID int64) (*models.Coach, error)
	ListCoaches(ctx context.Context) ([]models.Coach, error)
	InsertCoach(ctx context.Context, coach models.Coach) (*models.Coach, error)
	UpdateCoach(ctx context.Context, id int64, apply func(*models.Coach)) (*models.Coach, error)
	// LockCoach serialises writers of a coach's derived fields for the rest of
	// the current transaction.
	LockCoach(ctx context.Context, id int64) error

	GetLessonType(ctx context.Context, id int64) (*models.LessonType, error)
	ListLessonTypes(ctx context.Context) ([]models.LessonType, error)
	InsertLessonType(ctx context.Context, lessonType models.LessonType) (*models.LessonType, error)

	GetSkillLevel(ctx context.Context, id int64) (*models.SkillLevel, error)
	ListSkillLevels(ctx context.Context) ([]models.SkillLevel, error)
	InsertSkillLevel(ctx context.Context, level models.SkillLevel) (*models.SkillLevel, error)

	GetLesson(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessons(ctx context.Context) ([]models.Lesson, error)
	InsertLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, id int64, apply func(*models.Lesson)) (*models.Lesson, error)

	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id int64, apply func(*models.Booking)) (*models.Booking, error)

	GetReview(ctx context.Context, id int64) (*models.Review, error)
	ListReviews(ctx context.Context) ([]models.Review, error)
	InsertReview(ctx context.Context, review models.Review) (*models.Review, error)

	GetSchedule(ctx context.Context, id int64) (*models.Schedule, error)
	ListSchedules(ctx context.Context) ([]models.Schedule, error)
	InsertSchedule(ctx context.Context, schedule models.Schedule) (*models.Schedule, error)

	GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error)
	ListInquiries(ctx context.Context) ([]models.Inquiry, error)
	InsertInquiry(ctx context.Context, inquiry models.Inquiry) (*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, id int64, apply func(*models.Inquiry)) (*models.Inquiry, error)

	// WithTx runs fn against a store whose operations form one unit of work.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// CompanyInfoStore persists the key/value company content.
type CompanyInfoStore interface {
	ListCompanyInfo(ctx context.Context) ([]models.CompanyInfo, error)
	GetCompanyInfo(ctx context.Context, key string) (*models.CompanyInfo, error)
	UpsertCompanyInfo(ctx context.Context, entries ...models.CompanyInfo) error
}
