package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/kickoff-coach-api/internal/models"
)

//go:embed schema.sql
var schemaSQL string

const (
	userColumns       = "id, username, password_hash, email, full_name, phone, profile_image, bio, is_coach, is_admin, social_provider, social_id"
	coachColumns      = "id, user_id, specializations, experience, certifications, location, hourly_rate, rating, review_count"
	lessonTypeColumns = "id, name, description"
	skillLevelColumns = "id, name, description"
	lessonColumns     = "id, coach_id, title, description, lesson_type_id, skill_level_id, location, group_size, duration, price, image, tags"
	bookingColumns    = "id, user_id, lesson_id, schedule_date, status, created_at"
	reviewColumns     = "id, user_id, lesson_id, rating, comment, tags, created_at"
	scheduleColumns   = "id, coach_id, day_of_week, start_time, end_time, is_available"
	inquiryColumns    = "id, user_id, name, email, phone, subject, message, resolved, created_at"
)

// PostgresStore persists entities in PostgreSQL. A store created by WithTx is
// bound to that transaction.
type PostgresStore struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, ext: db}
}

// Migrate creates missing tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.ext.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// WithTx runs fn inside a database transaction, rolling back when fn fails.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.inTx(ctx, func(ext sqlx.ExtContext) error {
		return fn(&PostgresStore{db: s.db, ext: ext})
	})
}

// inTx reuses the bound transaction when there is one and opens a new one
// otherwise.
func (s *PostgresStore) inTx(ctx context.Context, fn func(ext sqlx.ExtContext) error) error {
	if _, nested := s.ext.(*sqlx.Tx); nested {
		return fn(s.ext)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func getRow[T any](ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (*T, error) {
	var row T
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func listRows[T any](ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) ([]T, error) {
	rows := []T{}
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func insertRow(ctx context.Context, e sqlx.ExtContext, query string, arg interface{}) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, e, query+" RETURNING id", arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, sql.ErrNoRows
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// updateRow loads the row under a row lock, applies the mutation and writes
// every column back, all in one transaction.
func updateRow[T any](ctx context.Context, s *PostgresStore, selectQuery, updateQuery string, id int64, apply func(*T), setID func(*T, int64)) (*T, error) {
	var out *T
	err := s.inTx(ctx, func(e sqlx.ExtContext) error {
		row, err := getRow[T](ctx, e, selectQuery+" FOR UPDATE", id)
		if err != nil || row == nil {
			return err
		}
		apply(row)
		setID(row, id)
		if _, err := sqlx.NamedExecContext(ctx, e, updateQuery, row); err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := getRow[models.User](ctx, s.ext, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := getRow[models.User](ctx, s.ext, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserBySocial(ctx context.Context, provider, socialID string) (*models.User, error) {
	user, err := getRow[models.User](ctx, s.ext, "SELECT "+userColumns+" FROM users WHERE social_provider = $1 AND social_id = $2", provider, socialID)
	if err != nil {
		return nil, fmt.Errorf("get user by social: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := listRows[models.User](ctx, s.ext, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	const query = `INSERT INTO users (username, password_hash, email, full_name, phone, profile_image, bio, is_coach, is_admin, social_provider, social_id)
		VALUES (:username, :password_hash, :email, :full_name, :phone, :profile_image, :bio, :is_coach, :is_admin, :social_provider, :social_id)`
	id, err := insertRow(ctx, s.ext, query, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return &user, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, apply func(*models.User)) (*models.User, error) {
	const update = `UPDATE users SET username = :username, password_hash = :password_hash, email = :email, full_name = :full_name,
		phone = :phone, profile_image = :profile_image, bio = :bio, is_coach = :is_coach, is_admin = :is_admin,
		social_provider = :social_provider, social_id = :social_id WHERE id = :id`
	user, err := updateRow(ctx, s, "SELECT "+userColumns+" FROM users WHERE id = $1", update, id, apply,
		func(u *models.User, id int64) { u.ID = id })
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetCoach(ctx context.Context, id int64) (*models.Coach, error) {
	coach, err := getRow[models.Coach](ctx, s.ext, "SELECT "+coachColumns+" FROM coaches WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get coach: %w", err)
	}
	return coach, nil
}

func (s *PostgresStore) GetCoachByUserID(ctx context.Context, userID int64) (*models.Coach, error) {
	coach, err := getRow[models.Coach](ctx, s.ext, "SELECT "+coachColumns+" FROM coaches WHERE user_id = $1 ORDER BY id LIMIT 1", userID)
	if err != nil {
		return nil, fmt.Errorf("get coach by user: %w", err)
	}
	return coach, nil
}

func (s *PostgresStore) ListCoaches(ctx context.Context) ([]models.Coach, error) {
	coaches, err := listRows[models.Coach](ctx, s.ext, "SELECT "+coachColumns+" FROM coaches ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	return coaches, nil
}

func (s *PostgresStore) InsertCoach(ctx context.Context, coach models.Coach) (*models.Coach, error) {
	if coach.Specializations == nil {
		coach.Specializations = pq.StringArray{}
	}
	const query = `INSERT INTO coaches (user_id, specializations, experience, certifications, location, hourly_rate, rating, review_count)
		VALUES (:user_id, :specializations, :experience, :certifications, :location, :hourly_rate, :rating, :review_count)`
	id, err := insertRow(ctx, s.ext, query, coach)
	if err != nil {
		return nil, fmt.Errorf("insert coach: %w", err)
	}
	coach.ID = id
	return &coach, nil
}

func (s *PostgresStore) UpdateCoach(ctx context.Context, id int64, apply func(*models.Coach)) (*models.Coach, error) {
	const update = `UPDATE coaches SET user_id = :user_id, specializations = :specializations, experience = :experience,
		certifications = :certifications, location = :location, hourly_rate = :hourly_rate, rating = :rating,
		review_count = :review_count WHERE id = :id`
	coach, err := updateRow(ctx, s, "SELECT "+coachColumns+" FROM coaches WHERE id = $1", update, id, apply,
		func(c *models.Coach, id int64) { c.ID = id })
	if err != nil {
		return nil, fmt.Errorf("update coach: %w", err)
	}
	return coach, nil
}

// LockCoach takes a row lock on the coach until the surrounding transaction ends.
func (s *PostgresStore) LockCoach(ctx context.Context, id int64) error {
	if _, err := s.ext.ExecContext(ctx, "SELECT id FROM coaches WHERE id = $1 FOR UPDATE", id); err != nil {
		return fmt.Errorf("lock coach: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetLessonType(ctx context.Context, id int64) (*models.LessonType, error) {
	lt, err := getRow[models.LessonType](ctx, s.ext, "SELECT "+lessonTypeColumns+" FROM lesson_types WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get lesson type: %w", err)
	}
	return lt, nil
}

func (s *PostgresStore) ListLessonTypes(ctx context.Context) ([]models.LessonType, error) {
	types, err := listRows[models.LessonType](ctx, s.ext, "SELECT "+lessonTypeColumns+" FROM lesson_types ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list lesson types: %w", err)
	}
	return types, nil
}

func (s *PostgresStore) InsertLessonType(ctx context.Context, lessonType models.LessonType) (*models.LessonType, error) {
	id, err := insertRow(ctx, s.ext, "INSERT INTO lesson_types (name, description) VALUES (:name, :description)", lessonType)
	if err != nil {
		return nil, fmt.Errorf("insert lesson type: %w", err)
	}
	lessonType.ID = id
	return &lessonType, nil
}

func (s *PostgresStore) GetSkillLevel(ctx context.Context, id int64) (*models.SkillLevel, error) {
	level, err := getRow[models.SkillLevel](ctx, s.ext, "SELECT "+skillLevelColumns+" FROM skill_levels WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get skill level: %w", err)
	}
	return level, nil
}

func (s *PostgresStore) ListSkillLevels(ctx context.Context) ([]models.SkillLevel, error) {
	levels, err := listRows[models.SkillLevel](ctx, s.ext, "SELECT "+skillLevelColumns+" FROM skill_levels ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list skill levels: %w", err)
	}
	return levels, nil
}

func (s *PostgresStore) InsertSkillLevel(ctx context.Context, level models.SkillLevel) (*models.SkillLevel, error) {
	id, err := insertRow(ctx, s.ext, "INSERT INTO skill_levels (name, description) VALUES (:name, :description)", level)
	if err != nil {
		return nil, fmt.Errorf("insert skill level: %w", err)
	}
	level.ID = id
	return &level, nil
}

func (s *PostgresStore) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, err := getRow[models.Lesson](ctx, s.ext, "SELECT "+lessonColumns+" FROM lessons WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return lesson, nil
}

func (s *PostgresStore) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	lessons, err := listRows[models.Lesson](ctx, s.ext, "SELECT "+lessonColumns+" FROM lessons ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func (s *PostgresStore) InsertLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	if lesson.Tags == nil {
		lesson.Tags = pq.StringArray{}
	}
	const query = `INSERT INTO lessons (coach_id, title, description, lesson_type_id, skill_level_id, location, group_size, duration, price, image, tags)
		VALUES (:coach_id, :title, :description, :lesson_type_id, :skill_level_id, :location, :group_size, :duration, :price, :image, :tags)`
	id, err := insertRow(ctx, s.ext, query, lesson)
	if err != nil {
		return nil, fmt.Errorf("insert lesson: %w", err)
	}
	lesson.ID = id
	return &lesson, nil
}

func (s *PostgresStore) UpdateLesson(ctx context.Context, id int64, apply func(*models.Lesson)) (*models.Lesson, error) {
	const update = `UPDATE lessons SET coach_id = :coach_id, title = :title, description = :description,
		lesson_type_id = :lesson_type_id, skill_level_id = :skill_level_id, location = :location, group_size = :group_size,
		duration = :duration, price = :price, image = :image, tags = :tags WHERE id = :id`
	lesson, err := updateRow(ctx, s, "SELECT "+lessonColumns+" FROM lessons WHERE id = $1", update, id, apply,
		func(l *models.Lesson, id int64) { l.ID = id })
	if err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	return lesson, nil
}

func (s *PostgresStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := getRow[models.Booking](ctx, s.ext, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

func (s *PostgresStore) ListBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := listRows[models.Booking](ctx, s.ext, "SELECT "+bookingColumns+" FROM bookings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *PostgresStore) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO bookings (user_id, lesson_id, schedule_date, status, created_at)
		VALUES (:user_id, :lesson_id, :schedule_date, :status, :created_at)`
	id, err := insertRow(ctx, s.ext, query, booking)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	booking.ID = id
	return &booking, nil
}

func (s *PostgresStore) UpdateBooking(ctx context.Context, id int64, apply func(*models.Booking)) (*models.Booking, error) {
	const update = `UPDATE bookings SET user_id = :user_id, lesson_id = :lesson_id, schedule_date = :schedule_date,
		status = :status, created_at = :created_at WHERE id = :id`
	booking, err := updateRow(ctx, s, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1", update, id, apply,
		func(b *models.Booking, id int64) { b.ID = id })
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return booking, nil
}

func (s *PostgresStore) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	review, err := getRow[models.Review](ctx, s.ext, "SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (s *PostgresStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	reviews, err := listRows[models.Review](ctx, s.ext, "SELECT "+reviewColumns+" FROM reviews ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *PostgresStore) InsertReview(ctx context.Context, review models.Review) (*models.Review, error) {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	if review.Tags == nil {
		review.Tags = pq.StringArray{}
	}
	const query = `INSERT INTO reviews (user_id, lesson_id, rating, comment, tags, created_at)
		VALUES (:user_id, :lesson_id, :rating, :comment, :tags, :created_at)`
	id, err := insertRow(ctx, s.ext, query, review)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	review.ID = id
	return &review, nil
}

func (s *PostgresStore) GetSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := getRow[models.Schedule](ctx, s.ext, "SELECT "+scheduleColumns+" FROM schedules WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return schedule, nil
}

func (s *PostgresStore) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	schedules, err := listRows[models.Schedule](ctx, s.ext, "SELECT "+scheduleColumns+" FROM schedules ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

func (s *PostgresStore) InsertSchedule(ctx context.Context, schedule models.Schedule) (*models.Schedule, error) {
	const query = `INSERT INTO schedules (coach_id, day_of_week, start_time, end_time, is_available)
		VALUES (:coach_id, :day_of_week, :start_time, :end_time, :is_available)`
	id, err := insertRow(ctx, s.ext, query, schedule)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	schedule.ID = id
	return &schedule, nil
}

func (s *PostgresStore) GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	inquiry, err := getRow[models.Inquiry](ctx, s.ext, "SELECT "+inquiryColumns+" FROM inquiries WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *PostgresStore) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	inquiries, err := listRows[models.Inquiry](ctx, s.ext, "SELECT "+inquiryColumns+" FROM inquiries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return inquiries, nil
}

func (s *PostgresStore) InsertInquiry(ctx context.Context, inquiry models.Inquiry) (*models.Inquiry, error) {
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO inquiries (user_id, name, email, phone, subject, message, resolved, created_at)
		VALUES (:user_id, :name, :email, :phone, :subject, :message, :resolved, :created_at)`
	id, err := insertRow(ctx, s.ext, query, inquiry)
	if err != nil {
		return nil, fmt.Errorf("insert inquiry: %w", err)
	}
	inquiry.ID = id
	return &inquiry, nil
}

func (s *PostgresStore) UpdateInquiry(ctx context.Context, id int64, apply func(*models.Inquiry)) (*models.Inquiry, error) {
	const update = `UPDATE inquiries SET user_id = :user_id, name = :name, email = :email, phone = :phone, subject = :subject,
		message = :message, resolved = :resolved, created_at = :created_at WHERE id = :id`
	inquiry, err := updateRow(ctx, s, "SELECT "+inquiryColumns+" FROM inquiries WHERE id = $1", update, id, apply,
		func(i *models.Inquiry, id int64) { i.ID = id })
	if err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *PostgresStore) ListCompanyInfo(ctx context.Context) ([]models.CompanyInfo, error) {
	entries, err := listRows[models.CompanyInfo](ctx, s.ext, "SELECT key, value, updated_by, updated_at FROM company_info ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("list company info: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) GetCompanyInfo(ctx context.Context, key string) (*models.CompanyInfo, error) {
	entry, err := getRow[models.CompanyInfo](ctx, s.ext, "SELECT key, value, updated_by, updated_at FROM company_info WHERE key = $1", key)
	if err != nil {
		return nil, fmt.Errorf("get company info: %w", err)
	}
	return entry, nil
}

// UpsertCompanyInfo writes all entries in one transaction.
func (s *PostgresStore) UpsertCompanyInfo(ctx context.Context, entries ...models.CompanyInfo) error {
	const query = `INSERT INTO company_info (key, value, updated_by, updated_at)
VALUES (:key, :value, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	return s.WithTx(ctx, func(tx Store) error {
		ext := tx.(*PostgresStore).ext
		now := time.Now().UTC()
		for i := range entries {
			entries[i].UpdatedAt = now
			if _, err := sqlx.NamedExecContext(ctx, ext, query, entries[i]); err != nil {
				return fmt.Errorf("upsert company info %s: %w", entries[i].Key, err)
			}
		}
		return nil
	})
}

var (
	_ Store            = (*PostgresStore)(nil)
	_ CompanyInfoStore = (*PostgresStore)(nil)
)
