package models

import (
	"time"

	"github.com/lib/pq"
)

// BookingStatusPending is assigned when a booking is created without a status.
// Status is otherwise free-form.
const BookingStatusPending = "pending"

// Booking links a user to a lesson on a given date.
type Booking struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	LessonID     int64     `db:"lesson_id" json:"lesson_id"`
	ScheduleDate time.Time `db:"schedule_date" json:"schedule_date"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// BookingWithLesson is a booking with its lesson view inlined.
type BookingWithLesson struct {
	Booking
	Lesson LessonWithDetails `json:"lesson"`
}

// Review is a 1–5 star rating a user leaves on a lesson.
type Review struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	LessonID  int64          `db:"lesson_id" json:"lesson_id"`
	Rating    int            `db:"rating" json:"rating"`
	Comment   string         `db:"comment" json:"comment"`
	Tags      pq.StringArray `db:"tags" json:"tags"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// ReviewWithUser is a review with its author's public profile.
type ReviewWithUser struct {
	Review
	User Author `json:"user"`
}
