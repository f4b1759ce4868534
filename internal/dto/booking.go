package dto

import "time"

// CreateBookingRequest books a lesson for the authenticated user.
type CreateBookingRequest struct {
	LessonID     int64     `json:"lesson_id" validate:"required,min=1"`
	ScheduleDate time.Time `json:"schedule_date" validate:"required"`
	Status       string    `json:"status" validate:"omitempty,max=30"`
}

// UpdateBookingStatusRequest sets a booking status. Any non-empty value is
// accepted.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,max=30"`
}

// CreateReviewRequest rates a lesson.
type CreateReviewRequest struct {
	LessonID int64    `json:"lesson_id" validate:"required,min=1"`
	Rating   int      `json:"rating" validate:"required,min=1,max=5"`
	Comment  string   `json:"comment" validate:"max=2000"`
	Tags     []string `json:"tags" validate:"max=10,dive,required,max=30"`
}
