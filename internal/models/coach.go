package models

import "github.com/lib/pq"

// RatingScale is the factor applied to star means before they are stored on a
// coach. A stored rating of 47 means 4.7 stars.
const RatingScale = 10

// Coach is the coaching profile attached to a user.
type Coach struct {
	ID              int64          `db:"id" json:"id"`
	UserID          int64          `db:"user_id" json:"user_id"`
	Specializations pq.StringArray `db:"specializations" json:"specializations"`
	Experience      string         `db:"experience" json:"experience"`
	Certifications  string         `db:"certifications" json:"certifications"`
	Location        string         `db:"location" json:"location"`
	HourlyRate      int            `db:"hourly_rate" json:"hourly_rate"`
	Rating          int            `db:"rating" json:"rating"`
	ReviewCount     int            `db:"review_count" json:"review_count"`
}

// CoachWithUser is a coach with its owning user inlined.
type CoachWithUser struct {
	Coach
	User User `json:"user"`
}

// CoachFilter narrows the coach browse list. Empty fields are ignored.
type CoachFilter struct {
	Location       string
	Specialization string
}

// Schedule is a weekly availability slot owned by a coach.
type Schedule struct {
	ID          int64  `db:"id" json:"id"`
	CoachID     int64  `db:"coach_id" json:"coach_id"`
	DayOfWeek   int    `db:"day_of_week" json:"day_of_week"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	IsAvailable bool   `db:"is_available" json:"is_available"`
}
