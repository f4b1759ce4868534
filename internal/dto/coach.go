package dto

// CreateCoachRequest registers the caller as a coach.
type CreateCoachRequest struct {
	Specializations []string `json:"specializations" validate:"max=10,dive,required,max=50"`
	Experience      string   `json:"experience" validate:"max=2000"`
	Certifications  string   `json:"certifications" validate:"max=2000"`
	Location        string   `json:"location" validate:"required,max=100"`
	HourlyRate      int      `json:"hourly_rate" validate:"min=0"`
}

// UpdateCoachRequest partially updates a coach profile. Rating and review
// count are derived and cannot be written.
type UpdateCoachRequest struct {
	Specializations []string `json:"specializations" validate:"omitempty,max=10,dive,required,max=50"`
	Experience      *string  `json:"experience" validate:"omitempty,max=2000"`
	Certifications  *string  `json:"certifications" validate:"omitempty,max=2000"`
	Location        *string  `json:"location" validate:"omitempty,min=1,max=100"`
	HourlyRate      *int     `json:"hourly_rate" validate:"omitempty,min=0"`
}

// CreateScheduleRequest adds a weekly slot. DayOfWeek is 0 (Sunday) to 6.
type CreateScheduleRequest struct {
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	IsAvailable *bool  `json:"is_available"`
}
