package dto

// CreateLessonRequest publishes a lesson. CoachID is only honoured for admins;
// coaches always publish under their own profile.
type CreateLessonRequest struct {
	CoachID      int64    `json:"coach_id" validate:"omitempty,min=1"`
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	LessonTypeID *int64   `json:"lesson_type_id" validate:"omitempty,min=1"`
	SkillLevelID *int64   `json:"skill_level_id" validate:"omitempty,min=1"`
	Location     string   `json:"location" validate:"required,max=100"`
	GroupSize    int      `json:"group_size" validate:"min=1,max=100"`
	Duration     int      `json:"duration" validate:"min=10,max=600"`
	Price        int      `json:"price" validate:"min=0"`
	Image        string   `json:"image" validate:"omitempty,url"`
	Tags         []string `json:"tags" validate:"max=10,dive,required,max=30"`
}
