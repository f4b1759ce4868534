package models

import "github.com/lib/pq"

// LessonType is a seeded lookup row such as "개인 레슨".
type LessonType struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// SkillLevel is a seeded lookup row such as "입문".
type SkillLevel struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Lesson is a bookable offering owned by one coach.
type Lesson struct {
	ID           int64          `db:"id" json:"id"`
	CoachID      int64          `db:"coach_id" json:"coach_id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	LessonTypeID *int64         `db:"lesson_type_id" json:"lesson_type_id"`
	SkillLevelID *int64         `db:"skill_level_id" json:"skill_level_id"`
	Location     string         `db:"location" json:"location"`
	GroupSize    int            `db:"group_size" json:"group_size"`
	Duration     int            `db:"duration" json:"duration"`
	Price        int            `db:"price" json:"price"`
	Image        string         `db:"image" json:"image"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
}

// LessonWithDetails is a lesson with its coach, type and level resolved.
// LessonType and SkillLevel are nil when the lesson has no such reference.
type LessonWithDetails struct {
	Lesson
	Coach      CoachWithUser `json:"coach"`
	LessonType *LessonType   `json:"lesson_type"`
	SkillLevel *SkillLevel   `json:"skill_level"`
}

// LessonFilter holds the optional lesson search parameters. Zero values are
// treated as absent.
type LessonFilter struct {
	Location     string
	LessonTypeID int64
	SkillLevelID int64
}
