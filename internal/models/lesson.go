package models

import "time"

// Lesson is a single reading/video unit inside a course.
type Lesson struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CourseID   uint       `gorm:"not null;uniqueIndex:idx_lessons_course_order,priority:1" json:"course_id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Order      int        `gorm:"column:sort_order;not null;uniqueIndex:idx_lessons_course_order,priority:2" json:"order"`
	Visibility Visibility `gorm:"size:16;not null;default:DRAFT" json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsPublished reports whether the lesson counts toward progress.
func (l Lesson) IsPublished() bool {
	return l.Visibility == VisibilityPublished
}

// LessonCompletion records that a student marked a lesson as done.
type LessonCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_lesson_completion_student_lesson,priority:1;index:idx_lesson_completion_student_course,priority:1" json:"student_id"`
	LessonID    uint      `gorm:"not null;uniqueIndex:idx_lesson_completion_student_lesson,priority:2" json:"lesson_id"`
	CourseID    uint      `gorm:"not null;index:idx_lesson_completion_student_course,priority:2" json:"course_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}
