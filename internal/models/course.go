package models

import "time"

// Visibility controls whether authored content is shown to students.
type Visibility string

const (
	// VisibilityDraft marks content that is still being authored.
	VisibilityDraft Visibility = "DRAFT"
	// VisibilityPublished marks content visible to enrolled students.
	VisibilityPublished Visibility = "PUBLISHED"
	// VisibilityArchived is only used by courses that are closed for new work.
	VisibilityArchived Visibility = "ARCHIVED"
)

// Course groups lessons, quizzes and assignments taught by one teacher.
type Course struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Subject    string     `gorm:"size:128" json:"subject"`
	GradeLevel string     `gorm:"size:32" json:"grade_level"`
	TeacherID  uint       `gorm:"not null;index" json:"teacher_id"`
	Visibility Visibility `gorm:"size:16;not null;default:DRAFT" json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TaughtBy reports whether the given teacher owns the course.
func (c Course) TaughtBy(teacherID uint) bool {
	return teacherID != 0 && c.TeacherID == teacherID
}
