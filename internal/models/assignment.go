package models

import "time"

// Assignment represents a graded task attached to a course.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CourseID    uint       `gorm:"not null;index" json:"course_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueAt       *time.Time `json:"due_at"`
	TotalPoints float64    `gorm:"not null;default:100" json:"total_points"`
	Visibility  Visibility `gorm:"size:16;not null;default:DRAFT" json:"visibility"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished reports whether the assignment counts toward progress.
func (a Assignment) IsPublished() bool {
	return a.Visibility == VisibilityPublished
}

// IsPastDue returns true when the assignment deadline has already passed.
// Assignments without a due date are never past due.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return a.DueAt != nil && reference.After(*a.DueAt)
}
