package models

import "time"

// EnrollmentStatus enumerates enrollment states.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
)

// Enrollment links one student to one course and caches the last computed
// progress percentage.
type Enrollment struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	StudentID uint             `gorm:"not null;uniqueIndex:idx_enrollments_student_course,priority:1" json:"student_id"`
	CourseID  uint             `gorm:"not null;uniqueIndex:idx_enrollments_student_course,priority:2;index" json:"course_id"`
	Status    EnrollmentStatus `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	Progress  int              `gorm:"not null;default:0" json:"progress"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
