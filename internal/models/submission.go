package models

import "time"

// Submission is a student's hand-in for an assignment. A single row per
// (assignment, student) is mutated in place on resubmission and grading.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student,priority:1" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student,priority:2;index" json:"student_id"`
	SubmittedAt  *time.Time `json:"submitted_at"`
	Score        *float64   `json:"score"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	GradedBy     *uint      `json:"graded_by"`
	GradedAt     *time.Time `json:"graded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsGraded reports whether the submission has a final score.
func (s Submission) IsGraded() bool {
	return s.Score != nil
}
