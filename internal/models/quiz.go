package models

import "time"

// Quiz is a timed or untimed set of questions worth TotalPoints.
type Quiz struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CourseID         uint       `gorm:"not null;index" json:"course_id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	TotalPoints      float64    `gorm:"not null;default:0" json:"total_points"`
	TimeLimitSeconds *int       `json:"time_limit_seconds"`
	Visibility       Visibility `gorm:"size:16;not null;default:DRAFT" json:"visibility"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsPublished reports whether the quiz counts toward progress.
func (q Quiz) IsPublished() bool {
	return q.Visibility == VisibilityPublished
}

// TimeLimit returns the configured limit and whether one is set.
func (q Quiz) TimeLimit() (time.Duration, bool) {
	if q.TimeLimitSeconds == nil || *q.TimeLimitSeconds <= 0 {
		return 0, false
	}
	return time.Duration(*q.TimeLimitSeconds) * time.Second, true
}

// QuizAttempt is one sitting of a quiz by a student.
type QuizAttempt struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	QuizID      uint       `gorm:"not null;index:idx_quiz_attempts_quiz_student,priority:1" json:"quiz_id"`
	StudentID   uint       `gorm:"not null;index:idx_quiz_attempts_quiz_student,priority:2" json:"student_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	Score       *float64   `json:"score"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsSubmitted reports whether the attempt has been handed in.
func (a QuizAttempt) IsSubmitted() bool {
	return a.SubmittedAt != nil
}
