package dto

import (
	"time"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

// SubmitQuizAttemptRequest carries the score reported by the quiz runner.
type SubmitQuizAttemptRequest struct {
	Score *float64 `json:"score" validate:"required,gte=0"`
}

// GradeSubmissionRequest captures a teacher's grade for a submission.
type GradeSubmissionRequest struct {
	Score    *float64 `json:"score" validate:"required,gte=0"`
	Feedback string   `json:"feedback" validate:"max=5000"`
}

// LessonCompletionResponse acknowledges a lesson being marked done.
type LessonCompletionResponse struct {
	LessonID    uint                       `json:"lesson_id"`
	CourseID    uint                       `json:"course_id"`
	StudentID   uint                       `json:"student_id"`
	CompletedAt time.Time                  `json:"completed_at"`
	Progress    *ProgressBreakdownResponse `json:"progress,omitempty"`
}

// QuizAttemptResponse serialises a quiz attempt.
type QuizAttemptResponse struct {
	ID          uint                       `json:"id"`
	QuizID      uint                       `json:"quiz_id"`
	StudentID   uint                       `json:"student_id"`
	StartedAt   time.Time                  `json:"started_at"`
	SubmittedAt *time.Time                 `json:"submitted_at"`
	Score       *float64                   `json:"score"`
	Forfeited   bool                       `json:"forfeited"`
	Progress    *ProgressBreakdownResponse `json:"progress,omitempty"`
}

// NewQuizAttemptResponse converts a model into its response shape.
func NewQuizAttemptResponse(attempt models.QuizAttempt, forfeited bool) QuizAttemptResponse {
	return QuizAttemptResponse{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		StudentID:   attempt.StudentID,
		StartedAt:   attempt.StartedAt,
		SubmittedAt: attempt.SubmittedAt,
		Score:       attempt.Score,
		Forfeited:   forfeited,
	}
}

// SubmissionResponse serialises a submission along with its resolved status.
type SubmissionResponse struct {
	ID           uint                       `json:"id"`
	AssignmentID uint                       `json:"assignment_id"`
	StudentID    uint                       `json:"student_id"`
	Status       string                     `json:"status"`
	IsLate       bool                       `json:"is_late"`
	SubmittedAt  *time.Time                 `json:"submitted_at"`
	Score        *float64                   `json:"score"`
	Feedback     string                     `json:"feedback"`
	GradedBy     *uint                      `json:"graded_by"`
	GradedAt     *time.Time                 `json:"graded_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	Progress     *ProgressBreakdownResponse `json:"progress,omitempty"`
}

// NewSubmissionResponse converts a model plus its resolved status.
func NewSubmissionResponse(submission models.Submission, status string, isLate bool) SubmissionResponse {
	return SubmissionResponse{
		ID:           submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		Status:       status,
		IsLate:       isLate,
		SubmittedAt:  submission.SubmittedAt,
		Score:        submission.Score,
		Feedback:     submission.Feedback,
		GradedBy:     submission.GradedBy,
		GradedAt:     submission.GradedAt,
		UpdatedAt:    submission.UpdatedAt,
	}
}
