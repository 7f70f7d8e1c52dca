package dto

import (
	"time"

	"github.com/billy93/E-Learning-sub000/internal/progress"
)

// ProgressBreakdownResponse is the enrollment progress read shape.
type ProgressBreakdownResponse struct {
	StudentID            uint `json:"student_id"`
	CourseID             uint `json:"course_id"`
	CompletedLessons     int  `json:"completed_lessons"`
	TotalLessons         int  `json:"total_lessons"`
	CompletedQuizzes     int  `json:"completed_quizzes"`
	TotalQuizzes         int  `json:"total_quizzes"`
	CompletedAssignments int  `json:"completed_assignments"`
	TotalAssignments     int  `json:"total_assignments"`
	Percentage           int  `json:"percentage"`
}

// NewProgressBreakdownResponse maps an engine breakdown onto the response shape.
func NewProgressBreakdownResponse(studentID, courseID uint, breakdown progress.Breakdown) ProgressBreakdownResponse {
	return ProgressBreakdownResponse{
		StudentID:            studentID,
		CourseID:             courseID,
		CompletedLessons:     breakdown.CompletedLessons,
		TotalLessons:         breakdown.TotalLessons,
		CompletedQuizzes:     breakdown.CompletedQuizzes,
		TotalQuizzes:         breakdown.TotalQuizzes,
		CompletedAssignments: breakdown.CompletedAssignments,
		TotalAssignments:     breakdown.TotalAssignments,
		Percentage:           breakdown.Percentage,
	}
}

// SubmissionStatusResponse describes one assignment for one student.
type SubmissionStatusResponse struct {
	AssignmentID uint       `json:"assignment_id"`
	StudentID    uint       `json:"student_id"`
	Status       string     `json:"status"`
	Score        *float64   `json:"score"`
	SubmittedAt  *time.Time `json:"submitted_at"`
	IsLate       bool       `json:"is_late"`
}

// NewSubmissionStatusResponse converts a resolved submission state.
func NewSubmissionStatusResponse(assignmentID, studentID uint, state progress.SubmissionState) SubmissionStatusResponse {
	return SubmissionStatusResponse{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Status:       string(state.Status),
		Score:        state.Score,
		SubmittedAt:  state.SubmittedAt,
		IsLate:       state.IsLate,
	}
}

// QuizCompletionResponse describes one quiz for one student.
type QuizCompletionResponse struct {
	QuizID         uint       `json:"quiz_id"`
	StudentID      uint       `json:"student_id"`
	Completed      bool       `json:"completed"`
	Score          *float64   `json:"score"`
	AttemptCount   int        `json:"attempt_count"`
	ForfeitedCount int        `json:"forfeited_count"`
	AttemptID      *uint      `json:"attempt_id"`
	SubmittedAt    *time.Time `json:"submitted_at"`
}

// NewQuizCompletionResponse converts a resolved quiz completion.
func NewQuizCompletionResponse(quizID, studentID uint, completion progress.QuizCompletion) QuizCompletionResponse {
	return QuizCompletionResponse{
		QuizID:         quizID,
		StudentID:      studentID,
		Completed:      completion.Completed,
		Score:          completion.Score,
		AttemptCount:   completion.AttemptCount,
		ForfeitedCount: completion.ForfeitedCount,
		AttemptID:      completion.AttemptID,
		SubmittedAt:    completion.SubmittedAt,
	}
}

// AverageScope selects which scores feed an average.
type AverageScope string

const (
	AverageScopeCourse  AverageScope = "course"
	AverageScopeOverall AverageScope = "overall"
)

// AverageScoreRequest captures the average query parameters.
type AverageScoreRequest struct {
	StudentID uint         `validate:"required"`
	Scope     AverageScope `validate:"required,oneof=course overall"`
	CourseID  *uint        `validate:"required_if=Scope course"`
}

// AverageScoreResponse reports a student's average on the raw points scale.
type AverageScoreResponse struct {
	StudentID    uint         `json:"student_id"`
	Scope        AverageScope `json:"scope"`
	CourseID     *uint        `json:"course_id,omitempty"`
	AverageScore int          `json:"average_score"`
	GradedItems  int          `json:"graded_items"`
}

// CompletionRateResponse reports the share of enrollments at 100%.
type CompletionRateResponse struct {
	Scope                string `json:"scope"`
	CourseID             *uint  `json:"course_id,omitempty"`
	TotalEnrollments     int    `json:"total_enrollments"`
	CompletedEnrollments int    `json:"completed_enrollments"`
	CompletionRate       int    `json:"completion_rate"`
}
