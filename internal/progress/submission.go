package progress

import (
	"time"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

// SubmissionStatus is the lifecycle label of an assignment for one student.
type SubmissionStatus string

const (
	StatusMissing   SubmissionStatus = "MISSING"
	StatusSubmitted SubmissionStatus = "SUBMITTED"
	StatusLate      SubmissionStatus = "LATE"
	StatusGraded    SubmissionStatus = "GRADED"
)

// SubmissionState is the resolved view of an assignment for one student.
// IsLate is kept separately because GRADED hides lateness in Status.
type SubmissionState struct {
	Status      SubmissionStatus `json:"status"`
	Score       *float64         `json:"score"`
	SubmittedAt *time.Time       `json:"submitted_at"`
	IsLate      bool             `json:"is_late"`
}

// Completed reports whether the assignment counts as done for progress.
func (s SubmissionState) Completed() bool {
	return s.Status != StatusMissing
}

// AwaitingGrade reports whether the submission belongs in a grading queue.
func (s SubmissionState) AwaitingGrade() bool {
	return s.Status == StatusSubmitted || s.Status == StatusLate
}

// ResolveSubmissionStatus derives the status of an assignment from the
// student's submission record, which is nil when the student never submitted.
// A submission exactly at the due time is on time.
func ResolveSubmissionStatus(assignment models.Assignment, submission *models.Submission) SubmissionState {
	if submission == nil {
		return SubmissionState{Status: StatusMissing}
	}

	state := SubmissionState{
		Score:       submission.Score,
		SubmittedAt: submission.SubmittedAt,
	}
	if submission.SubmittedAt != nil && assignment.DueAt != nil {
		state.IsLate = submission.SubmittedAt.After(*assignment.DueAt)
	}

	switch {
	case submission.Score != nil:
		state.Status = StatusGraded
	case state.IsLate:
		state.Status = StatusLate
	default:
		state.Status = StatusSubmitted
	}

	return state
}
