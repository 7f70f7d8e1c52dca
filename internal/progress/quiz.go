package progress

import (
	"time"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

// QuizCompletion is the resolved view of a quiz for one student.
type QuizCompletion struct {
	Completed      bool       `json:"completed"`
	Score          *float64   `json:"score"`
	AttemptCount   int        `json:"attempt_count"`
	ForfeitedCount int        `json:"forfeited_count"`
	AttemptID      *uint      `json:"attempt_id,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
}

// IsForfeited reports whether the attempt ran past the quiz time limit: either
// it was submitted after the limit elapsed, or it is still open and the limit
// has elapsed at now. Quizzes without a limit never forfeit.
func IsForfeited(quiz models.Quiz, attempt models.QuizAttempt, now time.Time) bool {
	limit, ok := quiz.TimeLimit()
	if !ok {
		return false
	}
	end := now
	if attempt.SubmittedAt != nil {
		end = *attempt.SubmittedAt
	}
	return end.Sub(attempt.StartedAt) > limit
}

// ResolveQuizCompletion picks the most recently submitted, non-forfeited
// attempt as authoritative for completion and score. Forfeited and in-progress
// attempts still count toward AttemptCount.
func ResolveQuizCompletion(quiz models.Quiz, attempts []models.QuizAttempt, now time.Time) QuizCompletion {
	result := QuizCompletion{AttemptCount: len(attempts)}

	var latest *models.QuizAttempt
	for i := range attempts {
		attempt := attempts[i]
		if IsForfeited(quiz, attempt, now) {
			result.ForfeitedCount++
			continue
		}
		if attempt.SubmittedAt == nil {
			continue
		}
		if latest == nil || laterSubmission(attempt, *latest) {
			latest = &attempts[i]
		}
	}

	if latest == nil {
		return result
	}

	id := latest.ID
	result.Completed = true
	result.Score = latest.Score
	result.AttemptID = &id
	result.SubmittedAt = latest.SubmittedAt
	return result
}

func laterSubmission(candidate, current models.QuizAttempt) bool {
	if candidate.SubmittedAt.Equal(*current.SubmittedAt) {
		return candidate.ID > current.ID
	}
	return candidate.SubmittedAt.After(*current.SubmittedAt)
}
