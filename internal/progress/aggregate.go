package progress

import (
	"fmt"
	"time"

	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

// QuizActivity pairs a quiz with one student's attempts.
type QuizActivity struct {
	Quiz     models.Quiz
	Attempts []models.QuizAttempt
}

// AssignmentActivity pairs an assignment with one student's submission, if any.
type AssignmentActivity struct {
	Assignment models.Assignment
	Submission *models.Submission
}

// CourseSnapshot is everything needed to compute one enrollment's progress.
// CompletedLessonIDs is the external "marked done" signal.
type CourseSnapshot struct {
	CourseID           uint
	StudentID          uint
	Lessons            []models.Lesson
	CompletedLessonIDs []uint
	Quizzes            []QuizActivity
	Assignments        []AssignmentActivity
	Now                time.Time
}

// Breakdown is the per-enrollment progress shape exposed to every dashboard.
type Breakdown struct {
	CompletedLessons     int `json:"completed_lessons"`
	TotalLessons         int `json:"total_lessons"`
	CompletedQuizzes     int `json:"completed_quizzes"`
	TotalQuizzes         int `json:"total_quizzes"`
	CompletedAssignments int `json:"completed_assignments"`
	TotalAssignments     int `json:"total_assignments"`
	Percentage           int `json:"percentage"`
}

// TotalActivities returns the progress denominator.
func (b Breakdown) TotalActivities() int {
	return b.TotalLessons + b.TotalQuizzes + b.TotalAssignments
}

// CompletedActivities returns the progress numerator.
func (b Breakdown) CompletedActivities() int {
	return b.CompletedLessons + b.CompletedQuizzes + b.CompletedAssignments
}

// QuizResult is the resolved quiz state inside a course.
type QuizResult struct {
	QuizID      uint
	TotalPoints float64
	Completion  QuizCompletion
}

// AssignmentResult is the resolved assignment state inside a course.
type AssignmentResult struct {
	AssignmentID uint
	TotalPoints  float64
	State        SubmissionState
}

// CourseProgress is the full result of computing one enrollment.
// Scores holds one entry per published quiz and assignment, nil when ungraded,
// so callers can flatten across courses before averaging.
type CourseProgress struct {
	Breakdown   Breakdown
	Quizzes     []QuizResult
	Assignments []AssignmentResult
	Scores      []*float64
}

// Average returns the mean of the graded scores in this course.
func (p CourseProgress) Average() int {
	return AverageScore(p.Scores)
}

// ComputeEnrollmentProgress folds a course snapshot into a breakdown. Only
// published items are counted; a course without published items is 0%.
func ComputeEnrollmentProgress(snapshot CourseSnapshot) (CourseProgress, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return CourseProgress{}, err
	}

	var result CourseProgress
	breakdown := &result.Breakdown

	completedLessons := make(map[uint]struct{}, len(snapshot.CompletedLessonIDs))
	for _, id := range snapshot.CompletedLessonIDs {
		completedLessons[id] = struct{}{}
	}
	for _, lesson := range snapshot.Lessons {
		if !lesson.IsPublished() {
			continue
		}
		breakdown.TotalLessons++
		if _, ok := completedLessons[lesson.ID]; ok {
			breakdown.CompletedLessons++
		}
	}

	for _, activity := range snapshot.Quizzes {
		if !activity.Quiz.IsPublished() {
			continue
		}
		breakdown.TotalQuizzes++
		completion := ResolveQuizCompletion(activity.Quiz, activity.Attempts, snapshot.Now)
		if completion.Completed {
			breakdown.CompletedQuizzes++
		}
		result.Quizzes = append(result.Quizzes, QuizResult{
			QuizID:      activity.Quiz.ID,
			TotalPoints: activity.Quiz.TotalPoints,
			Completion:  completion,
		})
		result.Scores = append(result.Scores, completion.Score)
	}

	for _, activity := range snapshot.Assignments {
		if !activity.Assignment.IsPublished() {
			continue
		}
		breakdown.TotalAssignments++
		state := ResolveSubmissionStatus(activity.Assignment, activity.Submission)
		if state.Completed() {
			breakdown.CompletedAssignments++
		}
		result.Assignments = append(result.Assignments, AssignmentResult{
			AssignmentID: activity.Assignment.ID,
			TotalPoints:  activity.Assignment.TotalPoints,
			State:        state,
		})
		var score *float64
		if state.Status == StatusGraded {
			score = state.Score
		}
		result.Scores = append(result.Scores, score)
	}

	breakdown.Percentage = Percentage(breakdown.CompletedActivities(), breakdown.TotalActivities())
	return result, nil
}

func validateSnapshot(snapshot CourseSnapshot) error {
	for _, activity := range snapshot.Quizzes {
		if err := ValidateQuiz(activity.Quiz); err != nil {
			return err
		}
		for _, attempt := range activity.Attempts {
			if err := validateScore(attempt.Score, attempt.SubmittedAt, activity.Quiz.TotalPoints, "quiz attempt", attempt.ID); err != nil {
				return err
			}
		}
	}
	for _, activity := range snapshot.Assignments {
		if err := ValidateAssignment(activity.Assignment); err != nil {
			return err
		}
		if activity.Submission != nil {
			submission := activity.Submission
			if err := validateScore(submission.Score, submission.SubmittedAt, activity.Assignment.TotalPoints, "submission", submission.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateQuiz rejects quizzes whose point total is out of range.
func ValidateQuiz(quiz models.Quiz) error {
	if quiz.TotalPoints < 0 {
		return apperror.Validation(fmt.Sprintf("quiz %d has negative total points", quiz.ID))
	}
	return nil
}

// ValidateAssignment rejects assignments whose point total is out of range.
func ValidateAssignment(assignment models.Assignment) error {
	if assignment.TotalPoints < 0 {
		return apperror.Validation(fmt.Sprintf("assignment %d has negative total points", assignment.ID))
	}
	return nil
}

// ValidateScore checks a score against the parent's point total.
func ValidateScore(score, totalPoints float64) error {
	if score < 0 || score > totalPoints {
		return apperror.Validation(fmt.Sprintf("score %.2f outside [0, %.2f]", score, totalPoints))
	}
	return nil
}

func validateScore(score *float64, submittedAt *time.Time, totalPoints float64, kind string, id uint) error {
	if score == nil {
		return nil
	}
	if submittedAt == nil {
		return apperror.Validation(fmt.Sprintf("%s %d is scored but was never submitted", kind, id))
	}
	return ValidateScore(*score, totalPoints)
}
