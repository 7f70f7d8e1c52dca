package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

const published = models.VisibilityPublished

func TestComputeEnrollmentProgressScenario(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	submitted := now.Add(-time.Hour)
	score := 80.0

	snapshot := CourseSnapshot{
		CourseID:  1,
		StudentID: 7,
		Lessons: []models.Lesson{
			{ID: 1, CourseID: 1, Order: 1, Visibility: published},
			{ID: 2, CourseID: 1, Order: 2, Visibility: published},
			{ID: 3, CourseID: 1, Order: 3, Visibility: models.VisibilityDraft},
		},
		CompletedLessonIDs: []uint{1, 2, 3},
		Quizzes: []QuizActivity{{
			Quiz:     models.Quiz{ID: 10, CourseID: 1, TotalPoints: 100, Visibility: published},
			Attempts: []models.QuizAttempt{{ID: 1, QuizID: 10, StudentID: 7, StartedAt: submitted.Add(-time.Minute), SubmittedAt: &submitted, Score: &score}},
		}},
		Assignments: []AssignmentActivity{{
			Assignment: models.Assignment{ID: 20, CourseID: 1, TotalPoints: 100, Visibility: published},
		}},
		Now: now,
	}

	result, err := ComputeEnrollmentProgress(snapshot)
	require.NoError(t, err)
	require.Equal(t, Breakdown{
		CompletedLessons:     2,
		TotalLessons:         2,
		CompletedQuizzes:     1,
		TotalQuizzes:         1,
		CompletedAssignments: 0,
		TotalAssignments:     1,
		Percentage:           75,
	}, result.Breakdown)
	require.Equal(t, 80, result.Average())
	require.Len(t, result.Scores, 2)

	again, err := ComputeEnrollmentProgress(snapshot)
	require.NoError(t, err)
	require.Equal(t, result, again)
}

func TestComputeEnrollmentProgressEmptyCourse(t *testing.T) {
	result, err := ComputeEnrollmentProgress(CourseSnapshot{
		CourseID: 1,
		Lessons:  []models.Lesson{{ID: 1, Visibility: models.VisibilityDraft}},
		Now:      time.Now(),
	})
	require.NoError(t, err)
	require.Zero(t, result.Breakdown.TotalActivities())
	require.Equal(t, 0, result.Breakdown.Percentage)
}

func TestComputeEnrollmentProgressMonotonic(t *testing.T) {
	lessons := make([]models.Lesson, 0, 7)
	for i := 1; i <= 7; i++ {
		lessons = append(lessons, models.Lesson{ID: uint(i), Order: i, Visibility: published})
	}

	previous := -1
	for done := 0; done <= len(lessons); done++ {
		completed := make([]uint, 0, done)
		for i := 1; i <= done; i++ {
			completed = append(completed, uint(i))
		}
		result, err := ComputeEnrollmentProgress(CourseSnapshot{Lessons: lessons, CompletedLessonIDs: completed, Now: time.Now()})
		require.NoError(t, err)
		pct := result.Breakdown.Percentage
		require.GreaterOrEqual(t, pct, 0)
		require.LessOrEqual(t, pct, 100)
		require.GreaterOrEqual(t, pct, previous)
		previous = pct
	}
	require.Equal(t, 100, previous)
}

func TestComputeEnrollmentProgressSubmittedAssignmentCounts(t *testing.T) {
	submitted := time.Now()
	result, err := ComputeEnrollmentProgress(CourseSnapshot{
		Assignments: []AssignmentActivity{
			{Assignment: models.Assignment{ID: 1, TotalPoints: 10, Visibility: published}, Submission: &models.Submission{ID: 1, SubmittedAt: &submitted}},
			{Assignment: models.Assignment{ID: 2, TotalPoints: 10, Visibility: published}},
		},
		Now: submitted,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Breakdown.CompletedAssignments)
	require.Equal(t, 50, result.Breakdown.Percentage)
	require.Equal(t, 0, result.Average(), "ungraded work is excluded from the average")
}

func TestComputeEnrollmentProgressValidation(t *testing.T) {
	submitted := time.Now()
	tooHigh := 11.0

	_, err := ComputeEnrollmentProgress(CourseSnapshot{
		Quizzes: []QuizActivity{{Quiz: models.Quiz{ID: 1, TotalPoints: -5, Visibility: published}}},
	})
	require.ErrorIs(t, err, apperror.ErrValidation)

	_, err = ComputeEnrollmentProgress(CourseSnapshot{
		Assignments: []AssignmentActivity{{
			Assignment: models.Assignment{ID: 1, TotalPoints: 10, Visibility: published},
			Submission: &models.Submission{ID: 1, SubmittedAt: &submitted, Score: &tooHigh},
		}},
	})
	require.ErrorIs(t, err, apperror.ErrValidation)

	score := 5.0
	_, err = ComputeEnrollmentProgress(CourseSnapshot{
		Assignments: []AssignmentActivity{{
			Assignment: models.Assignment{ID: 1, TotalPoints: 10, Visibility: published},
			Submission: &models.Submission{ID: 1, Score: &score},
		}},
	})
	require.ErrorIs(t, err, apperror.ErrValidation)
}
