package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

func TestResolveQuizCompletionLastSubmittedWins(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	first := base.Add(10 * time.Minute)
	second := base.Add(2 * time.Hour)
	high, low := 95.0, 60.0

	quiz := models.Quiz{ID: 1, TotalPoints: 100}
	attempts := []models.QuizAttempt{
		{ID: 1, StartedAt: base, SubmittedAt: &first, Score: &high},
		{ID: 2, StartedAt: base.Add(time.Hour), SubmittedAt: &second, Score: &low},
		{ID: 3, StartedAt: base.Add(3 * time.Hour)},
	}

	result := ResolveQuizCompletion(quiz, attempts, base.Add(4*time.Hour))
	require.True(t, result.Completed)
	require.Equal(t, 3, result.AttemptCount)
	require.NotNil(t, result.Score)
	require.Equal(t, low, *result.Score)
	require.Equal(t, uint(2), *result.AttemptID)
}

func TestResolveQuizCompletionForfeits(t *testing.T) {
	limit := 600
	quiz := models.Quiz{ID: 1, TotalPoints: 100, TimeLimitSeconds: &limit}
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tooLate := start.Add(10*time.Minute + time.Second)
	atLimit := start.Add(10 * time.Minute)
	score := 80.0

	t.Run("submitted after limit", func(t *testing.T) {
		attempts := []models.QuizAttempt{{ID: 1, StartedAt: start, SubmittedAt: &tooLate, Score: &score}}
		result := ResolveQuizCompletion(quiz, attempts, tooLate)
		require.False(t, result.Completed)
		require.Nil(t, result.Score)
		require.Equal(t, 1, result.AttemptCount)
		require.Equal(t, 1, result.ForfeitedCount)
	})

	t.Run("submitted exactly at limit", func(t *testing.T) {
		attempts := []models.QuizAttempt{{ID: 1, StartedAt: start, SubmittedAt: &atLimit, Score: &score}}
		result := ResolveQuizCompletion(quiz, attempts, atLimit.Add(time.Hour))
		require.True(t, result.Completed)
		require.Equal(t, 0, result.ForfeitedCount)
	})

	t.Run("open attempt past limit", func(t *testing.T) {
		attempts := []models.QuizAttempt{{ID: 1, StartedAt: start}}
		result := ResolveQuizCompletion(quiz, attempts, start.Add(time.Hour))
		require.False(t, result.Completed)
		require.Equal(t, 1, result.ForfeitedCount)
		require.Equal(t, 1, result.AttemptCount)
	})

	t.Run("open attempt within limit", func(t *testing.T) {
		attempts := []models.QuizAttempt{{ID: 1, StartedAt: start}}
		result := ResolveQuizCompletion(quiz, attempts, start.Add(time.Minute))
		require.False(t, result.Completed)
		require.Equal(t, 0, result.ForfeitedCount)
	})

	t.Run("forfeit does not hide earlier valid attempt", func(t *testing.T) {
		valid := start.Add(5 * time.Minute)
		attempts := []models.QuizAttempt{
			{ID: 1, StartedAt: start, SubmittedAt: &valid, Score: &score},
			{ID: 2, StartedAt: start.Add(time.Hour)},
		}
		result := ResolveQuizCompletion(quiz, attempts, start.Add(3*time.Hour))
		require.True(t, result.Completed)
		require.Equal(t, score, *result.Score)
		require.Equal(t, 2, result.AttemptCount)
		require.Equal(t, 1, result.ForfeitedCount)
	})
}

func TestResolveQuizCompletionNoAttempts(t *testing.T) {
	result := ResolveQuizCompletion(models.Quiz{ID: 9}, nil, time.Now())
	require.False(t, result.Completed)
	require.Zero(t, result.AttemptCount)
	require.Nil(t, result.Score)
}
