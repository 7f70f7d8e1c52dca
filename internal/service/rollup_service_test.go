package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/internal/repository"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

func newTestRollupService(store repository.EntityStore, cache *redis.Client, f courseFixture) *rollupService {
	svc := NewRollupService(store, cache, time.Minute, 10, testLogger()).(*rollupService)
	svc.now = f.clock()
	return svc
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	return mini, redis.NewClient(&redis.Options{Addr: mini.Addr()})
}

func TestRollupStudentOverviewCachesAndInvalidates(t *testing.T) {
	f := newCourseFixture(t)
	mini, client := newMiniRedis(t)
	svc := newTestRollupService(f.store, client, f)
	ctx := context.Background()

	first, hit, err := svc.StudentOverview(ctx, studentViewer(f.alice.ID), f.alice.ID)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "Alice", first.Name)
	require.Len(t, first.Courses, 1)
	require.Equal(t, 75, first.Courses[0].Progress.Percentage)
	require.Equal(t, 8, first.OverallAverage)
	require.Equal(t, 4, first.StreakDays)
	require.Equal(t, int64(5400), first.TotalStudySeconds)
	require.True(t, mini.Exists(studentCacheKey(f.alice.ID)))

	second, hit, err := svc.StudentOverview(ctx, parentViewer(fixtureParentID), f.alice.ID)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, first, second)

	_, _, err = svc.ParentOverview(ctx, parentViewer(fixtureParentID), fixtureParentID)
	require.NoError(t, err)
	require.True(t, mini.Exists(parentCacheKey(fixtureParentID)))

	require.NoError(t, svc.Invalidate(ctx, f.alice.ID))
	require.False(t, mini.Exists(studentCacheKey(f.alice.ID)))
	require.False(t, mini.Exists(parentCacheKey(fixtureParentID)), "parents of the student are invalidated too")

	_, hit, err = svc.StudentOverview(ctx, studentViewer(f.alice.ID), f.alice.ID)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestRollupStudentOverviewScope(t *testing.T) {
	f := newCourseFixture(t)
	svc := newTestRollupService(f.store, nil, f)
	ctx := context.Background()

	_, _, err := svc.StudentOverview(ctx, studentViewer(f.bob.ID), f.alice.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, _, err = svc.StudentOverview(ctx, parentViewer(fixtureParentID), f.bob.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	overview, hit, err := svc.StudentOverview(ctx, teacherViewer(fixtureTeacherID), f.bob.ID)
	require.NoError(t, err)
	require.False(t, hit, "no cache configured")
	require.Equal(t, 48, overview.OverallAverage)
	require.Zero(t, overview.StreakDays, "missing study stats default to zero")
}

func TestRollupStudentOverviewSurfacesStoreFailure(t *testing.T) {
	f := newCourseFixture(t)
	svc := newTestRollupService(failingStore{Store: f.store}, nil, f)

	_, _, err := svc.StudentOverview(context.Background(), studentViewer(f.alice.ID), f.alice.ID)
	require.ErrorIs(t, err, apperror.ErrInternal)
	require.ErrorIs(t, err, errStoreDown)
}

func TestRollupParentOverview(t *testing.T) {
	f := newCourseFixture(t)
	_, client := newMiniRedis(t)
	svc := newTestRollupService(f.store, client, f)
	ctx := context.Background()

	overview, hit, err := svc.ParentOverview(ctx, parentViewer(fixtureParentID), fixtureParentID)
	require.NoError(t, err)
	require.False(t, hit)
	require.Len(t, overview.Children, 1)
	require.Equal(t, f.alice.ID, overview.Children[0].StudentID)

	_, hit, err = svc.ParentOverview(ctx, parentViewer(fixtureParentID), fixtureParentID)
	require.NoError(t, err)
	require.True(t, hit)

	_, _, err = svc.ParentOverview(ctx, parentViewer(fixtureParentID+1), fixtureParentID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	empty, _, err := svc.ParentOverview(ctx, parentViewer(fixtureParentID+1), fixtureParentID+1)
	require.NoError(t, err)
	require.Empty(t, empty.Children)
}

func TestRollupCohortReport(t *testing.T) {
	f := newCourseFixture(t)
	svc := newTestRollupService(f.store, nil, f)
	ctx := context.Background()

	// Alice hands in late-free work that still needs grading
	require.NoError(t, f.db.Create(&models.Submission{AssignmentID: f.assignment.ID, StudentID: f.alice.ID, SubmittedAt: timePointer(f.now)}).Error)

	report, err := svc.CohortReport(ctx, teacherViewer(fixtureTeacherID), f.course.ID)
	require.NoError(t, err)
	require.Equal(t, "Algebra", report.Title)
	require.Equal(t, 2, report.Enrolled)
	require.Equal(t, 100, report.AverageProgress)
	require.Equal(t, 100, report.CompletionRate)
	require.Equal(t, 1, report.PendingGrading)
	require.Len(t, report.Students, 2)
	require.Len(t, report.Assignments, 1)
	require.Equal(t, 1, report.Assignments[0].PendingGrading)
	require.Len(t, report.Assignments[0].Statuses, 2)
	require.Len(t, report.Quizzes, 1)
	require.Len(t, report.Quizzes[0].Statuses, 2)

	_, err = svc.CohortReport(ctx, teacherViewer(fixtureTeacherID+1), f.course.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.CohortReport(ctx, studentViewer(f.alice.ID), f.course.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRollupAdminOverviewLeaderboard(t *testing.T) {
	f := newCourseFixture(t)
	svc := newTestRollupService(f.store, nil, f)
	ctx := context.Background()

	carol := models.Student{Name: "Carol", Email: "carol@example.com"}
	require.NoError(t, f.db.Create(&carol).Error)
	require.NoError(t, f.db.Create(&models.Enrollment{StudentID: carol.ID, CourseID: f.course.ID, Status: models.EnrollmentDropped}).Error)

	overview, err := svc.AdminOverview(ctx, adminViewer(), 0)
	require.NoError(t, err)
	require.Equal(t, 3, overview.TotalEnrollments)
	require.Equal(t, 1, overview.CompletedEnrollments)
	require.Equal(t, 33, overview.CompletionRate)
	require.Equal(t, 58, overview.AverageProgress)
	require.Len(t, overview.Leaderboard, 3, "students without graded work still rank")

	require.Equal(t, f.bob.ID, overview.Leaderboard[0].StudentID)
	require.Equal(t, 1, overview.Leaderboard[0].Rank)
	require.Equal(t, 48, overview.Leaderboard[0].AverageScore)
	require.Equal(t, f.alice.ID, overview.Leaderboard[1].StudentID)
	require.Equal(t, carol.ID, overview.Leaderboard[2].StudentID)
	require.Equal(t, 0, overview.Leaderboard[2].GradedItems)

	limited, err := svc.AdminOverview(ctx, adminViewer(), 1)
	require.NoError(t, err)
	require.Len(t, limited.Leaderboard, 1)

	_, err = svc.AdminOverview(ctx, teacherViewer(fixtureTeacherID), 0)
	require.ErrorIs(t, err, apperror.ErrForbidden)
}
