package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/internal/repository"
)

const (
	fixtureTeacherID = uint(50)
	fixtureParentID  = uint(70)
	fixtureAdminID   = uint(90)
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func floatPointer(v float64) *float64 {
	return &v
}

func timePointer(v time.Time) *time.Time {
	return &v
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// courseFixture is one published course with two enrolled students:
// Alice has finished both lessons and the quiz (75%), Bob everything (100%).
type courseFixture struct {
	db         *gorm.DB
	store      repository.Store
	course     models.Course
	lessons    []models.Lesson
	draft      models.Lesson
	quiz       models.Quiz
	assignment models.Assignment
	alice      models.Student
	bob        models.Student
	now        time.Time
}

func newCourseFixture(t *testing.T) courseFixture {
	t.Helper()
	db := setupServiceDB(t)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	f := courseFixture{db: db, store: repository.NewStore(db), now: now}

	f.alice = models.Student{Name: "Alice", Email: "alice@example.com"}
	f.bob = models.Student{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)

	f.course = models.Course{Title: "Algebra", Subject: "Math", TeacherID: fixtureTeacherID, Visibility: models.VisibilityPublished}
	require.NoError(t, db.Create(&f.course).Error)

	f.lessons = []models.Lesson{
		{CourseID: f.course.ID, Title: "Variables", Order: 1, Visibility: models.VisibilityPublished},
		{CourseID: f.course.ID, Title: "Equations", Order: 2, Visibility: models.VisibilityPublished},
	}
	require.NoError(t, db.Create(&f.lessons).Error)
	f.draft = models.Lesson{CourseID: f.course.ID, Title: "Inequalities", Order: 3, Visibility: models.VisibilityDraft}
	require.NoError(t, db.Create(&f.draft).Error)

	limit := 1800
	f.quiz = models.Quiz{CourseID: f.course.ID, Title: "Quiz 1", TotalPoints: 10, TimeLimitSeconds: &limit, Visibility: models.VisibilityPublished}
	require.NoError(t, db.Create(&f.quiz).Error)

	f.assignment = models.Assignment{
		CourseID:    f.course.ID,
		Title:       "Worksheet",
		TotalPoints: 100,
		DueAt:       timePointer(now.Add(48 * time.Hour)),
		Visibility:  models.VisibilityPublished,
	}
	require.NoError(t, db.Create(&f.assignment).Error)

	for _, student := range []models.Student{f.alice, f.bob} {
		require.NoError(t, db.Create(&models.Enrollment{StudentID: student.ID, CourseID: f.course.ID, Status: models.EnrollmentActive}).Error)
		for _, lesson := range f.lessons {
			require.NoError(t, db.Create(&models.LessonCompletion{StudentID: student.ID, LessonID: lesson.ID, CourseID: f.course.ID, CompletedAt: now.Add(-time.Hour)}).Error)
		}
	}

	started := now.Add(-2 * time.Hour)
	require.NoError(t, db.Create(&models.QuizAttempt{QuizID: f.quiz.ID, StudentID: f.alice.ID, StartedAt: started, SubmittedAt: timePointer(started.Add(10 * time.Minute)), Score: floatPointer(8)}).Error)
	require.NoError(t, db.Create(&models.QuizAttempt{QuizID: f.quiz.ID, StudentID: f.bob.ID, StartedAt: started, SubmittedAt: timePointer(started.Add(20 * time.Minute)), Score: floatPointer(6)}).Error)

	require.NoError(t, db.Create(&models.Submission{
		AssignmentID: f.assignment.ID,
		StudentID:    f.bob.ID,
		SubmittedAt:  timePointer(now.Add(-30 * time.Minute)),
		Score:        floatPointer(90),
	}).Error)

	require.NoError(t, db.Create(&models.ParentChild{ParentID: fixtureParentID, ChildID: f.alice.ID}).Error)
	require.NoError(t, db.Create(&models.StudyStat{StudentID: f.alice.ID, StreakDays: 4, TotalStudySeconds: 5400}).Error)

	return f
}

func (f courseFixture) clock() func() time.Time {
	return func() time.Time { return f.now }
}

func studentViewer(id uint) access.Viewer {
	return access.Viewer{ID: id, Role: access.RoleStudent}
}

func teacherViewer(id uint) access.Viewer {
	return access.Viewer{ID: id, Role: access.RoleTeacher}
}

func parentViewer(id uint) access.Viewer {
	return access.Viewer{ID: id, Role: access.RoleParent}
}

func adminViewer() access.Viewer {
	return access.Viewer{ID: fixtureAdminID, Role: access.RoleAdmin}
}

var errStoreDown = errors.New("store unavailable")

// failingStore breaks enrollment listing so Internal mapping can be asserted.
type failingStore struct {
	repository.Store
}

func (failingStore) ListEnrollmentsByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	return nil, errStoreDown
}

func (failingStore) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return nil, errStoreDown
}

func (failingStore) SaveEnrollmentProgress(ctx context.Context, enrollmentID uint, percentage int) error {
	return errStoreDown
}
