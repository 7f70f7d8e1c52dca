package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

// EntityStore is the read side the progress engine depends on, plus the
// optional write-through of recomputed enrollment percentages.
type EntityStore interface {
	GetStudent(ctx context.Context, id uint) (models.Student, error)
	ListStudentsByIDs(ctx context.Context, ids []uint) ([]models.Student, error)
	GetCourse(ctx context.Context, id uint) (models.Course, error)
	ListCoursesByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error)

	GetLesson(ctx context.Context, id uint) (models.Lesson, error)
	GetQuiz(ctx context.Context, id uint) (models.Quiz, error)
	GetAssignment(ctx context.Context, id uint) (models.Assignment, error)
	ListPublishedLessons(ctx context.Context, courseID uint) ([]models.Lesson, error)
	ListPublishedQuizzes(ctx context.Context, courseID uint) ([]models.Quiz, error)
	ListPublishedAssignments(ctx context.Context, courseID uint) ([]models.Assignment, error)

	GetEnrollment(ctx context.Context, studentID, courseID uint) (models.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
	ListEnrollmentsByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error)
	ListEnrollments(ctx context.Context) ([]models.Enrollment, error)
	SaveEnrollmentProgress(ctx context.Context, enrollmentID uint, percentage int) error

	ListCompletedLessonIDs(ctx context.Context, studentID, courseID uint) ([]uint, error)
	ListQuizAttempts(ctx context.Context, quizID, studentID uint) ([]models.QuizAttempt, error)
	GetSubmission(ctx context.Context, assignmentID, studentID uint) (models.Submission, error)

	ListParentChildren(ctx context.Context, parentID uint) ([]models.ParentChild, error)
	ListChildParents(ctx context.Context, childID uint) ([]models.ParentChild, error)
	GetStudyStat(ctx context.Context, studentID uint) (models.StudyStat, error)
}

// EventStore persists the learning events that change progress.
type EventStore interface {
	CreateLessonCompletion(ctx context.Context, completion *models.LessonCompletion) error
	CreateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	GetQuizAttempt(ctx context.Context, id uint) (models.QuizAttempt, error)
	UpdateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	GetSubmissionByID(ctx context.Context, id uint) (models.Submission, error)
	SaveSubmission(ctx context.Context, submission *models.Submission) error
}

// Store combines the read and write sides backed by the same database.
type Store interface {
	EntityStore
	EventStore
}

type gormStore struct {
	db *gorm.DB
}

// NewStore instantiates a GORM-backed entity store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}
