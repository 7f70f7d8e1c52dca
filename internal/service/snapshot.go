package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/internal/progress"
	"github.com/billy93/E-Learning-sub000/internal/repository"
)

// courseContent is the published content of one course, loaded once and
// reused for every enrolled student.
type courseContent struct {
	Course      models.Course
	Lessons     []models.Lesson
	Quizzes     []models.Quiz
	Assignments []models.Assignment
}

// snapshotLoader reads consistent per-enrollment inputs for the progress engine.
type snapshotLoader struct {
	store repository.EntityStore
}

func (l snapshotLoader) loadCourse(ctx context.Context, courseID uint) (models.Course, error) {
	course, err := l.store.GetCourse(ctx, courseID)
	if err != nil {
		return models.Course{}, storeError(err, "course")
	}
	return course, nil
}

func (l snapshotLoader) loadContent(ctx context.Context, course models.Course) (courseContent, error) {
	content := courseContent{Course: course}

	lessons, err := l.store.ListPublishedLessons(ctx, course.ID)
	if err != nil {
		return courseContent{}, storeError(err, "lessons")
	}
	quizzes, err := l.store.ListPublishedQuizzes(ctx, course.ID)
	if err != nil {
		return courseContent{}, storeError(err, "quizzes")
	}
	assignments, err := l.store.ListPublishedAssignments(ctx, course.ID)
	if err != nil {
		return courseContent{}, storeError(err, "assignments")
	}

	content.Lessons = lessons
	content.Quizzes = quizzes
	content.Assignments = assignments
	return content, nil
}

func (l snapshotLoader) snapshot(ctx context.Context, content courseContent, studentID uint, now time.Time) (progress.CourseSnapshot, error) {
	snapshot := progress.CourseSnapshot{
		CourseID:  content.Course.ID,
		StudentID: studentID,
		Lessons:   content.Lessons,
		Now:       now,
	}

	completed, err := l.store.ListCompletedLessonIDs(ctx, studentID, content.Course.ID)
	if err != nil {
		return progress.CourseSnapshot{}, storeError(err, "lesson completions")
	}
	snapshot.CompletedLessonIDs = completed

	for _, quiz := range content.Quizzes {
		attempts, err := l.store.ListQuizAttempts(ctx, quiz.ID, studentID)
		if err != nil {
			return progress.CourseSnapshot{}, storeError(err, "quiz attempts")
		}
		snapshot.Quizzes = append(snapshot.Quizzes, progress.QuizActivity{Quiz: quiz, Attempts: attempts})
	}

	for _, assignment := range content.Assignments {
		submission, err := l.submission(ctx, assignment.ID, studentID)
		if err != nil {
			return progress.CourseSnapshot{}, err
		}
		snapshot.Assignments = append(snapshot.Assignments, progress.AssignmentActivity{Assignment: assignment, Submission: submission})
	}

	return snapshot, nil
}

// submission returns nil when the student never submitted.
func (l snapshotLoader) submission(ctx context.Context, assignmentID, studentID uint) (*models.Submission, error) {
	submission, err := l.store.GetSubmission(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError(err, "submission")
	}
	return &submission, nil
}

func (l snapshotLoader) compute(ctx context.Context, content courseContent, studentID uint, now time.Time) (progress.CourseProgress, error) {
	snapshot, err := l.snapshot(ctx, content, studentID, now)
	if err != nil {
		return progress.CourseProgress{}, err
	}
	return progress.ComputeEnrollmentProgress(snapshot)
}

// enrollmentResult is one computed enrollment.
type enrollmentResult struct {
	Enrollment models.Enrollment
	Content    courseContent
	Progress   progress.CourseProgress
}

// computeEnrollments computes every enrollment, loading each course's content once.
func (l snapshotLoader) computeEnrollments(ctx context.Context, enrollments []models.Enrollment, now time.Time) ([]enrollmentResult, error) {
	contents := make(map[uint]courseContent)
	results := make([]enrollmentResult, 0, len(enrollments))

	for _, enrollment := range enrollments {
		content, ok := contents[enrollment.CourseID]
		if !ok {
			course, err := l.loadCourse(ctx, enrollment.CourseID)
			if err != nil {
				return nil, err
			}
			content, err = l.loadContent(ctx, course)
			if err != nil {
				return nil, err
			}
			contents[enrollment.CourseID] = content
		}

		computed, err := l.compute(ctx, content, enrollment.StudentID, now)
		if err != nil {
			return nil, err
		}
		results = append(results, enrollmentResult{Enrollment: enrollment, Content: content, Progress: computed})
	}

	return results, nil
}
