package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

func (r *gormStore) ListCompletedLessonIDs(ctx context.Context, studentID, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.LessonCompletion{}).
		Where("student_id = ?", studentID).
		Where("course_id = ?", courseID).
		Order("lesson_id ASC").
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *gormStore) ListQuizAttempts(ctx context.Context, quizID, studentID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Where("student_id = ?", studentID).
		Order("started_at ASC, id ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *gormStore) GetSubmission(ctx context.Context, assignmentID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("student_id = ?", studentID).
		First(&submission).Error
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// CreateLessonCompletion is idempotent: marking a lesson twice keeps the first row.
func (r *gormStore) CreateLessonCompletion(ctx context.Context, completion *models.LessonCompletion) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(completion).Error
}

func (r *gormStore) CreateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *gormStore) GetQuizAttempt(ctx context.Context, id uint) (models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return models.QuizAttempt{}, err
	}

	return attempt, nil
}

func (r *gormStore) UpdateQuizAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Save(attempt).Error
}

func (r *gormStore) GetSubmissionByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Preload("Assignment").First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *gormStore) SaveSubmission(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(submission).Error
}
