package repository

import (
	"context"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

func (r *gormStore) GetStudent(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *gormStore) ListStudentsByIDs(ctx context.Context, ids []uint) ([]models.Student, error) {
	if len(ids) == 0 {
		return []models.Student{}, nil
	}

	var students []models.Student
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *gormStore) GetCourse(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *gormStore) ListCoursesByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *gormStore) GetLesson(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return models.Lesson{}, err
	}

	return lesson, nil
}

func (r *gormStore) GetQuiz(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *gormStore) GetAssignment(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *gormStore) ListPublishedLessons(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("visibility = ?", models.VisibilityPublished).
		Order("sort_order ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}

	return lessons, nil
}

func (r *gormStore) ListPublishedQuizzes(ctx context.Context, courseID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("visibility = ?", models.VisibilityPublished).
		Order("id ASC").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *gormStore) ListPublishedAssignments(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("visibility = ?", models.VisibilityPublished).
		Order("due_at ASC, id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *gormStore) ListParentChildren(ctx context.Context, parentID uint) ([]models.ParentChild, error) {
	var links []models.ParentChild
	if err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("child_id ASC").Find(&links).Error; err != nil {
		return nil, err
	}

	return links, nil
}

func (r *gormStore) ListChildParents(ctx context.Context, childID uint) ([]models.ParentChild, error) {
	var links []models.ParentChild
	if err := r.db.WithContext(ctx).Where("child_id = ?", childID).Find(&links).Error; err != nil {
		return nil, err
	}

	return links, nil
}

func (r *gormStore) GetStudyStat(ctx context.Context, studentID uint) (models.StudyStat, error) {
	var stat models.StudyStat
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&stat).Error; err != nil {
		return models.StudyStat{}, err
	}

	return stat, nil
}
