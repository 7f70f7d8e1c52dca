package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/billy93/E-Learning-sub000/internal/models"
)

// Directory is the slice of the entity store needed to resolve links between
// viewers and the students or courses they ask about.
type Directory interface {
	GetCourse(ctx context.Context, id uint) (models.Course, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
	ListParentChildren(ctx context.Context, parentID uint) ([]models.ParentChild, error)
}

// Scope decides which students and courses a viewer may see. A false result
// must be reported to the caller as not found.
type Scope struct {
	dir Directory
}

// NewScope builds a scope resolver over the directory.
func NewScope(dir Directory) Scope {
	return Scope{dir: dir}
}

// CanViewStudent reports whether the viewer may read anything about the student.
// Teachers see students enrolled in at least one of their courses.
func (s Scope) CanViewStudent(ctx context.Context, viewer Viewer, studentID uint) (bool, error) {
	switch viewer.Role {
	case RoleAdmin:
		return true, nil
	case RoleStudent:
		return viewer.ID == studentID, nil
	case RoleParent:
		return s.isParentOf(ctx, viewer.ID, studentID)
	case RoleTeacher:
		enrollments, err := s.dir.ListEnrollmentsByStudent(ctx, studentID)
		if err != nil {
			return false, err
		}
		for _, enrollment := range enrollments {
			course, err := s.dir.GetCourse(ctx, enrollment.CourseID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return false, err
			}
			if course.TaughtBy(viewer.ID) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

// CanViewEnrollment reports whether the viewer may read one student's work in a course.
func (s Scope) CanViewEnrollment(ctx context.Context, viewer Viewer, studentID uint, course models.Course) (bool, error) {
	switch viewer.Role {
	case RoleAdmin:
		return true, nil
	case RoleStudent:
		return viewer.ID == studentID, nil
	case RoleParent:
		return s.isParentOf(ctx, viewer.ID, studentID)
	case RoleTeacher:
		return course.TaughtBy(viewer.ID), nil
	default:
		return false, nil
	}
}

// ManagesCourse reports whether the viewer may read cohort-wide data for the course.
func (s Scope) ManagesCourse(viewer Viewer, course models.Course) bool {
	switch viewer.Role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		return course.TaughtBy(viewer.ID)
	default:
		return false
	}
}

// Children lists the student ids linked to a parent.
func (s Scope) Children(ctx context.Context, parentID uint) ([]uint, error) {
	links, err := s.dir.ListParentChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.ChildID)
	}
	return ids, nil
}

func (s Scope) isParentOf(ctx context.Context, parentID, studentID uint) (bool, error) {
	children, err := s.Children(ctx, parentID)
	if err != nil {
		return false, err
	}
	for _, id := range children {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}
