package models

import "time"

// Student represents a learner that can enroll in courses.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParentChild links a parent account to a student. Used for access control only.
type ParentChild struct {
	ParentID  uint      `gorm:"primaryKey;autoIncrement:false" json:"parent_id"`
	ChildID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"child_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StudyStat carries the streak and study time tracked by the client apps.
type StudyStat struct {
	StudentID         uint      `gorm:"primaryKey;autoIncrement:false" json:"student_id"`
	StreakDays        int       `gorm:"not null;default:0" json:"streak_days"`
	TotalStudySeconds int64     `gorm:"not null;default:0" json:"total_study_seconds"`
	UpdatedAt         time.Time `json:"updated_at"`
}
