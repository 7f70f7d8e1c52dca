package dto

import "time"

// CourseSummary is one enrolled course inside a student overview.
type CourseSummary struct {
	CourseID         uint                      `json:"course_id"`
	Title            string                    `json:"title"`
	Subject          string                    `json:"subject"`
	EnrollmentStatus string                    `json:"enrollment_status"`
	Progress         ProgressBreakdownResponse `json:"progress"`
	AverageScore     int                       `json:"average_score"`
	GradedItems      int                       `json:"graded_items"`
}

// StudentOverviewResponse is the student self-view, reused per child for parents.
type StudentOverviewResponse struct {
	StudentID         uint            `json:"student_id"`
	Name              string          `json:"name"`
	Courses           []CourseSummary `json:"courses"`
	OverallAverage    int             `json:"overall_average"`
	StreakDays        int             `json:"streak_days"`
	TotalStudySeconds int64           `json:"total_study_seconds"`
}

// ParentOverviewResponse lists the overview of every linked child.
type ParentOverviewResponse struct {
	ParentID uint                      `json:"parent_id"`
	Children []StudentOverviewResponse `json:"children"`
}

// CohortStudentRow is one enrolled student in a cohort report.
type CohortStudentRow struct {
	StudentID        uint   `json:"student_id"`
	Name             string `json:"name"`
	EnrollmentStatus string `json:"enrollment_status"`
	Percentage       int    `json:"percentage"`
	AverageScore     int    `json:"average_score"`
}

// AssignmentStatusRow is one student's status for a cohort assignment.
type AssignmentStatusRow struct {
	StudentID   uint       `json:"student_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Score       *float64   `json:"score"`
	SubmittedAt *time.Time `json:"submitted_at"`
	IsLate      bool       `json:"is_late"`
}

// CohortAssignment groups per-student statuses for one assignment.
type CohortAssignment struct {
	AssignmentID   uint                  `json:"assignment_id"`
	Title          string                `json:"title"`
	DueAt          *time.Time            `json:"due_at"`
	TotalPoints    float64               `json:"total_points"`
	PendingGrading int                   `json:"pending_grading"`
	Statuses       []AssignmentStatusRow `json:"statuses"`
}

// QuizStatusRow is one student's completion for a cohort quiz.
type QuizStatusRow struct {
	StudentID      uint     `json:"student_id"`
	Name           string   `json:"name"`
	Completed      bool     `json:"completed"`
	Score          *float64 `json:"score"`
	AttemptCount   int      `json:"attempt_count"`
	ForfeitedCount int      `json:"forfeited_count"`
}

// CohortQuiz groups per-student completions for one quiz.
type CohortQuiz struct {
	QuizID      uint            `json:"quiz_id"`
	Title       string          `json:"title"`
	TotalPoints float64         `json:"total_points"`
	Statuses    []QuizStatusRow `json:"statuses"`
}

// CohortReportResponse is the teacher view of one course.
type CohortReportResponse struct {
	CourseID        uint               `json:"course_id"`
	Title           string             `json:"title"`
	Enrolled        int                `json:"enrolled"`
	AverageProgress int                `json:"average_progress"`
	CompletionRate  int                `json:"completion_rate"`
	AverageScore    int                `json:"average_score"`
	PendingGrading  int                `json:"pending_grading"`
	Students        []CohortStudentRow `json:"students"`
	Assignments     []CohortAssignment `json:"assignments"`
	Quizzes         []CohortQuiz       `json:"quizzes"`
}

// LeaderboardEntry is one ranked student on the admin leaderboard.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	StudentID    uint   `json:"student_id"`
	Name         string `json:"name"`
	AverageScore int    `json:"average_score"`
	GradedItems  int    `json:"graded_items"`
}

// AdminOverviewResponse is the platform-wide admin view.
type AdminOverviewResponse struct {
	TotalEnrollments     int                `json:"total_enrollments"`
	CompletedEnrollments int                `json:"completed_enrollments"`
	CompletionRate       int                `json:"completion_rate"`
	AverageProgress      int                `json:"average_progress"`
	Leaderboard          []LeaderboardEntry `json:"leaderboard"`
}
