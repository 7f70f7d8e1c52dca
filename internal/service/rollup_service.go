package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/dto"
	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/internal/observability"
	"github.com/billy93/E-Learning-sub000/internal/progress"
	"github.com/billy93/E-Learning-sub000/internal/repository"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

const maxLeaderboardSize = 100

// RollupService produces the role-specific dashboard views.
type RollupService interface {
	StudentOverview(ctx context.Context, viewer access.Viewer, studentID uint) (dto.StudentOverviewResponse, bool, error)
	ParentOverview(ctx context.Context, viewer access.Viewer, parentID uint) (dto.ParentOverviewResponse, bool, error)
	CohortReport(ctx context.Context, viewer access.Viewer, courseID uint) (dto.CohortReportResponse, error)
	AdminOverview(ctx context.Context, viewer access.Viewer, limit int) (dto.AdminOverviewResponse, error)
	// Invalidate drops the cached views that include the student.
	Invalidate(ctx context.Context, studentID uint) error
}

type rollupService struct {
	store           repository.EntityStore
	loader          snapshotLoader
	scope           access.Scope
	cache           *redis.Client
	cacheTTL        time.Duration
	leaderboardSize int
	logger          zerolog.Logger
	now             func() time.Time
}

// NewRollupService builds the rollup reporter. A nil cache disables caching.
func NewRollupService(store repository.EntityStore, cache *redis.Client, ttl time.Duration, leaderboardSize int, logger zerolog.Logger) RollupService {
	if leaderboardSize <= 0 {
		leaderboardSize = 10
	}
	return &rollupService{
		store:           store,
		loader:          snapshotLoader{store: store},
		scope:           access.NewScope(store),
		cache:           cache,
		cacheTTL:        ttl,
		leaderboardSize: leaderboardSize,
		logger:          logger.With().Str("component", "rollup_service").Logger(),
		now:             time.Now,
	}
}

func studentCacheKey(studentID uint) string {
	return fmt.Sprintf("rollup:student:%d", studentID)
}

func parentCacheKey(parentID uint) string {
	return fmt.Sprintf("rollup:parent:%d", parentID)
}

func (s *rollupService) tracer() trace.Tracer {
	return otel.Tracer("github.com/billy93/E-Learning-sub000/internal/service/rollup")
}

func (s *rollupService) StudentOverview(ctx context.Context, viewer access.Viewer, studentID uint) (dto.StudentOverviewResponse, bool, error) {
	ctx, span := s.tracer().Start(ctx, "rollup.student")
	span.SetAttributes(
		attribute.Int64("rollup.student_id", int64(studentID)),
		attribute.String("rollup.viewer_role", viewer.Role.String()),
	)
	defer span.End()

	allowed, err := s.scope.CanViewStudent(ctx, viewer, studentID)
	if err != nil {
		return s.failStudent(span, storeError(err, "student"))
	}
	if !allowed {
		return s.failStudent(span, notFound("student"))
	}

	var response dto.StudentOverviewResponse
	key := studentCacheKey(studentID)
	if s.readCache(ctx, "student", key, &response) {
		span.SetAttributes(attribute.Bool("rollup.cache_hit", true))
		return response, true, nil
	}

	response, err = s.buildStudentOverview(ctx, studentID)
	if err != nil {
		return s.failStudent(span, err)
	}

	s.writeCache(ctx, key, response)
	return response, false, nil
}

func (s *rollupService) failStudent(span trace.Span, err error) (dto.StudentOverviewResponse, bool, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "student_rollup_failed")
	return dto.StudentOverviewResponse{}, false, err
}

func (s *rollupService) buildStudentOverview(ctx context.Context, studentID uint) (dto.StudentOverviewResponse, error) {
	student, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return dto.StudentOverviewResponse{}, storeError(err, "student")
	}

	enrollments, err := s.store.ListEnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentOverviewResponse{}, storeError(err, "enrollments")
	}

	results, err := s.loader.computeEnrollments(ctx, enrollments, s.now())
	if err != nil {
		return dto.StudentOverviewResponse{}, err
	}

	response := dto.StudentOverviewResponse{
		StudentID: student.ID,
		Name:      student.Name,
		Courses:   make([]dto.CourseSummary, 0, len(results)),
	}

	courses := make([]progress.CourseProgress, 0, len(results))
	for _, result := range results {
		courses = append(courses, result.Progress)
		response.Courses = append(response.Courses, dto.CourseSummary{
			CourseID:         result.Content.Course.ID,
			Title:            result.Content.Course.Title,
			Subject:          result.Content.Course.Subject,
			EnrollmentStatus: string(result.Enrollment.Status),
			Progress:         dto.NewProgressBreakdownResponse(studentID, result.Content.Course.ID, result.Progress.Breakdown),
			AverageScore:     result.Progress.Average(),
			GradedItems:      progress.CountGraded(result.Progress.Scores),
		})
	}
	response.OverallAverage = progress.AverageScore(progress.FlattenScores(courses...))

	stat, err := s.store.GetStudyStat(ctx, studentID)
	switch {
	case err == nil:
		response.StreakDays = stat.StreakDays
		response.TotalStudySeconds = stat.TotalStudySeconds
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return dto.StudentOverviewResponse{}, storeError(err, "study stats")
	}

	return response, nil
}

func (s *rollupService) ParentOverview(ctx context.Context, viewer access.Viewer, parentID uint) (dto.ParentOverviewResponse, bool, error) {
	ctx, span := s.tracer().Start(ctx, "rollup.parent")
	span.SetAttributes(attribute.Int64("rollup.parent_id", int64(parentID)))
	defer span.End()

	fail := func(err error) (dto.ParentOverviewResponse, bool, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parent_rollup_failed")
		return dto.ParentOverviewResponse{}, false, err
	}

	if viewer.Role != access.RoleAdmin && (viewer.Role != access.RoleParent || viewer.ID != parentID) {
		return fail(notFound("parent"))
	}

	var response dto.ParentOverviewResponse
	key := parentCacheKey(parentID)
	if s.readCache(ctx, "parent", key, &response) {
		span.SetAttributes(attribute.Bool("rollup.cache_hit", true))
		return response, true, nil
	}

	children, err := s.scope.Children(ctx, parentID)
	if err != nil {
		return fail(storeError(err, "children"))
	}

	response = dto.ParentOverviewResponse{
		ParentID: parentID,
		Children: make([]dto.StudentOverviewResponse, 0, len(children)),
	}
	for _, childID := range children {
		overview, err := s.buildStudentOverview(ctx, childID)
		if err != nil {
			return fail(err)
		}
		response.Children = append(response.Children, overview)
	}

	s.writeCache(ctx, key, response)
	return response, false, nil
}

func (s *rollupService) CohortReport(ctx context.Context, viewer access.Viewer, courseID uint) (dto.CohortReportResponse, error) {
	ctx, span := s.tracer().Start(ctx, "rollup.cohort")
	span.SetAttributes(attribute.Int64("rollup.course_id", int64(courseID)))
	defer span.End()

	fail := func(err error) (dto.CohortReportResponse, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cohort_rollup_failed")
		return dto.CohortReportResponse{}, err
	}

	course, err := s.loader.loadCourse(ctx, courseID)
	if err != nil {
		return fail(err)
	}
	if !s.scope.ManagesCourse(viewer, course) {
		return fail(notFound("course"))
	}

	content, err := s.loader.loadContent(ctx, course)
	if err != nil {
		return fail(err)
	}
	enrollments, err := s.store.ListEnrollmentsByCourse(ctx, course.ID)
	if err != nil {
		return fail(storeError(err, "enrollments"))
	}
	names, err := s.studentNames(ctx, enrollments)
	if err != nil {
		return fail(err)
	}

	now := s.now()
	report := dto.CohortReportResponse{
		CourseID: course.ID,
		Title:    course.Title,
		Enrolled: len(enrollments),
		Students: make([]dto.CohortStudentRow, 0, len(enrollments)),
	}

	assignmentRows := make(map[uint][]dto.AssignmentStatusRow, len(content.Assignments))
	quizRows := make(map[uint][]dto.QuizStatusRow, len(content.Quizzes))
	pending := make(map[uint]int, len(content.Assignments))
	percentages := make([]int, 0, len(enrollments))
	computed := make([]progress.CourseProgress, 0, len(enrollments))

	for _, enrollment := range enrollments {
		result, err := s.loader.compute(ctx, content, enrollment.StudentID, now)
		if err != nil {
			return fail(err)
		}
		name := names[enrollment.StudentID]
		computed = append(computed, result)
		percentages = append(percentages, result.Breakdown.Percentage)

		report.Students = append(report.Students, dto.CohortStudentRow{
			StudentID:        enrollment.StudentID,
			Name:             name,
			EnrollmentStatus: string(enrollment.Status),
			Percentage:       result.Breakdown.Percentage,
			AverageScore:     result.Average(),
		})

		for _, item := range result.Assignments {
			assignmentRows[item.AssignmentID] = append(assignmentRows[item.AssignmentID], dto.AssignmentStatusRow{
				StudentID:   enrollment.StudentID,
				Name:        name,
				Status:      string(item.State.Status),
				Score:       item.State.Score,
				SubmittedAt: item.State.SubmittedAt,
				IsLate:      item.State.IsLate,
			})
			if item.State.AwaitingGrade() {
				pending[item.AssignmentID]++
			}
		}
		for _, item := range result.Quizzes {
			quizRows[item.QuizID] = append(quizRows[item.QuizID], dto.QuizStatusRow{
				StudentID:      enrollment.StudentID,
				Name:           name,
				Completed:      item.Completion.Completed,
				Score:          item.Completion.Score,
				AttemptCount:   item.Completion.AttemptCount,
				ForfeitedCount: item.Completion.ForfeitedCount,
			})
		}
	}

	report.Assignments = make([]dto.CohortAssignment, 0, len(content.Assignments))
	for _, assignment := range content.Assignments {
		report.Assignments = append(report.Assignments, dto.CohortAssignment{
			AssignmentID:   assignment.ID,
			Title:          assignment.Title,
			DueAt:          assignment.DueAt,
			TotalPoints:    assignment.TotalPoints,
			PendingGrading: pending[assignment.ID],
			Statuses:       nonNilAssignmentRows(assignmentRows[assignment.ID]),
		})
		report.PendingGrading += pending[assignment.ID]
	}

	report.Quizzes = make([]dto.CohortQuiz, 0, len(content.Quizzes))
	for _, quiz := range content.Quizzes {
		rows := quizRows[quiz.ID]
		if rows == nil {
			rows = []dto.QuizStatusRow{}
		}
		report.Quizzes = append(report.Quizzes, dto.CohortQuiz{
			QuizID:      quiz.ID,
			Title:       quiz.Title,
			TotalPoints: quiz.TotalPoints,
			Statuses:    rows,
		})
	}

	report.AverageProgress = progress.MeanPercentage(percentages)
	report.CompletionRate = progress.CompletionRate(percentages)
	report.AverageScore = progress.AverageScore(progress.FlattenScores(computed...))

	span.SetAttributes(
		attribute.Int("rollup.enrolled", report.Enrolled),
		attribute.Int("rollup.pending_grading", report.PendingGrading),
	)
	return report, nil
}

func nonNilAssignmentRows(rows []dto.AssignmentStatusRow) []dto.AssignmentStatusRow {
	if rows == nil {
		return []dto.AssignmentStatusRow{}
	}
	return rows
}

func (s *rollupService) AdminOverview(ctx context.Context, viewer access.Viewer, limit int) (dto.AdminOverviewResponse, error) {
	ctx, span := s.tracer().Start(ctx, "rollup.admin")
	defer span.End()

	fail := func(err error) (dto.AdminOverviewResponse, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "admin_rollup_failed")
		return dto.AdminOverviewResponse{}, err
	}

	if viewer.Role != access.RoleAdmin {
		return fail(apperror.Clone(apperror.ErrForbidden, "admin overview is restricted to admins"))
	}
	if limit <= 0 {
		limit = s.leaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	enrollments, err := s.store.ListEnrollments(ctx)
	if err != nil {
		return fail(storeError(err, "enrollments"))
	}
	results, err := s.loader.computeEnrollments(ctx, enrollments, s.now())
	if err != nil {
		return fail(err)
	}

	percentages := make([]int, 0, len(results))
	scoresByStudent := make(map[uint][]progress.CourseProgress)
	studentOrder := make([]uint, 0)
	response := dto.AdminOverviewResponse{TotalEnrollments: len(results)}

	for _, result := range results {
		percentage := result.Progress.Breakdown.Percentage
		percentages = append(percentages, percentage)
		if percentage >= 100 {
			response.CompletedEnrollments++
		}
		studentID := result.Enrollment.StudentID
		if _, seen := scoresByStudent[studentID]; !seen {
			studentOrder = append(studentOrder, studentID)
		}
		scoresByStudent[studentID] = append(scoresByStudent[studentID], result.Progress)
	}

	response.CompletionRate = progress.CompletionRate(percentages)
	response.AverageProgress = progress.MeanPercentage(percentages)

	students, err := s.store.ListStudentsByIDs(ctx, studentOrder)
	if err != nil {
		return fail(storeError(err, "students"))
	}
	names := make(map[uint]string, len(students))
	for _, student := range students {
		names[student.ID] = student.Name
	}

	standings := make([]progress.Standing, 0, len(studentOrder))
	for _, studentID := range studentOrder {
		scores := progress.FlattenScores(scoresByStudent[studentID]...)
		standings = append(standings, progress.Standing{
			StudentID:   studentID,
			Name:        names[studentID],
			Average:     progress.AverageScore(scores),
			GradedItems: progress.CountGraded(scores),
		})
	}

	ranked := progress.RankStandings(standings, limit)
	response.Leaderboard = make([]dto.LeaderboardEntry, 0, len(ranked))
	for i, standing := range ranked {
		response.Leaderboard = append(response.Leaderboard, dto.LeaderboardEntry{
			Rank:         i + 1,
			StudentID:    standing.StudentID,
			Name:         standing.Name,
			AverageScore: standing.Average,
			GradedItems:  standing.GradedItems,
		})
	}

	span.SetAttributes(
		attribute.Int("rollup.enrollments", response.TotalEnrollments),
		attribute.Int("rollup.completion_rate", response.CompletionRate),
	)
	return response, nil
}

func (s *rollupService) Invalidate(ctx context.Context, studentID uint) error {
	if s.cache == nil {
		return nil
	}

	keys := []string{studentCacheKey(studentID)}
	parents, err := s.store.ListChildParents(ctx, studentID)
	if err != nil {
		return storeError(err, "parents")
	}
	for _, link := range parents {
		keys = append(keys, parentCacheKey(link.ParentID))
	}

	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		return apperror.Internal(err, "failed to invalidate rollup cache")
	}
	return nil
}

func (s *rollupService) studentNames(ctx context.Context, enrollments []models.Enrollment) (map[uint]string, error) {
	ids := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		ids = append(ids, enrollment.StudentID)
	}
	students, err := s.store.ListStudentsByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "students")
	}
	names := make(map[uint]string, len(students))
	for _, student := range students {
		names[student.ID] = student.Name
	}
	return names, nil
}

func (s *rollupService) readCache(ctx context.Context, view, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read rollup cache")
		}
		observability.RollupCache().WithLabelValues(view, "miss").Inc()
		return false
	}
	if err := json.Unmarshal([]byte(cached), target); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed rollup cache entry")
		observability.RollupCache().WithLabelValues(view, "miss").Inc()
		return false
	}

	observability.RollupCache().WithLabelValues(view, "hit").Inc()
	return true
}

func (s *rollupService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to encode rollup cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store rollup cache")
	}
}
