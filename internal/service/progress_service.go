package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/dto"
	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/internal/observability"
	"github.com/billy93/E-Learning-sub000/internal/progress"
	"github.com/billy93/E-Learning-sub000/internal/repository"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

// Recompute triggers, used as the metric label.
const (
	TriggerRead            = "read"
	TriggerLessonCompleted = "lesson_completed"
	TriggerQuizStarted     = "quiz_started"
	TriggerQuizSubmitted   = "quiz_submitted"
	TriggerAssignment      = "assignment_submitted"
	TriggerGraded          = "submission_graded"
)

// ProgressService exposes the store-backed progress read operations.
type ProgressService interface {
	ComputeEnrollmentProgress(ctx context.Context, viewer access.Viewer, studentID, courseID uint) (dto.ProgressBreakdownResponse, error)
	SubmissionStatus(ctx context.Context, viewer access.Viewer, assignmentID, studentID uint) (dto.SubmissionStatusResponse, error)
	QuizCompletion(ctx context.Context, viewer access.Viewer, quizID, studentID uint) (dto.QuizCompletionResponse, error)
	AverageScore(ctx context.Context, viewer access.Viewer, req dto.AverageScoreRequest) (dto.AverageScoreResponse, error)
	CompletionRate(ctx context.Context, viewer access.Viewer, courseID *uint) (dto.CompletionRateResponse, error)
	// Recompute refreshes one enrollment after a learning event. It performs no
	// access check; callers have already authorised the event.
	Recompute(ctx context.Context, studentID, courseID uint, trigger string) (dto.ProgressBreakdownResponse, error)
}

type progressService struct {
	store     repository.EntityStore
	loader    snapshotLoader
	scope     access.Scope
	validator *validator.Validate
	persist   bool
	logger    zerolog.Logger
	now       func() time.Time
}

// NewProgressService constructs the progress service. When persist is set,
// recomputed percentages are written back to the enrollment.
func NewProgressService(store repository.EntityStore, validate *validator.Validate, persist bool, logger zerolog.Logger) ProgressService {
	return &progressService{
		store:     store,
		loader:    snapshotLoader{store: store},
		scope:     access.NewScope(store),
		validator: validate,
		persist:   persist,
		logger:    logger.With().Str("component", "progress_service").Logger(),
		now:       time.Now,
	}
}

func (s *progressService) ComputeEnrollmentProgress(ctx context.Context, viewer access.Viewer, studentID, courseID uint) (dto.ProgressBreakdownResponse, error) {
	tracer := otel.Tracer("github.com/billy93/E-Learning-sub000/internal/service/progress")
	ctx, span := tracer.Start(ctx, "progress.enrollment")
	span.SetAttributes(
		attribute.Int64("progress.student_id", int64(studentID)),
		attribute.Int64("progress.course_id", int64(courseID)),
	)
	defer span.End()

	if studentID == 0 || courseID == 0 {
		return dto.ProgressBreakdownResponse{}, apperror.Validation("student id and course id are required")
	}

	course, err := s.loader.loadCourse(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course_lookup_failed")
		return dto.ProgressBreakdownResponse{}, err
	}
	if err := s.authorizeEnrollment(ctx, viewer, studentID, course); err != nil {
		return dto.ProgressBreakdownResponse{}, err
	}

	breakdown, err := s.recompute(ctx, studentID, course, TriggerRead)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "progress_compute_failed")
		return dto.ProgressBreakdownResponse{}, err
	}

	span.SetAttributes(attribute.Int("progress.percentage", breakdown.Percentage))
	return breakdown, nil
}

func (s *progressService) Recompute(ctx context.Context, studentID, courseID uint, trigger string) (dto.ProgressBreakdownResponse, error) {
	course, err := s.loader.loadCourse(ctx, courseID)
	if err != nil {
		return dto.ProgressBreakdownResponse{}, err
	}
	return s.recompute(ctx, studentID, course, trigger)
}

func (s *progressService) recompute(ctx context.Context, studentID uint, course models.Course, trigger string) (dto.ProgressBreakdownResponse, error) {
	enrollment, err := s.store.GetEnrollment(ctx, studentID, course.ID)
	if err != nil {
		return dto.ProgressBreakdownResponse{}, storeError(err, "enrollment")
	}

	content, err := s.loader.loadContent(ctx, course)
	if err != nil {
		return dto.ProgressBreakdownResponse{}, err
	}
	computed, err := s.loader.compute(ctx, content, studentID, s.now())
	if err != nil {
		return dto.ProgressBreakdownResponse{}, err
	}

	observability.ProgressRecomputations().WithLabelValues(trigger).Inc()
	s.writeThrough(ctx, enrollment, computed.Breakdown.Percentage)

	return dto.NewProgressBreakdownResponse(studentID, course.ID, computed.Breakdown), nil
}

// writeThrough stores the recomputed percentage when it drifted. Failures are
// logged only; the value can always be recomputed.
func (s *progressService) writeThrough(ctx context.Context, enrollment models.Enrollment, percentage int) {
	if !s.persist || enrollment.Progress == percentage {
		return
	}
	if err := s.store.SaveEnrollmentProgress(ctx, enrollment.ID, percentage); err != nil {
		s.logger.Warn().Err(err).
			Uint("enrollment_id", enrollment.ID).
			Int("percentage", percentage).
			Msg("failed to persist enrollment progress")
	}
}

func (s *progressService) SubmissionStatus(ctx context.Context, viewer access.Viewer, assignmentID, studentID uint) (dto.SubmissionStatusResponse, error) {
	if assignmentID == 0 || studentID == 0 {
		return dto.SubmissionStatusResponse{}, apperror.Validation("assignment id and student id are required")
	}

	assignment, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return dto.SubmissionStatusResponse{}, storeError(err, "assignment")
	}
	if err := progress.ValidateAssignment(assignment); err != nil {
		return dto.SubmissionStatusResponse{}, err
	}
	if err := s.authorizeContent(ctx, viewer, studentID, assignment.CourseID, assignment.IsPublished(), "assignment"); err != nil {
		return dto.SubmissionStatusResponse{}, err
	}

	submission, err := s.loader.submission(ctx, assignmentID, studentID)
	if err != nil {
		return dto.SubmissionStatusResponse{}, err
	}

	state := progress.ResolveSubmissionStatus(assignment, submission)
	return dto.NewSubmissionStatusResponse(assignmentID, studentID, state), nil
}

func (s *progressService) QuizCompletion(ctx context.Context, viewer access.Viewer, quizID, studentID uint) (dto.QuizCompletionResponse, error) {
	if quizID == 0 || studentID == 0 {
		return dto.QuizCompletionResponse{}, apperror.Validation("quiz id and student id are required")
	}

	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizCompletionResponse{}, storeError(err, "quiz")
	}
	if err := progress.ValidateQuiz(quiz); err != nil {
		return dto.QuizCompletionResponse{}, err
	}
	if err := s.authorizeContent(ctx, viewer, studentID, quiz.CourseID, quiz.IsPublished(), "quiz"); err != nil {
		return dto.QuizCompletionResponse{}, err
	}

	attempts, err := s.store.ListQuizAttempts(ctx, quizID, studentID)
	if err != nil {
		return dto.QuizCompletionResponse{}, storeError(err, "quiz attempts")
	}

	completion := progress.ResolveQuizCompletion(quiz, attempts, s.now())
	return dto.NewQuizCompletionResponse(quizID, studentID, completion), nil
}

func (s *progressService) AverageScore(ctx context.Context, viewer access.Viewer, req dto.AverageScoreRequest) (dto.AverageScoreResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AverageScoreResponse{}, apperror.FromError(err)
	}

	if _, err := s.store.GetStudent(ctx, req.StudentID); err != nil {
		return dto.AverageScoreResponse{}, storeError(err, "student")
	}

	response := dto.AverageScoreResponse{StudentID: req.StudentID, Scope: req.Scope}
	var scores []*float64

	switch req.Scope {
	case dto.AverageScopeCourse:
		course, err := s.loader.loadCourse(ctx, *req.CourseID)
		if err != nil {
			return dto.AverageScoreResponse{}, err
		}
		if err := s.authorizeEnrollment(ctx, viewer, req.StudentID, course); err != nil {
			return dto.AverageScoreResponse{}, err
		}
		if _, err := s.store.GetEnrollment(ctx, req.StudentID, course.ID); err != nil {
			return dto.AverageScoreResponse{}, storeError(err, "enrollment")
		}
		content, err := s.loader.loadContent(ctx, course)
		if err != nil {
			return dto.AverageScoreResponse{}, err
		}
		computed, err := s.loader.compute(ctx, content, req.StudentID, s.now())
		if err != nil {
			return dto.AverageScoreResponse{}, err
		}
		scores = computed.Scores
		response.CourseID = req.CourseID
	default:
		allowed, err := s.scope.CanViewStudent(ctx, viewer, req.StudentID)
		if err != nil {
			return dto.AverageScoreResponse{}, storeError(err, "student")
		}
		if !allowed {
			return dto.AverageScoreResponse{}, notFound("student")
		}
		enrollments, err := s.store.ListEnrollmentsByStudent(ctx, req.StudentID)
		if err != nil {
			return dto.AverageScoreResponse{}, storeError(err, "enrollments")
		}
		results, err := s.loader.computeEnrollments(ctx, enrollments, s.now())
		if err != nil {
			return dto.AverageScoreResponse{}, err
		}
		courses := make([]progress.CourseProgress, 0, len(results))
		for _, result := range results {
			courses = append(courses, result.Progress)
		}
		scores = progress.FlattenScores(courses...)
	}

	response.AverageScore = progress.AverageScore(scores)
	response.GradedItems = progress.CountGraded(scores)
	return response, nil
}

func (s *progressService) CompletionRate(ctx context.Context, viewer access.Viewer, courseID *uint) (dto.CompletionRateResponse, error) {
	var (
		enrollments []models.Enrollment
		err         error
		response    dto.CompletionRateResponse
	)

	if courseID == nil {
		if viewer.Role != access.RoleAdmin {
			return dto.CompletionRateResponse{}, apperror.Clone(apperror.ErrForbidden, "platform completion rate is restricted to admins")
		}
		response.Scope = "platform"
		enrollments, err = s.store.ListEnrollments(ctx)
	} else {
		course, loadErr := s.loader.loadCourse(ctx, *courseID)
		if loadErr != nil {
			return dto.CompletionRateResponse{}, loadErr
		}
		if !s.scope.ManagesCourse(viewer, course) {
			return dto.CompletionRateResponse{}, notFound("course")
		}
		response.Scope = "course"
		response.CourseID = courseID
		enrollments, err = s.store.ListEnrollmentsByCourse(ctx, course.ID)
	}
	if err != nil {
		return dto.CompletionRateResponse{}, storeError(err, "enrollments")
	}

	results, err := s.loader.computeEnrollments(ctx, enrollments, s.now())
	if err != nil {
		return dto.CompletionRateResponse{}, err
	}

	percentages := make([]int, 0, len(results))
	for _, result := range results {
		percentages = append(percentages, result.Progress.Breakdown.Percentage)
		if result.Progress.Breakdown.Percentage >= 100 {
			response.CompletedEnrollments++
		}
	}
	response.TotalEnrollments = len(percentages)
	response.CompletionRate = progress.CompletionRate(percentages)
	return response, nil
}

func (s *progressService) authorizeEnrollment(ctx context.Context, viewer access.Viewer, studentID uint, course models.Course) error {
	allowed, err := s.scope.CanViewEnrollment(ctx, viewer, studentID, course)
	if err != nil {
		return storeError(err, "enrollment")
	}
	if !allowed {
		return notFound("enrollment")
	}
	return nil
}

// authorizeContent checks the viewer may see the student's work on one item
// of a course. Students and parents never see unpublished items.
func (s *progressService) authorizeContent(ctx context.Context, viewer access.Viewer, studentID, courseID uint, published bool, resource string) error {
	if !published && (viewer.Role == access.RoleStudent || viewer.Role == access.RoleParent) {
		return notFound(resource)
	}
	course, err := s.loader.loadCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if err := s.authorizeEnrollment(ctx, viewer, studentID, course); err != nil {
		return err
	}
	if _, err := s.store.GetEnrollment(ctx, studentID, courseID); err != nil {
		return storeError(err, "enrollment")
	}
	return nil
}
