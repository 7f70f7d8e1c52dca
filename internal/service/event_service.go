package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/dto"
	"github.com/billy93/E-Learning-sub000/internal/models"
	"github.com/billy93/E-Learning-sub000/internal/progress"
	"github.com/billy93/E-Learning-sub000/internal/repository"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

// EventService records learning events and refreshes the affected enrollment.
type EventService interface {
	MarkLessonComplete(ctx context.Context, viewer access.Viewer, lessonID uint) (dto.LessonCompletionResponse, error)
	StartQuizAttempt(ctx context.Context, viewer access.Viewer, quizID uint) (dto.QuizAttemptResponse, error)
	SubmitQuizAttempt(ctx context.Context, viewer access.Viewer, attemptID uint, payload dto.SubmitQuizAttemptRequest) (dto.QuizAttemptResponse, error)
	SubmitAssignment(ctx context.Context, viewer access.Viewer, assignmentID uint) (dto.SubmissionResponse, error)
	GradeSubmission(ctx context.Context, viewer access.Viewer, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

// EventDependencies groups the collaborators notified after each event.
type EventDependencies struct {
	Progress  ProgressService
	Rollups   RollupService
	Publisher ProgressPublisher
	Activity  ActivityRecorder
}

type eventService struct {
	store     repository.Store
	deps      EventDependencies
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService constructs the learning event service.
func NewEventService(store repository.Store, deps EventDependencies, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		store:     store,
		deps:      deps,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "event_service").Logger(),
		now:       time.Now,
	}
}

func (s *eventService) tracer() trace.Tracer {
	return otel.Tracer("github.com/billy93/E-Learning-sub000/internal/service/events")
}

func (s *eventService) MarkLessonComplete(ctx context.Context, viewer access.Viewer, lessonID uint) (dto.LessonCompletionResponse, error) {
	ctx, span := s.tracer().Start(ctx, "events.lesson_complete")
	span.SetAttributes(
		attribute.Int64("events.lesson_id", int64(lessonID)),
		attribute.Int64("events.student_id", int64(viewer.ID)),
	)
	defer span.End()

	if err := requireStudent(viewer); err != nil {
		return dto.LessonCompletionResponse{}, recordSpanError(span, err, "forbidden")
	}

	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return dto.LessonCompletionResponse{}, recordSpanError(span, storeError(err, "lesson"), "lesson_lookup_failed")
	}
	if !lesson.IsPublished() {
		return dto.LessonCompletionResponse{}, recordSpanError(span, notFound("lesson"), "lesson_unpublished")
	}
	if err := s.requireEnrollment(ctx, viewer.ID, lesson.CourseID); err != nil {
		return dto.LessonCompletionResponse{}, recordSpanError(span, err, "not_enrolled")
	}

	completion := models.LessonCompletion{
		StudentID:   viewer.ID,
		LessonID:    lesson.ID,
		CourseID:    lesson.CourseID,
		CompletedAt: s.now(),
	}
	if err := s.store.CreateLessonCompletion(ctx, &completion); err != nil {
		return dto.LessonCompletionResponse{}, recordSpanError(span, apperror.Internal(err, "failed to record lesson completion"), "completion_failed")
	}

	response := dto.LessonCompletionResponse{
		LessonID:    lesson.ID,
		CourseID:    lesson.CourseID,
		StudentID:   viewer.ID,
		CompletedAt: completion.CompletedAt,
	}
	response.Progress = s.afterEvent(ctx, viewer.ID, lesson.CourseID, TriggerLessonCompleted)
	return response, nil
}

func (s *eventService) StartQuizAttempt(ctx context.Context, viewer access.Viewer, quizID uint) (dto.QuizAttemptResponse, error) {
	ctx, span := s.tracer().Start(ctx, "events.quiz_start")
	span.SetAttributes(attribute.Int64("events.quiz_id", int64(quizID)))
	defer span.End()

	if err := requireStudent(viewer); err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, err, "forbidden")
	}

	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, storeError(err, "quiz"), "quiz_lookup_failed")
	}
	if !quiz.IsPublished() {
		return dto.QuizAttemptResponse{}, recordSpanError(span, notFound("quiz"), "quiz_unpublished")
	}
	if err := s.requireEnrollment(ctx, viewer.ID, quiz.CourseID); err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, err, "not_enrolled")
	}

	attempt := models.QuizAttempt{
		QuizID:    quiz.ID,
		StudentID: viewer.ID,
		StartedAt: s.now(),
	}
	if err := s.store.CreateQuizAttempt(ctx, &attempt); err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, apperror.Internal(err, "failed to start quiz attempt"), "attempt_create_failed")
	}

	response := dto.NewQuizAttemptResponse(attempt, false)
	response.Progress = s.afterEvent(ctx, viewer.ID, quiz.CourseID, TriggerQuizStarted)
	return response, nil
}

func (s *eventService) SubmitQuizAttempt(ctx context.Context, viewer access.Viewer, attemptID uint, payload dto.SubmitQuizAttemptRequest) (dto.QuizAttemptResponse, error) {
	ctx, span := s.tracer().Start(ctx, "events.quiz_submit")
	span.SetAttributes(attribute.Int64("events.attempt_id", int64(attemptID)))
	defer span.End()

	if err := requireStudent(viewer); err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, err, "forbidden")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, apperror.FromError(err), "validation_failed")
	}

	attempt, err := s.store.GetQuizAttempt(ctx, attemptID)
	if err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, storeError(err, "quiz attempt"), "attempt_lookup_failed")
	}
	if attempt.StudentID != viewer.ID {
		return dto.QuizAttemptResponse{}, recordSpanError(span, notFound("quiz attempt"), "attempt_not_owned")
	}
	if attempt.IsSubmitted() {
		return dto.QuizAttemptResponse{}, recordSpanError(span, apperror.Validation("quiz attempt already submitted"), "attempt_already_submitted")
	}

	quiz, err := s.store.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, storeError(err, "quiz"), "quiz_lookup_failed")
	}
	if err := progress.ValidateScore(*payload.Score, quiz.TotalPoints); err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, err, "score_out_of_range")
	}

	submittedAt := s.now()
	score := *payload.Score
	attempt.SubmittedAt = &submittedAt
	attempt.Score = &score
	if err := s.store.UpdateQuizAttempt(ctx, &attempt); err != nil {
		return dto.QuizAttemptResponse{}, recordSpanError(span, apperror.Internal(err, "failed to submit quiz attempt"), "attempt_update_failed")
	}

	forfeited := progress.IsForfeited(quiz, attempt, submittedAt)
	span.SetAttributes(attribute.Bool("events.forfeited", forfeited))

	response := dto.NewQuizAttemptResponse(attempt, forfeited)
	response.Progress = s.afterEvent(ctx, viewer.ID, quiz.CourseID, TriggerQuizSubmitted)
	return response, nil
}

func (s *eventService) SubmitAssignment(ctx context.Context, viewer access.Viewer, assignmentID uint) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer().Start(ctx, "events.assignment_submit")
	span.SetAttributes(attribute.Int64("events.assignment_id", int64(assignmentID)))
	defer span.End()

	if err := requireStudent(viewer); err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, err, "forbidden")
	}

	assignment, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, storeError(err, "assignment"), "assignment_lookup_failed")
	}
	if !assignment.IsPublished() {
		return dto.SubmissionResponse{}, recordSpanError(span, notFound("assignment"), "assignment_unpublished")
	}
	if err := s.requireEnrollment(ctx, viewer.ID, assignment.CourseID); err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, err, "not_enrolled")
	}

	submission, err := s.store.GetSubmission(ctx, assignment.ID, viewer.ID)
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("events.resubmission", true))
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission = models.Submission{AssignmentID: assignment.ID, StudentID: viewer.ID}
	default:
		return dto.SubmissionResponse{}, recordSpanError(span, storeError(err, "submission"), "submission_lookup_failed")
	}

	// a resubmission needs a fresh grade
	submittedAt := s.now()
	submission.SubmittedAt = &submittedAt
	submission.Score = nil
	submission.Feedback = ""
	submission.GradedBy = nil
	submission.GradedAt = nil

	if err := s.store.SaveSubmission(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, apperror.Internal(err, "failed to save submission"), "submission_save_failed")
	}

	state := progress.ResolveSubmissionStatus(assignment, &submission)
	span.SetAttributes(attribute.String("events.status", string(state.Status)))

	response := dto.NewSubmissionResponse(submission, string(state.Status), state.IsLate)
	response.Progress = s.afterEvent(ctx, viewer.ID, assignment.CourseID, TriggerAssignment)
	return response, nil
}

func (s *eventService) GradeSubmission(ctx context.Context, viewer access.Viewer, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer().Start(ctx, "events.grade")
	span.SetAttributes(
		attribute.Int64("events.submission_id", int64(submissionID)),
		attribute.Int64("events.actor_id", int64(viewer.ID)),
	)
	defer span.End()

	if viewer.Role != access.RoleTeacher && viewer.Role != access.RoleAdmin {
		return dto.SubmissionResponse{}, recordSpanError(span, apperror.Clone(apperror.ErrForbidden, "only teachers and admins can grade"), "forbidden")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, apperror.FromError(err), "validation_failed")
	}

	submission, err := s.store.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, storeError(err, "submission"), "submission_lookup_failed")
	}

	assignment := submission.Assignment
	course, err := s.store.GetCourse(ctx, assignment.CourseID)
	if err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, storeError(err, "course"), "course_lookup_failed")
	}
	if viewer.Role == access.RoleTeacher && !course.TaughtBy(viewer.ID) {
		return dto.SubmissionResponse{}, recordSpanError(span, notFound("submission"), "submission_not_owned")
	}
	if submission.SubmittedAt == nil {
		return dto.SubmissionResponse{}, recordSpanError(span, apperror.Validation("cannot grade a submission that was never submitted"), "not_submitted")
	}
	if err := progress.ValidateScore(*payload.Score, assignment.TotalPoints); err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, err, "score_out_of_range")
	}

	score := *payload.Score
	gradedAt := s.now()
	gradedBy := viewer.ID
	submission.Score = &score
	submission.Feedback = strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	submission.GradedAt = &gradedAt
	submission.GradedBy = &gradedBy

	if err := s.store.SaveSubmission(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, recordSpanError(span, apperror.Internal(err, "failed to save grade"), "submission_update_failed")
	}

	if s.deps.Activity != nil {
		_, err := s.deps.Activity.Record(ctx, ActivityEntry{
			Actor:      viewer,
			Action:     ActionSubmissionGraded,
			EntityType: "submission",
			EntityID:   &submission.ID,
			Metadata: map[string]interface{}{
				"submission_id": submission.ID,
				"assignment_id": submission.AssignmentID,
				"student_id":    submission.StudentID,
				"course_id":     assignment.CourseID,
				"score":         score,
				"total_points":  assignment.TotalPoints,
			},
		})
		if err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to record grading audit entry")
			span.RecordError(err)
		}
	}

	state := progress.ResolveSubmissionStatus(assignment, &submission)
	span.SetAttributes(attribute.Float64("events.score", score))

	response := dto.NewSubmissionResponse(submission, string(state.Status), state.IsLate)
	response.Progress = s.afterEvent(ctx, submission.StudentID, assignment.CourseID, TriggerGraded)
	return response, nil
}

func (s *eventService) requireEnrollment(ctx context.Context, studentID, courseID uint) error {
	if _, err := s.store.GetEnrollment(ctx, studentID, courseID); err != nil {
		return storeError(err, "enrollment")
	}
	return nil
}

// afterEvent recomputes the enrollment, drops stale rollups and announces the
// new percentage. Every step is best effort: the event itself is already stored.
func (s *eventService) afterEvent(ctx context.Context, studentID, courseID uint, trigger string) *dto.ProgressBreakdownResponse {
	logger := s.logger.With().
		Uint("student_id", studentID).
		Uint("course_id", courseID).
		Str("trigger", trigger).
		Logger()

	var breakdown *dto.ProgressBreakdownResponse
	if s.deps.Progress != nil {
		computed, err := s.deps.Progress.Recompute(ctx, studentID, courseID, trigger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to recompute progress after event")
		} else {
			breakdown = &computed
		}
	}

	if s.deps.Rollups != nil {
		if err := s.deps.Rollups.Invalidate(ctx, studentID); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate rollup cache")
		}
	}

	if s.deps.Publisher != nil && breakdown != nil {
		event := ProgressEvent{
			Trigger:    trigger,
			StudentID:  studentID,
			CourseID:   courseID,
			Percentage: breakdown.Percentage,
			OccurredAt: s.now().UTC(),
		}
		if err := s.deps.Publisher.PublishProgress(ctx, event); err != nil {
			logger.Warn().Err(err).Msg("failed to publish progress event")
		}
	}

	return breakdown
}

func requireStudent(viewer access.Viewer) error {
	if viewer.Role != access.RoleStudent || viewer.ID == 0 {
		return apperror.Clone(apperror.ErrForbidden, "only students can record learning events")
	}
	return nil
}

func recordSpanError(span trace.Span, err error, status string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}
