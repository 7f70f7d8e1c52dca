package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/dto"
	"github.com/billy93/E-Learning-sub000/internal/middleware"
	"github.com/billy93/E-Learning-sub000/internal/service"
	"github.com/billy93/E-Learning-sub000/internal/utils"
)

// EventHandler records learning events.
type EventHandler struct {
	service service.EventService
	limiter fiber.Handler
	logger  zerolog.Logger
}

// NewEventHandler creates a new handler instance. A nil limiter disables rate limiting.
func NewEventHandler(service service.EventService, limiter fiber.Handler, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		limiter: limiter,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register attaches the event endpoints.
func (h *EventHandler) Register(router fiber.Router) {
	student := []fiber.Handler{middleware.RequireRole(access.RoleStudent)}
	grader := []fiber.Handler{middleware.RequireRole(access.RoleTeacher, access.RoleAdmin)}
	if h.limiter != nil {
		student = append(student, h.limiter)
		grader = append(grader, h.limiter)
	}

	router.Post("/lessons/:lessonId/complete", chain(student, h.completeLesson)...)
	router.Post("/quizzes/:quizId/attempts", chain(student, h.startQuiz)...)
	router.Post("/quiz-attempts/:attemptId/submit", chain(student, h.submitQuiz)...)
	router.Post("/assignments/:assignmentId/submissions", chain(student, h.submitAssignment)...)
	router.Patch("/submissions/:submissionId/grade", chain(grader, h.grade)...)
}

func chain(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, handler)
}

func (h *EventHandler) completeLesson(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	lessonID, err := parseUintParam(c, "lessonId")
	if err != nil {
		return badRequest(c, "invalid lesson id")
	}

	result, err := h.service.MarkLessonComplete(c.UserContext(), viewer, lessonID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to complete lesson")
	}

	return utils.SendSuccess(c, "lesson completed", result)
}

func (h *EventHandler) startQuiz(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return badRequest(c, "invalid quiz id")
	}

	attempt, err := h.service.StartQuizAttempt(c.UserContext(), viewer, quizID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to start quiz attempt")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz attempt started", attempt)
}

func (h *EventHandler) submitQuiz(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	attemptID, err := parseUintParam(c, "attemptId")
	if err != nil {
		return badRequest(c, "invalid attempt id")
	}

	var payload dto.SubmitQuizAttemptRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid payload")
	}

	attempt, err := h.service.SubmitQuizAttempt(c.UserContext(), viewer, attemptID, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to submit quiz attempt")
	}

	return utils.SendSuccess(c, "quiz attempt submitted", attempt)
}

func (h *EventHandler) submitAssignment(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	assignmentID, err := parseUintParam(c, "assignmentId")
	if err != nil {
		return badRequest(c, "invalid assignment id")
	}

	submission, err := h.service.SubmitAssignment(c.UserContext(), viewer, assignmentID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to submit assignment")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment submitted", submission)
}

func (h *EventHandler) grade(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return badRequest(c, "invalid submission id")
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid payload")
	}

	submission, err := h.service.GradeSubmission(c.UserContext(), viewer, submissionID, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to grade submission")
	}

	return utils.SendSuccess(c, "submission graded", submission)
}
