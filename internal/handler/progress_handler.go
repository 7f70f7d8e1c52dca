package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/dto"
	"github.com/billy93/E-Learning-sub000/internal/middleware"
	"github.com/billy93/E-Learning-sub000/internal/service"
	"github.com/billy93/E-Learning-sub000/internal/utils"
)

// ProgressHandler exposes the per-enrollment progress reads.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler creates a new handler instance.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register attaches the progress endpoints.
func (h *ProgressHandler) Register(router fiber.Router) {
	anyRole := middleware.RequireRole(access.RoleStudent, access.RoleTeacher, access.RoleParent, access.RoleAdmin)

	router.Get("/progress/courses/:courseId/students/:studentId", anyRole, h.enrollmentProgress)
	router.Get("/assignments/:assignmentId/students/:studentId/status", anyRole, h.submissionStatus)
	router.Get("/quizzes/:quizId/students/:studentId/completion", anyRole, h.quizCompletion)
	router.Get("/students/:studentId/average", anyRole, h.averageScore)
	router.Get("/completion-rate", middleware.RequireRole(access.RoleTeacher, access.RoleAdmin), h.completionRate)
}

func (h *ProgressHandler) enrollmentProgress(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return badRequest(c, "invalid course id")
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return badRequest(c, "invalid student id")
	}

	result, err := h.service.ComputeEnrollmentProgress(c.UserContext(), viewer, studentID, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute progress")
	}

	return utils.SendSuccess(c, "progress retrieved", result)
}

func (h *ProgressHandler) submissionStatus(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	assignmentID, err := parseUintParam(c, "assignmentId")
	if err != nil {
		return badRequest(c, "invalid assignment id")
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return badRequest(c, "invalid student id")
	}

	result, err := h.service.SubmissionStatus(c.UserContext(), viewer, assignmentID, studentID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to resolve submission status")
	}

	return utils.SendSuccess(c, "submission status retrieved", result)
}

func (h *ProgressHandler) quizCompletion(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return badRequest(c, "invalid quiz id")
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return badRequest(c, "invalid student id")
	}

	result, err := h.service.QuizCompletion(c.UserContext(), viewer, quizID, studentID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to resolve quiz completion")
	}

	return utils.SendSuccess(c, "quiz completion retrieved", result)
}

func (h *ProgressHandler) averageScore(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return badRequest(c, "invalid student id")
	}
	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	scope := dto.AverageScope(strings.ToLower(strings.TrimSpace(c.Query("scope"))))
	if scope == "" {
		scope = dto.AverageScopeOverall
		if courseID != nil {
			scope = dto.AverageScopeCourse
		}
	}

	result, err := h.service.AverageScore(c.UserContext(), viewer, dto.AverageScoreRequest{
		StudentID: studentID,
		Scope:     scope,
		CourseID:  courseID,
	})
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute average score")
	}

	return utils.SendSuccess(c, "average score retrieved", result)
}

func (h *ProgressHandler) completionRate(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.CompletionRate(c.UserContext(), viewer, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to compute completion rate")
	}

	return utils.SendSuccess(c, "completion rate retrieved", result)
}
