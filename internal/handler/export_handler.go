package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/middleware"
	"github.com/billy93/E-Learning-sub000/internal/service"
	"github.com/billy93/E-Learning-sub000/pkg/export"
)

// ExportHandler serves rollup views as CSV or PDF downloads.
type ExportHandler struct {
	service service.ExportService
	logger  zerolog.Logger
}

// NewExportHandler creates a new handler instance.
func NewExportHandler(service service.ExportService, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With().Str("component", "export_handler").Logger(),
	}
}

// Register attaches the export endpoints.
func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/teacher/courses/:courseId/report", middleware.RequireRole(access.RoleTeacher, access.RoleAdmin), h.cohortReport)
	router.Get("/admin/leaderboard/export", middleware.RequireRole(access.RoleAdmin), h.leaderboard)
}

func (h *ExportHandler) cohortReport(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return badRequest(c, "invalid course id")
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	report, err := h.service.CohortReport(c.UserContext(), viewer, courseID, format)
	if err != nil {
		return respondError(c, h.logger, err, "failed to export cohort report")
	}

	return sendReport(c, report)
}

func (h *ExportHandler) leaderboard(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return badRequest(c, "invalid limit")
	}

	report, err := h.service.Leaderboard(c.UserContext(), viewer, limit, format)
	if err != nil {
		return respondError(c, h.logger, err, "failed to export leaderboard")
	}

	return sendReport(c, report)
}

func sendReport(c *fiber.Ctx, report service.ExportedReport) error {
	c.Set(fiber.HeaderContentType, report.Format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", report.Filename))
	return c.Status(fiber.StatusOK).Send(report.Content)
}
