package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/middleware"
	"github.com/billy93/E-Learning-sub000/internal/service"
	"github.com/billy93/E-Learning-sub000/internal/utils"
)

// RollupHandler exposes the role-specific dashboard views.
type RollupHandler struct {
	service service.RollupService
	logger  zerolog.Logger
}

// NewRollupHandler creates a new handler instance.
func NewRollupHandler(service service.RollupService, logger zerolog.Logger) *RollupHandler {
	return &RollupHandler{
		service: service,
		logger:  logger.With().Str("component", "rollup_handler").Logger(),
	}
}

// Register attaches the dashboard endpoints.
func (h *RollupHandler) Register(router fiber.Router) {
	router.Get("/student/overview", middleware.RequireRole(access.RoleStudent), h.studentOverview)
	router.Get("/parent/children", middleware.RequireRole(access.RoleParent), h.parentOverview)
	router.Get("/teacher/courses/:courseId/cohort", middleware.RequireRole(access.RoleTeacher, access.RoleAdmin), h.cohortReport)
	router.Get("/admin/overview", middleware.RequireRole(access.RoleAdmin), h.adminOverview)
}

func (h *RollupHandler) studentOverview(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	overview, cacheHit, err := h.service.StudentOverview(c.UserContext(), viewer, viewer.ID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load overview")
	}

	return utils.OK(c, overview, "overview retrieved", fiber.Map{"cache_hit": cacheHit})
}

func (h *RollupHandler) parentOverview(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	overview, cacheHit, err := h.service.ParentOverview(c.UserContext(), viewer, viewer.ID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load children overview")
	}

	return utils.OK(c, overview, "children overview retrieved", fiber.Map{
		"cache_hit": cacheHit,
		"children":  len(overview.Children),
	})
}

func (h *RollupHandler) cohortReport(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return badRequest(c, "invalid course id")
	}

	report, err := h.service.CohortReport(c.UserContext(), viewer, courseID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load cohort report")
	}

	return utils.SendSuccess(c, "cohort report retrieved", report)
}

func (h *RollupHandler) adminOverview(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return unauthorized(c)
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return badRequest(c, "invalid limit")
	}

	overview, err := h.service.AdminOverview(c.UserContext(), viewer, limit)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load admin overview")
	}

	return utils.OK(c, overview, "admin overview retrieved", fiber.Map{"leaderboard_size": len(overview.Leaderboard)})
}
