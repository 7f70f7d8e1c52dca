package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/billy93/E-Learning-sub000/internal/access"
	"github.com/billy93/E-Learning-sub000/internal/middleware"
	"github.com/billy93/E-Learning-sub000/internal/utils"
	"github.com/billy93/E-Learning-sub000/pkg/apperror"
)

var errMissingViewer = errors.New("missing user context")

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := strings.TrimSpace(c.Params(name))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return nil, errors.New("invalid " + key)
	}
	id := uint(parsed)
	return &id, nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func viewerFromContext(c *fiber.Ctx) (access.Viewer, error) {
	viewer := access.Viewer{
		ID:   userIDFromContext(c),
		Role: access.ParseRole(userRoleFromContext(c)),
	}
	if !viewer.Valid() {
		return access.Viewer{}, errMissingViewer
	}
	return viewer, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// respondError maps a service error onto the response envelope. Internal
// failures are logged and answered with the fallback message.
func respondError(c *fiber.Ctx, base zerolog.Logger, err error, fallback string) error {
	appErr := apperror.FromError(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		requestLogger(base, c).Error().Err(err).Str("path", c.Path()).Msg(fallback)
		return utils.FailWithCode(c, appErr.Status, appErr.Code, fallback, nil)
	}
	return utils.FailWithCode(c, appErr.Status, appErr.Code, appErr.Message, nil)
}

func unauthorized(c *fiber.Ctx) error {
	return utils.FailWithCode(c, fiber.StatusUnauthorized, apperror.ErrUnauthorized.Code, "authentication required", nil)
}

func badRequest(c *fiber.Ctx, message string) error {
	return utils.FailWithCode(c, fiber.StatusBadRequest, apperror.ErrValidation.Code, message, nil)
}
