package server

import (
	"log/slog"

	"ripple/internal/middleware"
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

type pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *fiber.Ctx, defaultLimit int) pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return pagination{Limit: limit, Offset: offset}
}

// parseIDParam parses a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// fail recovers an error into the standard JSON error response. Store
// failures are the only kind logged as operational incidents; the rest
// are routine outcomes of normal traffic.
func fail(c *fiber.Ctx, err error) error {
	appErr := models.AsAppError(err)
	if appErr.Code == models.CodeStoreUnavailable || appErr.Code == models.CodeInternal {
		middleware.Logger.Error("request failed against backing store",
			slog.String("path", c.Path()),
			slog.String("code", appErr.Code),
			slog.String("error", appErr.Error()),
		)
	}
	return models.RespondWithError(c, appErr)
}
