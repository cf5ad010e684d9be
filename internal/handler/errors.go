package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindNotFound:             fiber.StatusNotFound,
	apperror.KindBadRequest:           fiber.StatusBadRequest,
	apperror.KindValidation:           fiber.StatusBadRequest,
	apperror.KindConflict:             fiber.StatusConflict,
	apperror.KindUnsupportedMediaType: fiber.StatusUnsupportedMediaType,
	apperror.KindInternal:             fiber.StatusInternalServerError,
}

func statusFor(err error) int {
	if status, ok := statusByKind[apperror.KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(models.ErrorResponse(apperror.Detail(err)))
}

// ErrorHandler renders framework errors (unknown route, body too large) in
// the same shape as service errors.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(models.ErrorResponse(fiberErr.Message))
		}
		return writeError(c, log, err)
	}
}
