package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

type deleteLogHandler struct {
	logger *logrus.Logger
	repo   moderation.Repository
}

func NewDeleteLogHandler(logger *logrus.Logger, repo moderation.Repository) Handler {
	return &deleteLogHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *deleteLogHandler) Handle(c *fiber.Ctx) error {
	logID, err := uuid.Parse(c.Params("log_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid log id"})
	}

	if err := h.repo.Delete(c.Context(), logID); err != nil {
		if domainErrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("Failed to delete moderation log")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
