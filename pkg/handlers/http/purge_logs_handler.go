package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/domain/moderation"
)

type purgeLogsHandler struct {
	logger *logrus.Logger
	repo   moderation.Repository
}

func NewPurgeLogsHandler(logger *logrus.Logger, repo moderation.Repository) Handler {
	return &purgeLogsHandler{
		logger: logger,
		repo:   repo,
	}
}

// Handle bulk-deletes log entries older than the requested number of days,
// the retention lever for the audit store.
func (h *purgeLogsHandler) Handle(c *fiber.Ctx) error {
	olderThanDays := c.QueryInt("older_than_days", 0)
	if olderThanDays <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "older_than_days must be a positive integer"})
	}

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	deleted, err := h.repo.DeleteOlderThan(c.Context(), cutoff)
	if err != nil {
		h.logger.WithError(err).Error("Failed to purge moderation logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff,
	}).Info("purged moderation logs")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"deleted": deleted,
		"cutoff":  cutoff,
	})
}
