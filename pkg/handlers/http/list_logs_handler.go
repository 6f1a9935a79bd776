package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/domain/moderation"
)

type listLogsHandler struct {
	logger *logrus.Logger
	repo   moderation.Repository
}

func NewListLogsHandler(logger *logrus.Logger, repo moderation.Repository) Handler {
	return &listLogsHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *listLogsHandler) Handle(c *fiber.Ctx) error {
	filter := moderation.LogFilter{
		Query: c.Query("query"),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}

	if raw := c.Query("min_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid min_score"})
		}
		filter.MinScore = &v
	}
	if raw := c.Query("max_score"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid max_score"})
		}
		filter.MaxScore = &v
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from timestamp"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to timestamp"})
		}
		filter.To = &t
	}

	entries, total, err := h.repo.List(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list moderation logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"logs":  entries,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
