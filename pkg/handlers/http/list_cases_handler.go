package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/domain/casebase"
)

type listCasesHandler struct {
	logger *logrus.Logger
	repo   casebase.Repository
}

func NewListCasesHandler(logger *logrus.Logger, repo casebase.Repository) Handler {
	return &listCasesHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *listCasesHandler) Handle(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	entries, total, err := h.repo.List(c.Context(), page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list case base entries")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"cases": entries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
