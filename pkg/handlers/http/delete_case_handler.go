package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/app/feedback"
	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
)

type deleteCaseHandler struct {
	logger   *logrus.Logger
	feedback *feedback.Service
}

func NewDeleteCaseHandler(logger *logrus.Logger, feedbackService *feedback.Service) Handler {
	return &deleteCaseHandler{
		logger:   logger,
		feedback: feedbackService,
	}
}

// Handle removes a case base entry; deletion cascades to the similarity
// index so the entry stops matching immediately.
func (h *deleteCaseHandler) Handle(c *fiber.Ctx) error {
	caseID, err := uuid.Parse(c.Params("case_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid case id"})
	}

	if err := h.feedback.DeleteCase(c.Context(), caseID); err != nil {
		if domainErrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("Failed to delete case base entry")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
