package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/app/feedback"
	"github.com/textmod/modgate/pkg/domain/casebase"
	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
)

type confirmLogRequest struct {
	Action string `json:"action"`
	Note   string `json:"note,omitempty"`
}

type confirmLogHandler struct {
	logger   *logrus.Logger
	feedback *feedback.Service
}

func NewConfirmLogHandler(logger *logrus.Logger, feedbackService *feedback.Service) Handler {
	return &confirmLogHandler{
		logger:   logger,
		feedback: feedbackService,
	}
}

func (h *confirmLogHandler) Handle(c *fiber.Ctx) error {
	logID, err := uuid.Parse(c.Params("log_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid log id"})
	}

	var req confirmLogRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("Failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	confirmedBy, _ := c.Locals("admin_subject").(string)

	entry, err := h.feedback.Confirm(c.Context(), logID, casebase.Label(req.Action), confirmedBy)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidLabel) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if domainErrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("Failed to store confirmation")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":     "confirmation could not be stored",
			"retryable": true,
		})
	}

	if entry == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"log_id":  logID.String(),
			"action":  req.Action,
			"skipped": true,
			"reason":  "content below minimum case length",
		})
	}

	return c.Status(fiber.StatusOK).JSON(entry)
}
