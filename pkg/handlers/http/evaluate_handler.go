package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/app/pipeline"
	"github.com/textmod/modgate/pkg/domain/content"
	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
	"github.com/textmod/modgate/pkg/handlers/http/response"
)

type evaluateRequest struct {
	Text string `json:"text"`
}

type evaluateHandler struct {
	logger    *logrus.Logger
	evaluator *pipeline.Evaluator
}

func NewEvaluateHandler(logger *logrus.Logger, evaluator *pipeline.Evaluator) Handler {
	return &evaluateHandler{
		logger:    logger,
		evaluator: evaluator,
	}
}

func (h *evaluateHandler) Handle(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("Failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sample := &content.Sample{
		Text:        req.Text,
		OriginIP:    c.IP(),
		ClientID:    c.Get("X-Client-ID"),
		SubmittedAt: time.Now(),
	}

	result, err := h.evaluator.Evaluate(c.Context(), sample)
	if err != nil {
		if domainErrors.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).Error("Failed to evaluate content")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "evaluation failed"})
	}

	return c.Status(fiber.StatusOK).JSON(response.NewEvaluation(result))
}
