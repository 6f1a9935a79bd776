package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/textmod/modgate/pkg/domain/errors"
	moderationMocks "github.com/textmod/modgate/pkg/domain/moderation/mocks"
)

func TestDeleteLogHandler_Success(t *testing.T) {
	logger := logrus.New()
	repo := new(moderationMocks.Repository)
	handler := NewDeleteLogHandler(logger, repo)

	app := fiber.New()
	app.Delete("/api/v1/moderation/logs/:log_id", handler.Handle)

	logID := uuid.New()
	repo.On("Delete", mock.Anything, logID).Return(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/moderation/logs/"+logID.String(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestDeleteLogHandler_NotFound(t *testing.T) {
	logger := logrus.New()
	repo := new(moderationMocks.Repository)
	handler := NewDeleteLogHandler(logger, repo)

	app := fiber.New()
	app.Delete("/api/v1/moderation/logs/:log_id", handler.Handle)

	logID := uuid.New()
	repo.On("Delete", mock.Anything, logID).
		Return(domainErrors.NewNotFoundError("moderation log", logID))

	req := httptest.NewRequest("DELETE", "/api/v1/moderation/logs/"+logID.String(), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteLogHandler_InvalidID(t *testing.T) {
	logger := logrus.New()
	repo := new(moderationMocks.Repository)
	handler := NewDeleteLogHandler(logger, repo)

	app := fiber.New()
	app.Delete("/api/v1/moderation/logs/:log_id", handler.Handle)

	req := httptest.NewRequest("DELETE", "/api/v1/moderation/logs/not-a-uuid", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
