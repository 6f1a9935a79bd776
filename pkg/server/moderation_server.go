package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/textmod/modgate/pkg/config"
	handlers "github.com/textmod/modgate/pkg/handlers/http"
	"github.com/textmod/modgate/pkg/middleware"
)

type (
	ModerationServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	ModerationServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewModerationServer(di ModerationServerDI) *ModerationServer {
	return &ModerationServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *ModerationServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("Starting moderation server")
	return s.router.Listen(addr)
}

func (s *ModerationServer) setupRoutes() {
	baseRouter := s.router.Group("")
	s.addRoutes(baseRouter)
}

func (s *ModerationServer) addRoutes(router fiber.Router) {
	v1 := router.Group("/api/v1")
	{
		v1.Get("/version", s.handlerTransport.GetVersionHandler.Handle)

		moderation := v1.Group("/moderation")
		{
			moderation.Post("/evaluate", s.handlerTransport.EvaluateHandler.Handle)

			// Log and case management requires admin credentials.
			logs := moderation.Group("/logs", s.middlewareTransport.AdminAuthMiddleware.Middleware())
			{
				logs.Get("", s.handlerTransport.ListLogsHandler.Handle)
				logs.Post("/:log_id/confirmation", s.handlerTransport.ConfirmLogHandler.Handle)
				logs.Delete("/purge", s.handlerTransport.PurgeLogsHandler.Handle)
				logs.Delete("/:log_id", s.handlerTransport.DeleteLogHandler.Handle)
			}

			cases := moderation.Group("/cases", s.middlewareTransport.AdminAuthMiddleware.Middleware())
			{
				cases.Get("", s.handlerTransport.ListCasesHandler.Handle)
				cases.Delete("/:case_id", s.handlerTransport.DeleteCaseHandler.Handle)
			}
		}
	}
}

func (s *ModerationServer) Shutdown() error {
	return s.router.Shutdown()
}
