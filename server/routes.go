package server

import (
	"github.com/gofiber/fiber/v3"
)

func (s *Server) setupRoutes() {
	s.app.Post("/webhooks/line", s.webhookHandler)

	// fiber v3 registers route-scoped middleware after the handler
	s.app.Post("/cron/reminders", s.remindersHandler, s.requireCronAuth)
	s.app.Post("/cron/trial-notifications", s.trialNotificationsHandler, s.requireCronAuth)
	s.app.Post("/cron/trial-downgrade", s.trialDowngradeHandler, s.requireCronAuth)
	s.app.Post("/cron/all", s.allJobsHandler, s.requireCronAuth)

	s.app.Get("/health", s.healthCheckHandler)
}

func (s *Server) healthCheckHandler(c fiber.Ctx) error {
	return c.JSON(map[string]string{"status": "ok"})
}
