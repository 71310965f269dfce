package server

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

type cronResponse struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Results   any    `json:"results"`
}

// requireCronAuth guards the scheduler trigger endpoints with a static
// bearer token. Constant-time compare so the secret is not timing-leaked.
func (s *Server) requireCronAuth(c fiber.Ctx) error {
	auth := c.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.cronSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(map[string]string{
			"error": "unauthorized",
		})
	}
	return c.Next()
}

func (s *Server) cronSuccess(c fiber.Ctx, results any) error {
	return c.JSON(cronResponse{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   results,
	})
}

func (s *Server) cronFailure(c fiber.Ctx, err error, job string) error {
	log.Error().Err(err).Str("job", job).Msg("Cron job failed")
	return c.Status(fiber.StatusInternalServerError).JSON(map[string]string{
		"error": err.Error(),
	})
}

func (s *Server) remindersHandler(c fiber.Ctx) error {
	summary, err := s.reminders.Run(context.Background())
	if err != nil {
		return s.cronFailure(c, err, "reminders")
	}
	return s.cronSuccess(c, summary)
}

func (s *Server) trialNotificationsHandler(c fiber.Ctx) error {
	summary, err := s.trials.RunNotifications(context.Background())
	if err != nil {
		return s.cronFailure(c, err, "trial-notifications")
	}
	return s.cronSuccess(c, summary)
}

func (s *Server) trialDowngradeHandler(c fiber.Ctx) error {
	summary, err := s.trials.RunDowngrade(context.Background())
	if err != nil {
		return s.cronFailure(c, err, "trial-downgrade")
	}
	return s.cronSuccess(c, summary)
}

// allJobsHandler runs every scheduled job in sequence, collecting per-job
// results. A failing job is reported in its slot without aborting the rest.
func (s *Server) allJobsHandler(c fiber.Ctx) error {
	ctx := context.Background()
	results := make(map[string]any)

	if summary, err := s.reminders.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Reminder job failed during /cron/all")
		results["reminders"] = map[string]string{"error": err.Error()}
	} else {
		results["reminders"] = summary
	}

	if summary, err := s.trials.RunNotifications(ctx); err != nil {
		log.Error().Err(err).Msg("Trial notification job failed during /cron/all")
		results["trial_notifications"] = map[string]string{"error": err.Error()}
	} else {
		results["trial_notifications"] = summary
	}

	if summary, err := s.trials.RunDowngrade(ctx); err != nil {
		log.Error().Err(err).Msg("Trial downgrade job failed during /cron/all")
		results["trial_downgrade"] = map[string]string{"error": err.Error()}
	} else {
		results["trial_downgrade"] = summary
	}

	return s.cronSuccess(c, results)
}
