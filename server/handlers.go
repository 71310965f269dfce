package server

import (
	"context"

	"github.com/chapterhq/membot-go/line"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

func (s *Server) webhookHandler(c fiber.Ctx) error {
	var request line.WebhookRequest
	if err := c.Bind().JSON(&request); err != nil {
		log.Error().Err(err).Msg("Error parsing webhook JSON")
		return c.Status(fiber.StatusBadRequest).SendString("Error parsing JSON")
	}

	log.Info().
		Str("destination", request.Destination).
		Int("events", len(request.Events)).
		Msg("Received webhook request")

	tenantID, cred, ok, err := s.vault.ResolveByBotID(context.Background(), request.Destination)
	if err != nil {
		log.Error().Err(err).
			Str("destination", request.Destination).
			Msg("Error resolving tenant for webhook")
		// the platform retries on non-2xx; a lookup failure is ours to fix
		return c.SendStatus(fiber.StatusOK)
	}
	if !ok {
		log.Warn().
			Str("destination", request.Destination).
			Msg("Webhook for unknown bot id, ignoring")
		return c.SendStatus(fiber.StatusOK)
	}

	sender := line.NewClient(cred.AccessToken, s.lineAPIURL, s.httpClient)
	for _, ev := range request.Events {
		go func(ev line.Event) {
			s.router.HandleEvent(context.Background(), tenantID, &sender, ev)
		}(ev)
	}

	return c.SendStatus(fiber.StatusOK)
}
