package server

import (
	"net/http"

	"github.com/chapterhq/membot-go/bot"
	"github.com/chapterhq/membot-go/scheduler"
	"github.com/chapterhq/membot-go/vault"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog/log"
)

type Server struct {
	app        *fiber.App
	vault      *vault.Vault
	router     *bot.Router
	reminders  *scheduler.ReminderService
	trials     *scheduler.TrialService
	cronSecret string
	lineAPIURL string
	httpClient http.Client
}

func New(
	v *vault.Vault,
	router *bot.Router,
	reminders *scheduler.ReminderService,
	trials *scheduler.TrialService,
	cronSecret string,
	lineAPIURL string,
	httpClient http.Client,
) *Server {
	app := fiber.New()
	app.Use(recover.New())

	server := &Server{
		app:        app,
		vault:      v,
		router:     router,
		reminders:  reminders,
		trials:     trials,
		cronSecret: cronSecret,
		lineAPIURL: lineAPIURL,
		httpClient: httpClient,
	}

	server.setupRoutes()

	return server
}

func (s *Server) Start(port string) {
	log.Info().Str("port", port).Msg("Starting membot server")

	err := s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
