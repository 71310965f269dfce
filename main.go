package main

import (
	"net/http"

	"github.com/chapterhq/membot-go/approval"
	"github.com/chapterhq/membot-go/bot"
	"github.com/chapterhq/membot-go/config"
	"github.com/chapterhq/membot-go/convstate"
	"github.com/chapterhq/membot-go/line"
	"github.com/chapterhq/membot-go/scheduler"
	"github.com/chapterhq/membot-go/server"
	"github.com/chapterhq/membot-go/store"
	"github.com/chapterhq/membot-go/vault"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	httpClient := http.Client{}

	db, err := store.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	log.Info().
		Str("host", cfg.DBHost).
		Str("database", cfg.DBName).
		Msg("Database connected successfully")

	cipher, err := vault.NewCipherFromConfig(cfg.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize credential cipher")
	}

	credentialVault := vault.New(store.NewSecretRepo(db), cipher)

	var conv convstate.Store
	if cfg.RedisAddr != "" {
		conv = convstate.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	} else {
		conv = convstate.NewMemoryStore()
		log.Info().Msg("REDIS_ADDR not set, using in-process conversation store")
	}

	tenants := store.NewTenantRepo(db)
	participants := store.NewParticipantRepo(db)
	roles := store.NewUserRoleRepo(db)
	meetings := store.NewMeetingRepo(db)
	rsvps := store.NewRSVPRepo(db)
	deliveries := store.NewDeliveryLogRepo(db)
	applications := store.NewApplicationRepo(db)

	approvalSender := func(accessToken string) approval.Sender {
		client := line.NewClient(accessToken, cfg.LineAPIURL, httpClient)
		return &client
	}
	schedulerSender := func(accessToken string) scheduler.Sender {
		client := line.NewClient(accessToken, cfg.LineAPIURL, httpClient)
		return &client
	}

	approvalService := approval.New(participants, roles, applications, tenants, credentialVault, approvalSender)

	tokens := bot.NewSubstituteTokenIssuer(cfg.SubstituteTokenSecret, cfg.SubstituteBaseURL)
	router := bot.NewRouter(participants, meetings, rsvps, roles, conv, approvalService, tokens)

	reminderService := scheduler.NewReminderService(
		tenants, meetings, participants, rsvps, deliveries, credentialVault, schedulerSender)
	trialService := scheduler.NewTrialService(
		tenants, roles, deliveries, credentialVault, schedulerSender)

	srv := server.New(
		credentialVault, router, reminderService, trialService,
		cfg.CronSecret, cfg.LineAPIURL, httpClient)

	srv.Start(cfg.Port)
}
