package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/abelyaev/accountd/internal/captcha"
	"github.com/abelyaev/accountd/internal/config"
	myHTTP "github.com/abelyaev/accountd/internal/handler/http"
	"github.com/abelyaev/accountd/internal/logger"
	"github.com/abelyaev/accountd/internal/mail"
	"github.com/abelyaev/accountd/internal/server"
	"github.com/abelyaev/accountd/internal/service"
	"github.com/abelyaev/accountd/internal/session"
	"github.com/abelyaev/accountd/internal/store"
	"github.com/abelyaev/accountd/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("accountd-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	// the ldflags-injected build version backs the health endpoint unless
	// the environment overrides it
	if cfg.App.Version == "" && buildVersion != "N/A" {
		cfg.App.Version = buildVersion
	}

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying database migrations")
	}

	redisClient, err := session.NewRedisClient(ctx, cfg.Storage.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to redis")
	}
	defer redisClient.Close()

	storages := store.NewStorages(db, log)
	sessions := session.NewManager(redisClient, cfg.Session, log)
	throttle := session.NewThrottle(redisClient, cfg.Signup, log)
	verifier := captcha.New(cfg.Captcha, log)

	services := service.NewServices(*storages, sessions, verifier, *cfg, log)
	handlers := myHTTP.NewHandler(services, sessions, storages.UserRepository, throttle, *cfg, log)

	sender := mail.New(cfg.Mail, log)
	dispatcher := mail.NewDispatcher(storages.OutboxRepository, sender, db, cfg.Mail, log)

	background := workers.NewWorkers(workers.Fn(func(ctx context.Context) {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("mail dispatcher stopped")
		}
	}))

	srv, err := server.NewServer(handlers.Init(), background, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
