package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/handler"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/ratelimit"
	"github.com/MKhiriev/go-auth-keeper/internal/server"
	"github.com/MKhiriev/go-auth-keeper/internal/service"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/internal/workers"
	"github.com/redis/go-redis/v9"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("auth-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.Redis.Address,
		Password: cfg.Storage.Redis.Password,
		DB:       cfg.Storage.Redis.Database,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("error connecting to redis")
	}
	defer redisClient.Close()

	storages := store.NewStorages(db, log)

	hasher, err := utils.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating password hasher")
	}

	clock := service.SystemClock()
	services := service.NewServices(storages, hasher, clock, cfg.Auth, log)

	credentialLimiter := ratelimit.NewLimiter(redisClient, "rl:cred", cfg.RateLimit.CredentialLimit, cfg.RateLimit.CredentialWindow, log)
	generalLimiter := ratelimit.NewLimiter(redisClient, "rl:gen", cfg.RateLimit.GeneralLimit, cfg.RateLimit.GeneralWindow, log)

	handlers, err := handler.NewHandlers(services, credentialLimiter, generalLimiter, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workers.NewWorkers(ctx, storages, clock, cfg.Workers, log).Run()

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
