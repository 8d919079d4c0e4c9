package main

import (
	"context"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/auth"
	"github.com/meteormate/backend/internal/cache"
	"github.com/meteormate/backend/internal/config"
	"github.com/meteormate/backend/internal/db"
	"github.com/meteormate/backend/internal/logger"
	"github.com/meteormate/backend/internal/mail"
	"github.com/meteormate/backend/internal/server"
	"github.com/meteormate/backend/internal/service/account"
	"github.com/meteormate/backend/internal/service/cron"
	"github.com/meteormate/backend/internal/service/match"
	"github.com/meteormate/backend/internal/service/profile"
	"github.com/meteormate/backend/internal/service/survey"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	tokens := auth.NewJWTVerifier(cfg.Auth.JWTSecret)

	var mailer mail.Mailer = mail.NewSMTPMailer(cfg)
	if cfg.SMTP.Host == "" {
		mailer = &mail.LogMailer{Logger: log}
	}

	appCtx := app.New(cfg, database, redisCache, log, tokens, mailer)

	registrars := []server.Registrar{
		account.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
		survey.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		cron.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
