package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/auth"
	"github.com/meteormate/backend/internal/cache"
	"github.com/meteormate/backend/internal/config"
	"github.com/meteormate/backend/internal/mail"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	Cfg        *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Tokens     auth.TokenVerifier
	Mailer     mail.Mailer
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, tokens auth.TokenVerifier, mailer mail.Mailer) *AppContext {
	return &AppContext{
		Cfg:        cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Tokens:     tokens,
		Mailer:     mailer,
	}
}
