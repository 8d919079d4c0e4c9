package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meteormate/backend/internal/config"
	"github.com/meteormate/backend/internal/logger"
)

// NewEngine builds the gin engine with CORS and request-id middleware
// and mounts every registrar under /api.
func NewEngine(cfg *config.Config, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestID())
	engine.Use(requestLog())

	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.AllowedOrigins) == 1 && cfg.HTTP.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.HTTP.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Authorization", "Content-Type", "X-Requested-With", "X-Cron-Secret"}
	engine.Use(cors.New(corsCfg))

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "MeteorMate backend is online!"})
	})
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Online"})
	})

	api := engine.Group("/api")
	for _, r := range registrars {
		r.Register(api)
	}

	return engine
}

// StartHTTPServer boots the HTTP server and blocks until it exits.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	engine := NewEngine(cfg, registrars...)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return engine.Run(addr)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.ForRequest(c.GetString("request_id")).Debug("request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}
