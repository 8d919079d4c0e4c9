package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/app"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/server"
)

// Registrar ties the cron service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx)

	g := api.Group("/cron")
	g.Use(requireCronSecret(r.appCtx))
	g.POST("/clean-db", service.handleCleanDB)
	g.POST("/check-inactive-users", service.handleCheckInactive)
}

// requireCronSecret gates the maintenance endpoints. An unset secret
// disables them entirely.
func requireCronSecret(appCtx *app.AppContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := appCtx.Cfg.Cron.Secret
		if secret == "" || c.GetHeader("X-Cron-Secret") != secret {
			appCtx.Logger.Warn("unauthorized cron request", "path", c.FullPath())
			err := svcErr.Unauthorized("unauthorized request")
			c.AbortWithStatusJSON(svcErr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

// POST /api/cron/clean-db
func (s *Service) handleCleanDB(c *gin.Context) {
	report, err := s.CleanDB(c.Request.Context())
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// POST /api/cron/check-inactive-users
func (s *Service) handleCheckInactive(c *gin.Context) {
	report, err := s.CheckInactiveUsers(c.Request.Context())
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
