package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/auth"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/server"
)

// Registrar ties the profile service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx)

	g := api.Group("/profiles")
	g.Use(auth.RequireAuth(r.appCtx.Tokens))
	g.PUT("/me", service.handleUpsert)
	g.GET("/me", service.handleGetMine)
	g.GET("/:user_id", service.handleGetPublic)
}

// PUT /api/profiles/me
func (s *Service) handleUpsert(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	var in Payload
	if err := c.ShouldBindJSON(&in); err != nil {
		server.Error(c, svcErr.InvalidArgument(err.Error()))
		return
	}

	p, err := s.Upsert(c.Request.Context(), ident.UserID, in)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/profiles/me
func (s *Service) handleGetMine(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	p, err := s.GetMine(c.Request.Context(), ident.UserID)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/profiles/:user_id
func (s *Service) handleGetPublic(c *gin.Context) {
	p, err := s.GetPublic(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
