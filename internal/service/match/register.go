package match

import (
	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/auth"
)

// Registrar ties the match service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match routes to the /api group
func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx)

	g := api.Group("/matches")
	g.Use(auth.RequireAuth(r.appCtx.Tokens))
	g.GET("/potential", service.handlePotential)
	g.POST("/like/:target_user_id", service.handleLike)
	g.POST("/pass/:target_user_id", service.handlePass)
	g.GET("/mutual", service.handleMutual)
	g.GET("/liked-count", service.handleLikedCount)
}
