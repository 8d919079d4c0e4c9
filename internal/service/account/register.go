package account

import (
	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/auth"
)

// Registrar ties the account service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx)

	g := api.Group("/auth")
	g.Use(auth.RequireAuth(r.appCtx.Tokens))
	g.POST("/register", service.handleRegister)
	g.GET("/me", service.handleMe)
	g.POST("/request-verify", service.handleRequestVerify)
	g.POST("/complete-verify", service.handleCompleteVerify)
}
