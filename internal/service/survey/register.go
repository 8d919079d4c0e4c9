package survey

import (
	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/auth"
)

// Registrar ties the survey service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(api *gin.RouterGroup) {
	service := NewService(r.appCtx)

	g := api.Group("/survey")
	g.Use(auth.RequireAuth(r.appCtx.Tokens))
	g.POST("", service.handleCreate)
	g.GET("/me", service.handleGetMine)
	g.PUT("", service.handleUpdate)
}
