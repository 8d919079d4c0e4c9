package survey

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/auth"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/server"
)

// POST /api/survey
func (s *Service) handleCreate(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	var in Payload
	if err := c.ShouldBindJSON(&in); err != nil {
		server.Error(c, svcErr.InvalidArgument(err.Error()))
		return
	}

	survey, err := s.Create(c.Request.Context(), ident.UserID, in)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// GET /api/survey/me
func (s *Service) handleGetMine(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	survey, err := s.GetMine(c.Request.Context(), ident.UserID)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

// PUT /api/survey
func (s *Service) handleUpdate(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	var in Payload
	if err := c.ShouldBindJSON(&in); err != nil {
		server.Error(c, svcErr.InvalidArgument(err.Error()))
		return
	}

	survey, err := s.Update(c.Request.Context(), ident.UserID, in)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}
