package account

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/auth"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/server"
)

// POST /api/auth/register
func (s *Service) handleRegister(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	var in RegisterRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		server.Error(c, svcErr.InvalidArgument(err.Error()))
		return
	}

	user, err := s.Register(c.Request.Context(), ident, in)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /api/auth/me
func (s *Service) handleMe(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	user, err := s.GetMe(c.Request.Context(), ident.UserID)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/auth/request-verify
func (s *Service) handleRequestVerify(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	if err := s.RequestVerification(c.Request.Context(), ident.UserID); err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "code sent"})
}

// POST /api/auth/complete-verify
func (s *Service) handleCompleteVerify(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	var in struct {
		Code string `json:"code" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		server.Error(c, svcErr.InvalidArgument(err.Error()))
		return
	}

	if err := s.CompleteVerification(c.Request.Context(), ident.UserID, in.Code); err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}
