package match

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meteormate/backend/internal/auth"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/server"
)

// GET /api/matches/potential?limit=10
func (s *Service) handlePotential(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	limit := DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			server.Error(c, svcErr.InvalidArgument("limit must be an integer"))
			return
		}
		limit = n
	}

	matches, err := s.FindPotentialMatches(c.Request.Context(), ident.UserID, limit)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// POST /api/matches/like/:target_user_id
func (s *Service) handleLike(c *gin.Context) {
	s.handleDecision(c, true)
}

// POST /api/matches/pass/:target_user_id
func (s *Service) handlePass(c *gin.Context) {
	s.handleDecision(c, false)
}

func (s *Service) handleDecision(c *gin.Context, liked bool) {
	ident, _ := auth.CallerIdentity(c)

	result, err := s.RecordDecision(c.Request.Context(), ident.UserID, c.Param("target_user_id"), liked)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/matches/mutual?limit=10&pagination_token=...
func (s *Service) handleMutual(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	limit := DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			server.Error(c, svcErr.InvalidArgument("limit must be an integer"))
			return
		}
		limit = n
	}

	var token *string
	if raw := c.Query("pagination_token"); raw != "" {
		token = &raw
	}

	matches, nextToken, err := s.ListMutualMatches(c.Request.Context(), ident.UserID, token, limit)
	if err != nil {
		server.Error(c, err)
		return
	}

	resp := gin.H{"matches": matches}
	if nextToken != nil {
		resp["next_pagination_token"] = *nextToken
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/matches/liked-count
func (s *Service) handleLikedCount(c *gin.Context) {
	ident, _ := auth.CallerIdentity(c)

	count, err := s.CountLikedYou(c.Request.Context(), ident.UserID)
	if err != nil {
		server.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
