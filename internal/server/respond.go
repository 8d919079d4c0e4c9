package server

import (
	"github.com/gin-gonic/gin"

	svcErr "github.com/meteormate/backend/internal/errors"
)

// Error writes a domain error as its mapped HTTP status with a JSON body.
func Error(c *gin.Context, err error) {
	c.JSON(svcErr.HTTPStatus(err), gin.H{"error": err.Error()})
}
