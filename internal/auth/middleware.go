package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	svcErr "github.com/meteormate/backend/internal/errors"
)

const identityKey = "auth_identity"

// RequireAuth extracts and verifies the Bearer token, aborting with 401
// when the caller cannot be identified.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			err := svcErr.Unauthorized("missing bearer token")
			c.AbortWithStatusJSON(svcErr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		ident, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(svcErr.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// CallerIdentity returns the identity placed on the context by RequireAuth.
func CallerIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}
