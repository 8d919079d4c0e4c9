package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteormate/backend/internal/auth"
	svcErr "github.com/meteormate/backend/internal/errors"
)

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := auth.NewJWTVerifier("test-secret")

	token, err := v.Issue(auth.Identity{
		UserID:        "user-123",
		Email:         "student@test.edu",
		EmailVerified: true,
	})
	require.NoError(t, err)

	ident, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", ident.UserID)
	assert.Equal(t, "student@test.edu", ident.Email)
	assert.True(t, ident.EmailVerified)
}

func TestJWTVerifier_RejectsBadTokens(t *testing.T) {
	v := auth.NewJWTVerifier("test-secret")

	_, err := v.Verify(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, svcErr.KindUnauthorized, svcErr.KindOf(err))

	// signed with a different secret
	other := auth.NewJWTVerifier("wrong-secret")
	token, err := other.Issue(auth.Identity{UserID: "user-123"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindUnauthorized, svcErr.KindOf(err))
}

func TestJWTVerifier_RequiresSubject(t *testing.T) {
	v := auth.NewJWTVerifier("test-secret")

	token, err := v.Issue(auth.Identity{Email: "student@test.edu"})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindUnauthorized, svcErr.KindOf(err))
}
