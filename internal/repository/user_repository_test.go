package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/repository"
)

func TestUserCreatePersistsActiveFlag(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))

	// a zero-value flag must not be overridden by a column default
	require.NoError(t, repo.Create(ctx, &db.User{
		ID: "dormant", StudentID: "s1", Email: "dormant@test.edu", IsActive: false,
	}))
	require.NoError(t, repo.Create(ctx, &db.User{
		ID: "lively", StudentID: "s2", Email: "lively@test.edu", IsActive: true,
	}))

	got, err := repo.Get(ctx, "dormant")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.Get(ctx, "lively")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestUserCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &db.User{
		ID: "alice", StudentID: "s1", Email: "alice@test.edu", IsActive: true,
	}))

	err := repo.Create(ctx, &db.User{
		ID: "alice2", StudentID: "s1", Email: "other@test.edu", IsActive: true,
	})
	require.Error(t, err)
	assert.Equal(t, svcErr.KindAlreadyExists, svcErr.KindOf(err))
}

func TestUserTouchReactivates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))

	stage := db.StageInactive
	require.NoError(t, repo.Create(ctx, &db.User{
		ID: "dormant", StudentID: "s1", Email: "dormant@test.edu",
		IsActive: false, InactivityStage: &stage,
	}))

	require.NoError(t, repo.Touch(ctx, "dormant"))

	got, err := repo.Get(ctx, "dormant")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.InactivityStage)
	assert.Nil(t, got.LastInactivityNotice)
}
