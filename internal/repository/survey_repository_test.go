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

func TestSurveyCreateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSurveyRepository(dbase)

	survey := &db.Survey{UserID: "alice", Cleanliness: 3}
	require.NoError(t, repo.Create(ctx, survey))

	err := repo.Create(ctx, &db.Survey{UserID: "alice"})
	require.Error(t, err)
	assert.Equal(t, svcErr.KindAlreadyExists, svcErr.KindOf(err))
}

func TestSurveyUpdateMergesAnswers(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSurveyRepository(dbase)

	require.NoError(t, repo.Create(ctx, &db.Survey{
		UserID:      "alice",
		Cleanliness: 3,
		Interests:   []string{"gaming"},
		Answers:     map[string]any{"fav_color": "blue", "hometown": "Dallas"},
	}))

	noise := 4
	updated, err := repo.Update(ctx, "alice", repository.SurveyUpdate{
		NoiseTolerance: &noise,
		Answers:        map[string]any{"fav_color": "green", "pets_name": "Rex"},
	})
	require.NoError(t, err)

	// provided fields changed, untouched fields kept
	assert.Equal(t, 4, updated.NoiseTolerance)
	assert.Equal(t, 3, updated.Cleanliness)
	assert.Equal(t, []string{"gaming"}, updated.Interests)

	// answers merged key-wise, not replaced
	assert.Equal(t, "green", updated.Answers["fav_color"])
	assert.Equal(t, "Dallas", updated.Answers["hometown"])
	assert.Equal(t, "Rex", updated.Answers["pets_name"])
}

func TestSurveyListExcluding(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSurveyRepository(dbase)

	users := []db.User{
		{ID: "alice", Email: "a@test.edu", StudentID: "s1", IsActive: true},
		{ID: "bob", Email: "b@test.edu", StudentID: "s2", IsActive: true},
		{ID: "carol", Email: "c@test.edu", StudentID: "s3", IsActive: true},
		{ID: "dave", Email: "d@test.edu", StudentID: "s4", IsActive: false},
	}
	require.NoError(t, dbase.Create(&users).Error)
	for _, u := range users {
		require.NoError(t, repo.Create(ctx, &db.Survey{UserID: u.ID}))
	}

	excluded := map[string]struct{}{"alice": {}, "bob": {}}
	surveys, err := repo.ListExcluding(ctx, excluded, 10)
	require.NoError(t, err)

	// bob and alice excluded explicitly, dave excluded as inactive
	require.Len(t, surveys, 1)
	assert.Equal(t, "carol", surveys[0].UserID)
}

func TestSurveyListExcludingEmptySetAndLimit(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSurveyRepository(dbase)

	ids := []string{"u1", "u2", "u3"}
	for i, id := range ids {
		require.NoError(t, dbase.Create(&db.User{
			ID: id, Email: id + "@test.edu", StudentID: "s" + id, IsActive: true,
		}).Error)
		require.NoError(t, repo.Create(ctx, &db.Survey{UserID: id, Cleanliness: i + 1}))
	}

	surveys, err := repo.ListExcluding(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, surveys, 2)

	// deterministic pool order: ascending user id
	assert.Equal(t, "u1", surveys[0].UserID)
	assert.Equal(t, "u2", surveys[1].UserID)
}
