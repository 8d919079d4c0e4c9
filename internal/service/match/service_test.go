package match_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/auth"
	"github.com/meteormate/backend/internal/cache"
	"github.com/meteormate/backend/internal/config"
	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/mail"
	"github.com/meteormate/backend/internal/service/match"
)

func intPtr(v int) *int { return &v }

// seedMatchingData inserts a deterministic dataset for ranking tests.
//
// Dataset:
//   - alice: the requester, early bird, cleanliness 4, into gaming+anime
//   - bob:   near-identical to alice (best match)
//   - carol: moderate overlap
//   - dave:  already passed by alice (must be excluded)
//   - erin:  inactive account (must be excluded)
func seedMatchingData(t *testing.T, gdb *gorm.DB) {
	t.Helper()

	users := []db.User{
		{ID: "alice", StudentID: "s1", Email: "alice@test.edu", FirstName: "Alice", IsActive: true},
		{ID: "bob", StudentID: "s2", Email: "bob@test.edu", FirstName: "Bob", IsActive: true},
		{ID: "carol", StudentID: "s3", Email: "carol@test.edu", FirstName: "Carol", IsActive: true},
		{ID: "dave", StudentID: "s4", Email: "dave@test.edu", FirstName: "Dave", IsActive: true},
		{ID: "erin", StudentID: "s5", Email: "erin@test.edu", FirstName: "Erin", IsActive: false},
	}
	require.NoError(t, gdb.Create(&users).Error)

	surveys := []db.Survey{
		{
			UserID: "alice", BudgetMin: intPtr(500), BudgetMax: intPtr(800),
			WakeTime: db.WakeEarlyBird, Cleanliness: 4, NoiseTolerance: 3,
			StudyHabits: db.StudyLibrary, Interests: []string{"gaming", "anime"},
		},
		{
			UserID: "bob", BudgetMin: intPtr(550), BudgetMax: intPtr(750),
			WakeTime: db.WakeEarlyBird, Cleanliness: 4, NoiseTolerance: 3,
			StudyHabits: db.StudyLibrary, Interests: []string{"gaming", "anime"},
		},
		{
			UserID: "carol", BudgetMin: intPtr(600), BudgetMax: intPtr(900),
			WakeTime: db.WakeNightOwl, Cleanliness: 2, NoiseTolerance: 5,
			Interests: []string{"gaming"},
		},
		{
			UserID: "dave", BudgetMin: intPtr(500), BudgetMax: intPtr(800),
			WakeTime: db.WakeEarlyBird, Cleanliness: 4, NoiseTolerance: 3,
		},
		{
			UserID: "erin", BudgetMin: intPtr(500), BudgetMax: intPtr(800),
			WakeTime: db.WakeEarlyBird, Cleanliness: 4, NoiseTolerance: 3,
		},
	}
	require.NoError(t, gdb.Create(&surveys).Error)

	// alice already decided on dave
	require.NoError(t, gdb.Create(&db.Interaction{ActorID: "alice", TargetID: "dave", Liked: false}).Error)
}

// setupService spins up an in-memory SQLite DB, a miniredis, and wires
// everything into a match service. Each test gets its own isolated pair.
func setupService(t *testing.T) (*match.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))
	seedMatchingData(t, dbase)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests

	appCtx := app.New(cfg, dbase, redisCache, logger,
		auth.NewJWTVerifier("test-secret"), &mail.LogMailer{Logger: logger})
	return match.NewService(appCtx), dbase
}

func TestFindPotentialMatches_RanksAndExcludes(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	candidates, err := svc.FindPotentialMatches(ctx, "alice", 10)
	require.NoError(t, err)

	// dave is excluded (already passed), erin is inactive, alice never
	// sees herself; only bob and carol remain
	require.Len(t, candidates, 2)
	assert.Equal(t, "bob", candidates[0].User.ID)
	assert.Equal(t, "carol", candidates[1].User.ID)
	assert.Greater(t, candidates[0].CompatibilityScore, candidates[1].CompatibilityScore)

	// breakdown components sum to the clamped total
	bd := candidates[0].Breakdown
	assert.Equal(t, bd.Total, bd.Budget+bd.Lifestyle+bd.Interests+bd.Penalty)
}

func TestFindPotentialMatches_LimitTruncates(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	candidates, err := svc.FindPotentialMatches(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "bob", candidates[0].User.ID)
}

func TestFindPotentialMatches_ClampsOversizedLimit(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	// grow the pool well past the page-size ceiling
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("extra%02d", i)
		require.NoError(t, dbase.Create(&db.User{
			ID: id, StudentID: "x" + id, Email: id + "@test.edu", IsActive: true,
		}).Error)
		require.NoError(t, dbase.Create(&db.Survey{
			UserID: id, BudgetMin: intPtr(500), BudgetMax: intPtr(800),
			WakeTime: db.WakeEarlyBird, Cleanliness: 4, NoiseTolerance: 3,
		}).Error)
	}

	candidates, err := svc.FindPotentialMatches(ctx, "alice", 500)
	require.NoError(t, err)
	assert.Len(t, candidates, match.MaxPageSize)
}

func TestFindPotentialMatches_InvalidLimit(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.FindPotentialMatches(ctx, "alice", 0)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalidArgument, svcErr.KindOf(err))

	_, err = svc.FindPotentialMatches(ctx, "alice", -5)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalidArgument, svcErr.KindOf(err))
}

func TestFindPotentialMatches_RequiresSurvey(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.FindPotentialMatches(ctx, "no-survey-user", 10)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindPrerequisiteMissing, svcErr.KindOf(err))
}

func TestFindPotentialMatches_EmptyPool(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	// bob browses after alice and carol and dave are all decided on
	// and erin is inactive
	for _, target := range []string{"alice", "carol", "dave"} {
		_, err := svc.RecordDecision(ctx, "bob", target, false)
		require.NoError(t, err)
	}

	candidates, err := svc.FindPotentialMatches(ctx, "bob", 10)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindPotentialMatches_StableOrdering(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	first, err := svc.FindPotentialMatches(ctx, "alice", 10)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := svc.FindPotentialMatches(ctx, "alice", 10)
		require.NoError(t, err)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].User.ID, again[j].User.ID)
		}
	}
}

func TestRecordDecision_SelfIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	_, err := svc.RecordDecision(ctx, "alice", "alice", true)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalidArgument, svcErr.KindOf(err))

	// rejected decisions leave no ledger row behind
	var count int64
	require.NoError(t, dbase.Model(&db.Interaction{}).
		Where("actor_id = ? AND target_id = ?", "alice", "alice").
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRecordDecision_MutualLikeFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	res, err := svc.RecordDecision(ctx, "alice", "bob", true)
	require.NoError(t, err)
	assert.Equal(t, "liked", res.Status)
	assert.False(t, res.Mutual)

	res, err = svc.RecordDecision(ctx, "bob", "alice", true)
	require.NoError(t, err)
	assert.Equal(t, "liked", res.Status)
	assert.True(t, res.Mutual)

	// both now appear in each other's mutual listing
	matches, next, err := svc.ListMutualMatches(ctx, "alice", nil, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "bob", matches[0].User.ID)
	assert.Nil(t, next)

	// a later pass never un-matches the pair
	_, err = svc.RecordDecision(ctx, "bob", "alice", false)
	require.NoError(t, err)

	matches, _, err = svc.ListMutualMatches(ctx, "alice", nil, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "bob", matches[0].User.ID)
}

func TestRecordDecision_PassReportsNoMutual(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.RecordDecision(ctx, "alice", "bob", true)
	require.NoError(t, err)

	res, err := svc.RecordDecision(ctx, "bob", "alice", false)
	require.NoError(t, err)
	assert.Equal(t, "passed", res.Status)
	assert.False(t, res.Mutual)
}

func TestCountLikedYou_CacheAndFallback(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.RecordDecision(ctx, "bob", "alice", true)
	require.NoError(t, err)
	_, err = svc.RecordDecision(ctx, "carol", "alice", true)
	require.NoError(t, err)

	count, err := svc.CountLikedYou(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// a retraction decrements the cached counter
	_, err = svc.RecordDecision(ctx, "carol", "alice", false)
	require.NoError(t, err)

	count, err = svc.CountLikedYou(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCountLikedYou_RepeatsNeverDrift(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	// re-liking the same target counts once
	_, err := svc.RecordDecision(ctx, "bob", "alice", true)
	require.NoError(t, err)
	_, err = svc.RecordDecision(ctx, "bob", "alice", true)
	require.NoError(t, err)

	count, err := svc.CountLikedYou(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCountLikedYou_NeverNegative(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	// passes from users who never liked must not push the counter below 0
	_, err := svc.RecordDecision(ctx, "bob", "alice", false)
	require.NoError(t, err)
	_, err = svc.RecordDecision(ctx, "carol", "alice", false)
	require.NoError(t, err)

	count, err := svc.CountLikedYou(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
