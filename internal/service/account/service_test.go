package account_test

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
	"github.com/meteormate/backend/internal/service/account"
)

func setupService(t *testing.T) *account.Service {
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

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	appCtx := app.New(cfg, dbase, cache.NewRedisCache(cfg), logger,
		auth.NewJWTVerifier("test-secret"), &mail.LogMailer{Logger: logger})
	return account.NewService(appCtx)
}

func TestRegister_SeedsVerifiedFlagFromIdentity(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	req := account.RegisterRequest{StudentID: "mm1000001", FirstName: "Alice", LastName: "Nguyen"}

	user, err := svc.Register(ctx, auth.Identity{
		UserID: "alice", Email: "alice@test.edu", EmailVerified: true,
	}, req)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified, "provider-vouched identity skips the code flow")
	assert.True(t, user.IsActive)

	req.StudentID = "mm1000002"
	user, err = svc.Register(ctx, auth.Identity{
		UserID: "bob", Email: "bob@test.edu", EmailVerified: false,
	}, req)
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	ident := auth.Identity{UserID: "alice", Email: "alice@test.edu"}
	req := account.RegisterRequest{StudentID: "mm1000001", FirstName: "Alice", LastName: "Nguyen"}

	_, err := svc.Register(ctx, ident, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, ident, req)
	require.Error(t, err)
	assert.Equal(t, svcErr.KindAlreadyExists, svcErr.KindOf(err))
}

func TestRequestVerification_AlreadyVerified(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.Register(ctx, auth.Identity{
		UserID: "alice", Email: "alice@test.edu", EmailVerified: true,
	}, account.RegisterRequest{StudentID: "mm1000001", FirstName: "Alice", LastName: "Nguyen"})
	require.NoError(t, err)

	err = svc.RequestVerification(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalidArgument, svcErr.KindOf(err))
}

func TestCompleteVerification_WrongCode(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.Register(ctx, auth.Identity{
		UserID: "alice", Email: "alice@test.edu",
	}, account.RegisterRequest{StudentID: "mm1000001", FirstName: "Alice", LastName: "Nguyen"})
	require.NoError(t, err)

	require.NoError(t, svc.RequestVerification(ctx, "alice"))

	// issued codes are numeric, so this can never match
	err = svc.CompleteVerification(ctx, "alice", "nope42")
	require.Error(t, err)
	assert.Equal(t, svcErr.KindInvalidArgument, svcErr.KindOf(err))
}
