package account

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/auth"
	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/repository"
)

// Service implements account registration and the email verification
// flow. Credentials live with the external identity provider; this
// service only owns the account row and the emailed codes.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	codes  *repository.CodeRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		codes:  repository.NewCodeRepository(appCtx.DB),
	}
}

type RegisterRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	FirstName string `json:"first_name" binding:"required,min=2,max=50"`
	LastName  string `json:"last_name" binding:"required,min=2,max=50"`
}

// Register creates the account row for an identity the provider has
// already issued. An identity the provider vouches for skips the email
// code flow. Duplicate id, email or student id → AlreadyExists.
func (s *Service) Register(ctx context.Context, ident auth.Identity, in RegisterRequest) (*db.User, error) {
	user := &db.User{
		ID:            ident.UserID,
		StudentID:     in.StudentID,
		Email:         ident.Email,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		EmailVerified: ident.EmailVerified,
		IsActive:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("account registered", "user_id", ident.UserID)
	return user, nil
}

// GetMe returns the caller's account row and bumps the activity marker
// the dormancy sweeps read.
func (s *Service) GetMe(ctx context.Context, userID string) (*db.User, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("user")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}

	_ = s.users.Touch(ctx, userID)
	return user, nil
}

// RequestVerification stores a fresh 6-digit code and emails it.
// Delivery failures are logged, not retried.
func (s *Service) RequestVerification(ctx context.Context, userID string) error {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("user")
	}
	if err != nil {
		return svcErr.Map(err)
	}
	if user.EmailVerified {
		return svcErr.InvalidArgument("email already verified")
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	if err := s.codes.Create(ctx, userID, code, db.PurposeVerify); err != nil {
		return svcErr.Map(err)
	}

	go func() {
		if err := s.appCtx.Mailer.SendVerificationCode(context.Background(), user.Email, code); err != nil {
			s.appCtx.Logger.Error("failed to send verification email", "user_id", userID, "err", err)
		}
	}()

	s.appCtx.Logger.Info("verification code issued", "user_id", userID)
	return nil
}

// CompleteVerification checks the code and marks the email verified.
// The code is consumed on success.
func (s *Service) CompleteVerification(ctx context.Context, userID, code string) error {
	if err := s.codes.VerifyLatest(ctx, userID, code, db.PurposeVerify, true); err != nil {
		return svcErr.Map(err)
	}
	if err := s.users.SetEmailVerified(ctx, userID); err != nil {
		return svcErr.Map(err)
	}

	s.appCtx.Logger.Info("email verified", "user_id", userID)
	return nil
}
