package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/repository"
)

// Service implements profile CRUD. Profiles are the public face of an
// account; surveys stay private to matching.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
	users    *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
		users:    repository.NewUserRepository(appCtx.DB),
	}
}

type Payload struct {
	Gender         db.Gender         `json:"gender" binding:"omitempty,oneof=female male non_binary prefer_not_to_say other"`
	Major          string            `json:"major" binding:"max=128"`
	Classification db.Classification `json:"classification" binding:"omitempty,oneof=freshman sophomore junior senior graduate"`
	HousingIntent  db.HousingIntent  `json:"housing_intent" binding:"omitempty,oneof=on_campus off_campus both"`
	LLC            *bool             `json:"llc"`
	Bio            string            `json:"bio" binding:"max=2000"`
	PictureURL     string            `json:"profile_picture_url" binding:"omitempty,url"`
}

// Upsert creates or replaces the caller's profile.
func (s *Service) Upsert(ctx context.Context, userID string, in Payload) (*db.UserProfile, error) {
	if _, err := s.users.Get(ctx, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("user")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}

	p := &db.UserProfile{
		UserID:         userID,
		Gender:         in.Gender,
		Major:          in.Major,
		Classification: in.Classification,
		HousingIntent:  in.HousingIntent,
		LLC:            in.LLC,
		Bio:            in.Bio,
		PictureURL:     in.PictureURL,
	}
	if p.HousingIntent == "" {
		p.HousingIntent = db.HousingBoth
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, svcErr.Map(err)
	}

	_ = s.users.Touch(ctx, userID)

	s.appCtx.Logger.Info("profile saved", "user_id", userID)
	return p, nil
}

// GetMine returns the caller's own profile.
func (s *Service) GetMine(ctx context.Context, userID string) (*db.UserProfile, error) {
	return s.get(ctx, userID)
}

// GetPublic returns another user's profile for match browsing.
// Inactive accounts are hidden.
func (s *Service) GetPublic(ctx context.Context, userID string) (*db.UserProfile, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("user")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !user.IsActive {
		return nil, svcErr.NotFound("user")
	}

	return s.get(ctx, userID)
}

func (s *Service) get(ctx context.Context, userID string) (*db.UserProfile, error) {
	p, err := s.profiles.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("profile")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return p, nil
}
