package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
)

// PublicUser is the minimal projection exposed in candidate results.
type PublicUser struct {
	ID        string `json:"uid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserRepository provides data access for user accounts, including the
// lifecycle sweeps the cron endpoints drive.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new account row. Duplicate id, email or student id
// surfaces as AlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.AlreadyExists("account already exists")
	}
	return err
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPublicFields resolves the minimal public projection of a user.
func (r *UserRepository) GetPublicFields(ctx context.Context, userID string) (*PublicUser, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Select("id", "first_name", "last_name").
		First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &PublicUser{ID: user.ID, FirstName: user.FirstName, LastName: user.LastName}, nil
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Update("email_verified", true).Error
}

// Touch bumps updated_at, which doubles as the last-activity marker the
// dormancy sweeps read, and reactivates a dormant account.
func (r *UserRepository) Touch(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"updated_at":             time.Now().UTC(),
			"is_active":              true,
			"inactivity_stage":       nil,
			"last_inactivity_notice": nil,
		}).Error
}

// MarkInactiveBefore soft-retires accounts dormant since before cutoff.
// Returns how many rows changed.
func (r *UserRepository) MarkInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("is_active = ? AND updated_at < ?", true, cutoff).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// DeleteInactiveBefore hard-deletes accounts soft-retired since before
// cutoff, with their survey, profile and codes removed first. The
// explicit ordering replaces ORM cascade magic.
func (r *UserRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&db.User{}).
			Where("is_active = ? AND updated_at < ?", false, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("user_id IN ?", ids).Delete(&db.VerificationCode{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id IN ?", ids).Delete(&db.Survey{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id IN ?", ids).Delete(&db.UserProfile{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&db.User{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// ListForInactivityStage returns active-side accounts dormant since
// before cutoff whose last notice is prevStage (nil = no notice yet).
func (r *UserRepository) ListForInactivityStage(
	ctx context.Context,
	cutoff time.Time,
	prevStage *db.InactivityStage,
) ([]db.User, error) {
	query := r.db.WithContext(ctx).Where("updated_at < ?", cutoff)
	if prevStage == nil {
		query = query.Where("inactivity_stage IS NULL")
	} else {
		query = query.Where("inactivity_stage = ?", *prevStage)
	}

	var users []db.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetInactivityStage records that a notice for the given stage went out.
func (r *UserRepository) SetInactivityStage(ctx context.Context, userID string, stage db.InactivityStage) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"inactivity_stage":       stage,
			"last_inactivity_notice": time.Now().UTC(),
		}).Error
}
