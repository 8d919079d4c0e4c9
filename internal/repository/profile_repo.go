package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meteormate/backend/internal/db"
)

// ProfileRepository provides data access for user profiles.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*db.UserProfile, error) {
	var profile db.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or replaces the user's profile. Profiles have no
// partial-merge semantics; the client always submits the full document.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *db.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"gender", "major", "classification", "housing_intent",
				"llc", "bio", "picture_url", "updated_at",
			}),
		}).
		Create(profile).Error
}
