package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
)

// SurveyRepository provides data access for survey records. One survey
// per user; the user id is the primary key.
type SurveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(database *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: database}
}

// SurveyUpdate carries a partial update. Nil fields are left untouched;
// the Answers map is merged key-wise into the stored map.
type SurveyUpdate struct {
	HousingIntent     *db.HousingIntent
	BudgetMin         *int
	BudgetMax         *int
	MoveInDate        *time.Time
	LeaseLength       *db.LeaseLength
	WakeTime          *db.WakeTime
	Cleanliness       *int
	NoiseTolerance    *int
	StudyHabits       *db.StudyHabits
	CookingFrequency  *db.CookingFrequency
	PetPreference     *db.PetPreference
	GuestsFrequency   *db.GuestsFrequency
	RoommateCloseness *db.RoommateCloseness
	SmokeVape         *bool
	Drink             *bool
	Interests         *[]string
	Dealbreakers      *[]db.Dealbreaker
	Answers           map[string]any
}

// GetByUser returns the survey for the given user id.
func (r *SurveyRepository) GetByUser(ctx context.Context, userID string) (*db.Survey, error) {
	var survey db.Survey
	if err := r.db.WithContext(ctx).First(&survey, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

// Create inserts a new survey. A second survey for the same user fails
// with AlreadyExists via the primary-key constraint.
func (r *SurveyRepository) Create(ctx context.Context, survey *db.Survey) error {
	err := r.db.WithContext(ctx).Create(survey).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return svcErr.AlreadyExists("survey already exists")
	}
	return err
}

// Update applies a partial update to the user's survey. Only provided
// fields change; the catch-all answers map is merged, not replaced.
func (r *SurveyRepository) Update(ctx context.Context, userID string, upd SurveyUpdate) (*db.Survey, error) {
	var survey db.Survey
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&survey, "user_id = ?", userID).Error; err != nil {
			return err
		}

		applySurveyUpdate(&survey, upd)

		return tx.Save(&survey).Error
	})
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func applySurveyUpdate(survey *db.Survey, upd SurveyUpdate) {
	if upd.HousingIntent != nil {
		survey.HousingIntent = *upd.HousingIntent
	}
	if upd.BudgetMin != nil {
		survey.BudgetMin = upd.BudgetMin
	}
	if upd.BudgetMax != nil {
		survey.BudgetMax = upd.BudgetMax
	}
	if upd.MoveInDate != nil {
		survey.MoveInDate = upd.MoveInDate
	}
	if upd.LeaseLength != nil {
		survey.LeaseLength = *upd.LeaseLength
	}
	if upd.WakeTime != nil {
		survey.WakeTime = *upd.WakeTime
	}
	if upd.Cleanliness != nil {
		survey.Cleanliness = *upd.Cleanliness
	}
	if upd.NoiseTolerance != nil {
		survey.NoiseTolerance = *upd.NoiseTolerance
	}
	if upd.StudyHabits != nil {
		survey.StudyHabits = *upd.StudyHabits
	}
	if upd.CookingFrequency != nil {
		survey.CookingFrequency = *upd.CookingFrequency
	}
	if upd.PetPreference != nil {
		survey.PetPreference = *upd.PetPreference
	}
	if upd.GuestsFrequency != nil {
		survey.GuestsFrequency = *upd.GuestsFrequency
	}
	if upd.RoommateCloseness != nil {
		survey.RoommateCloseness = *upd.RoommateCloseness
	}
	if upd.SmokeVape != nil {
		survey.SmokeVape = *upd.SmokeVape
	}
	if upd.Drink != nil {
		survey.Drink = *upd.Drink
	}
	if upd.Interests != nil {
		survey.Interests = *upd.Interests
	}
	if upd.Dealbreakers != nil {
		survey.Dealbreakers = *upd.Dealbreakers
	}
	if len(upd.Answers) > 0 {
		if survey.Answers == nil {
			survey.Answers = map[string]any{}
		}
		for k, v := range upd.Answers {
			survey.Answers[k] = v
		}
	}
}

// ListExcluding fetches a bounded batch of surveys whose user ids are
// not in the exclusion set and whose owning account is active. Ordered
// by user id so repeated calls over unchanged data see the same pool.
func (r *SurveyRepository) ListExcluding(
	ctx context.Context,
	excluded map[string]struct{},
	limit int,
) ([]db.Survey, error) {
	ids := make([]string, 0, len(excluded))
	for id := range excluded {
		ids = append(ids, id)
	}

	query := r.db.WithContext(ctx).
		Table("surveys s").
		Joins("JOIN users u ON u.id = s.user_id AND u.is_active = ?", true).
		Select("s.*").
		Order("s.user_id ASC").
		Limit(limit)
	if len(ids) > 0 {
		query = query.Where("s.user_id NOT IN ?", ids)
	}

	var surveys []db.Survey
	if err := query.Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}
