package survey

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/repository"
)

// Service implements survey CRUD: one survey per user, created once,
// amended via partial updates.
type Service struct {
	appCtx  *app.AppContext
	surveys *repository.SurveyRepository
	users   *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		surveys: repository.NewSurveyRepository(appCtx.DB),
		users:   repository.NewUserRepository(appCtx.DB),
	}
}

// Payload carries survey fields for both creation and partial update.
// Nil means "not provided". Budget inversion (min > max) is tolerated;
// the scorer's overlap formula handles it.
type Payload struct {
	HousingIntent     *db.HousingIntent     `json:"housing_intent" binding:"omitempty,oneof=on_campus off_campus both"`
	BudgetMin         *int                  `json:"budget_min" binding:"omitempty,min=0"`
	BudgetMax         *int                  `json:"budget_max" binding:"omitempty,min=0"`
	MoveInDate        *time.Time            `json:"move_in_date"`
	LeaseLength       *db.LeaseLength       `json:"lease_length" binding:"omitempty,oneof=semester academic_year year"`
	WakeTime          *db.WakeTime          `json:"wake_time" binding:"omitempty,oneof=early_bird flexible night_owl"`
	Cleanliness       *int                  `json:"cleanliness_level" binding:"omitempty,min=1,max=5"`
	NoiseTolerance    *int                  `json:"noise_level" binding:"omitempty,min=1,max=5"`
	StudyHabits       *db.StudyHabits       `json:"study_habits" binding:"omitempty,oneof=library room common_areas"`
	CookingFrequency  *db.CookingFrequency  `json:"cooking_frequency" binding:"omitempty,oneof=never rarely often"`
	PetPreference     *db.PetPreference     `json:"pet_preference" binding:"omitempty,oneof=okay not_okay have_a_pet"`
	GuestsFrequency   *db.GuestsFrequency   `json:"guests_frequency" binding:"omitempty,oneof=never sometimes often"`
	RoommateCloseness *db.RoommateCloseness `json:"roommate_closeness" binding:"omitempty,oneof=not_close friends close_friends"`
	SmokeVape         *bool                 `json:"smoke_vape"`
	Drink             *bool                 `json:"drink"`
	Interests         *[]string             `json:"interests"`
	Dealbreakers      *[]db.Dealbreaker     `json:"dealbreakers" binding:"omitempty,dive,oneof=smoke_vape drink pets same_gender"`
	Answers           map[string]any        `json:"answers"`
}

// Create stores the user's survey. Fails with AlreadyExists if one is
// already on record.
func (s *Service) Create(ctx context.Context, userID string, in Payload) (*db.Survey, error) {
	if _, err := s.users.Get(ctx, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("user")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}

	survey := &db.Survey{
		UserID:       userID,
		Interests:    []string{},
		Dealbreakers: []db.Dealbreaker{},
		Answers:      map[string]any{},
	}
	applyPayload(survey, in)

	if err := s.surveys.Create(ctx, survey); err != nil {
		return nil, svcErr.Map(err)
	}

	_ = s.users.Touch(ctx, userID)

	s.appCtx.Logger.Info("survey created", "user_id", userID)
	return survey, nil
}

// GetMine returns the caller's survey.
func (s *Service) GetMine(ctx context.Context, userID string) (*db.Survey, error) {
	survey, err := s.surveys.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("survey")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return survey, nil
}

// Update applies a partial update; only provided fields change and the
// answers map is merged key-wise.
func (s *Service) Update(ctx context.Context, userID string, in Payload) (*db.Survey, error) {
	survey, err := s.surveys.Update(ctx, userID, toUpdate(in))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("survey")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}

	_ = s.users.Touch(ctx, userID)

	s.appCtx.Logger.Info("survey updated", "user_id", userID)
	return survey, nil
}

func applyPayload(survey *db.Survey, in Payload) {
	upd := toUpdate(in)
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
	for k, v := range upd.Answers {
		survey.Answers[k] = v
	}
}

func toUpdate(in Payload) repository.SurveyUpdate {
	return repository.SurveyUpdate{
		HousingIntent:     in.HousingIntent,
		BudgetMin:         in.BudgetMin,
		BudgetMax:         in.BudgetMax,
		MoveInDate:        in.MoveInDate,
		LeaseLength:       in.LeaseLength,
		WakeTime:          in.WakeTime,
		Cleanliness:       in.Cleanliness,
		NoiseTolerance:    in.NoiseTolerance,
		StudyHabits:       in.StudyHabits,
		CookingFrequency:  in.CookingFrequency,
		PetPreference:     in.PetPreference,
		GuestsFrequency:   in.GuestsFrequency,
		RoommateCloseness: in.RoommateCloseness,
		SmokeVape:         in.SmokeVape,
		Drink:             in.Drink,
		Interests:         in.Interests,
		Dealbreakers:      in.Dealbreakers,
		Answers:           in.Answers,
	}
}
