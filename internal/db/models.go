package db

import (
	"time"
)

// Closed category values for survey fields. The empty string is the
// explicit "unset / no preference" state; the scorer treats it as a
// neutral, non-penalizing contribution.
type (
	HousingIntent       string
	WakeTime            string
	StudyHabits         string
	CookingFrequency    string
	PetPreference       string
	GuestsFrequency     string
	RoommateCloseness   string
	LeaseLength         string
	Dealbreaker         string
	Gender              string
	Classification      string
	InactivityStage     string
	VerificationPurpose string
)

const (
	HousingOnCampus  HousingIntent = "on_campus"
	HousingOffCampus HousingIntent = "off_campus"
	HousingBoth      HousingIntent = "both"

	WakeEarlyBird WakeTime = "early_bird"
	WakeFlexible  WakeTime = "flexible"
	WakeNightOwl  WakeTime = "night_owl"

	StudyLibrary     StudyHabits = "library"
	StudyRoom        StudyHabits = "room"
	StudyCommonAreas StudyHabits = "common_areas"

	CookingNever  CookingFrequency = "never"
	CookingRarely CookingFrequency = "rarely"
	CookingOften  CookingFrequency = "often"

	PetOkay     PetPreference = "okay"
	PetNotOkay  PetPreference = "not_okay"
	PetHaveAPet PetPreference = "have_a_pet"

	GuestsNever     GuestsFrequency = "never"
	GuestsSometimes GuestsFrequency = "sometimes"
	GuestsOften     GuestsFrequency = "often"

	ClosenessNotClose     RoommateCloseness = "not_close"
	ClosenessFriends      RoommateCloseness = "friends"
	ClosenessCloseFriends RoommateCloseness = "close_friends"

	LeaseSemester     LeaseLength = "semester"
	LeaseAcademicYear LeaseLength = "academic_year"
	LeaseYear         LeaseLength = "year"

	DealbreakerSmokeVape  Dealbreaker = "smoke_vape"
	DealbreakerDrink      Dealbreaker = "drink"
	DealbreakerPets       Dealbreaker = "pets"
	DealbreakerSameGender Dealbreaker = "same_gender"

	StageOneMonth InactivityStage = "one_month"
	StageOneWeek  InactivityStage = "one_week"
	StageInactive InactivityStage = "inactive"

	PurposeVerify   VerificationPurpose = "verify"
	PurposePwdReset VerificationPurpose = "pwd_reset"
)

// User is the identity anchor. The primary key is the opaque id issued
// by the external identity provider.
type User struct {
	ID        string `gorm:"primaryKey;size:128"`
	StudentID string `gorm:"uniqueIndex;size:32"`
	Email     string `gorm:"uniqueIndex;size:128;not null"`
	FirstName string `gorm:"size:64"`
	LastName  string `gorm:"size:64"`

	EmailVerified bool `gorm:"not null;default:false"`
	// No column default: gorm skips zero-value fields that carry one, so
	// a default of true would turn Create(IsActive: false) into an active
	// row. Every create path sets the flag explicitly.
	IsActive bool `gorm:"not null"`

	// Staged dormancy notices; nil means no notice sent yet.
	InactivityStage      *InactivityStage `gorm:"size:16"`
	LastInactivityNotice *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// UserProfile holds the public, match-browsing profile. One per user.
type UserProfile struct {
	UserID         string         `gorm:"primaryKey;size:128"`
	Gender         Gender         `gorm:"size:32"`
	Major          string         `gorm:"size:128"`
	Classification Classification `gorm:"size:16"`
	HousingIntent  HousingIntent  `gorm:"size:16;not null;default:both"`
	LLC            *bool
	Bio            string `gorm:"type:text"`
	PictureURL     string `gorm:"size:512"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Survey is the one-per-user preference record the scorer consumes.
// Optional fields are pointers or empty-string categories; absence means
// "no preference" and never penalizes a pair.
type Survey struct {
	UserID string `gorm:"primaryKey;size:128"`

	// Housing
	HousingIntent HousingIntent `gorm:"size:16"`
	BudgetMin     *int
	BudgetMax     *int
	MoveInDate    *time.Time
	LeaseLength   LeaseLength `gorm:"size:16"`

	// Lifestyle
	WakeTime          WakeTime          `gorm:"size:16"`
	Cleanliness       int               `gorm:"not null;default:0"` // 1-5 scale, 0 = unset
	NoiseTolerance    int               `gorm:"not null;default:0"` // 1-5 scale, 0 = unset
	StudyHabits       StudyHabits       `gorm:"size:16"`
	CookingFrequency  CookingFrequency  `gorm:"size:16"`
	PetPreference     PetPreference     `gorm:"size:16"`
	GuestsFrequency   GuestsFrequency   `gorm:"size:16"`
	RoommateCloseness RoommateCloseness `gorm:"size:16"`

	// Traits the dealbreaker conflict table checks against.
	SmokeVape bool `gorm:"not null;default:false"`
	Drink     bool `gorm:"not null;default:false"`

	Interests    []string      `gorm:"serializer:json;type:text"`
	Dealbreakers []Dealbreaker `gorm:"serializer:json;type:text"`

	// Catch-all for answers not yet promoted to typed columns.
	// Merged key-wise on partial updates, never replaced wholesale.
	Answers map[string]any `gorm:"serializer:json;type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Interaction is one row of the append-only like/pass ledger.
//
// The current state of an ordered pair (actor, target) is its most
// recent row; the exclusion set keys on row existence regardless of
// outcome.
//
// Index idx_actor_target(actor_id, target_id, id DESC) serves both the
// latest-row lookup and the exclusion-set scan.
type Interaction struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	ActorID  string `gorm:"size:128;not null;index:idx_actor_target,priority:1;index:idx_target_actor,priority:2"`
	TargetID string `gorm:"size:128;not null;index:idx_actor_target,priority:2;index:idx_target_actor,priority:1"`
	Liked    bool   `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// VerificationCode is a short-lived emailed code, stored hashed.
// Rows expire 10 minutes after creation and are purged by the cron sweep.
type VerificationCode struct {
	ID       uint64              `gorm:"primaryKey;autoIncrement"`
	UserID   string              `gorm:"size:128;not null;index"`
	CodeHash string              `gorm:"size:255;not null"`
	Purpose  VerificationPurpose `gorm:"size:16;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
