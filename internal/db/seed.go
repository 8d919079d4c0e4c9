package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var seedInterests = []string{
	"gaming", "anime", "gym", "cooking", "hiking",
	"music", "movies", "esports", "reading", "basketball",
}

// SeedDemoData resets the database and populates it with demo users,
// surveys and interactions.
//
// Behavior:
//  1. Clears existing rows in all tables.
//  2. Creates 20 users with uuid ids, profiles and varied surveys.
//  3. Generates ~200 interactions with ~70% likes; every 3rd pair is
//     forced mutual so the mutual-match endpoints have data.
func SeedDemoData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"interactions", "verification_codes", "surveys", "user_profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	wakeTimes := []WakeTime{WakeEarlyBird, WakeFlexible, WakeNightOwl}
	studyHabits := []StudyHabits{StudyLibrary, StudyRoom, StudyCommonAreas}
	genders := []Gender{"female", "male", "non_binary", "prefer_not_to_say"}

	ids := make([]string, 0, 20)
	for i := 1; i <= 20; i++ {
		uid := uuid.NewString()
		ids = append(ids, uid)

		user := User{
			ID:            uid,
			StudentID:     fmt.Sprintf("mm%07d", 1000000+i),
			Email:         fmt.Sprintf("user%d@example.edu", i),
			FirstName:     fmt.Sprintf("Demo%d", i),
			LastName:      "Student",
			EmailVerified: true,
			IsActive:      true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		profile := UserProfile{
			UserID:        uid,
			Gender:        genders[i%len(genders)],
			Major:         "Computer Science",
			HousingIntent: HousingBoth,
			Bio:           fmt.Sprintf("Hi, I'm Demo%d! Looking for a roommate.", i),
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}

		budgetMin := 400 + r.Intn(5)*100
		budgetMax := budgetMin + 200 + r.Intn(4)*100
		interests := make([]string, 0, 4)
		for _, j := range r.Perm(len(seedInterests))[:4] {
			interests = append(interests, seedInterests[j])
		}

		survey := Survey{
			UserID:         uid,
			HousingIntent:  HousingBoth,
			BudgetMin:      &budgetMin,
			BudgetMax:      &budgetMax,
			WakeTime:       wakeTimes[r.Intn(len(wakeTimes))],
			Cleanliness:    1 + r.Intn(5),
			NoiseTolerance: 1 + r.Intn(5),
			StudyHabits:    studyHabits[r.Intn(len(studyHabits))],
			SmokeVape:      r.Intn(10) == 0,
			Drink:          r.Intn(4) == 0,
			Interests:      interests,
			Dealbreakers:   []Dealbreaker{},
			Answers:        map[string]any{},
		}
		if !survey.SmokeVape && r.Intn(3) == 0 {
			survey.Dealbreakers = append(survey.Dealbreakers, DealbreakerSmokeVape)
		}
		if err := db.Create(&survey).Error; err != nil {
			return fmt.Errorf("failed to seed survey: %w", err)
		}
	}
	log.Println("Seeded 20 users with profiles and surveys.")

	counter := 0
	for i := range ids {
		for j := 0; j < 10; j++ {
			target := ids[r.Intn(len(ids))]
			if target == ids[i] {
				continue
			}

			liked := r.Intn(100) < 70

			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				liked = true
				recip := Interaction{ActorID: target, TargetID: ids[i], Liked: true}
				if err := db.Create(&recip).Error; err != nil {
					return fmt.Errorf("failed to seed interaction: %w", err)
				}
			}

			decision := Interaction{ActorID: ids[i], TargetID: target, Liked: liked}
			if err := db.Create(&decision).Error; err != nil {
				return fmt.Errorf("failed to seed interaction: %w", err)
			}

			counter++
		}
	}
	log.Printf("Seeded %d interactions.", counter)

	return nil
}
