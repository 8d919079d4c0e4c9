// Package matching implements the compatibility scoring heuristic.
//
// Score is a pure function of two surveys: no I/O, no failure modes,
// deterministic for identical inputs. Missing or unset fields contribute
// a neutral zero instead of penalizing incomplete surveys.
package matching

import (
	"github.com/meteormate/backend/internal/db"
)

// Fixed weights. Positive contributions total 100; the dealbreaker
// penalty is an independent veto large enough to override all of them.
const (
	budgetWeight       = 30
	lifestyleWeight    = 40
	interestPointsEach = 5
	interestCap        = 20
	dealbreakerPenalty = 50

	// ordinalTolerance is the max |Δ| on the 1-5 scales that still earns
	// proximity points: 10 - 2|Δ|.
	ordinalTolerance = 2
	ordinalMax       = 10
	exactMatchPoints = 10
)

// Breakdown carries the weighted sub-scores alongside the clamped total
// so callers can explain why a pair scored the way it did.
type Breakdown struct {
	Budget    float64 `json:"budget"`
	Lifestyle float64 `json:"lifestyle"`
	Interests float64 `json:"interests"`
	Penalty   float64 `json:"dealbreaker_penalty"`
	Total     float64 `json:"total"`
}

// Score computes the compatibility of two surveys in [0, 100].
//
// The dealbreaker conflict table is evaluated in both directions, so
// Score(a, b) == Score(b, a).
func Score(a, b *db.Survey) Breakdown {
	var bd Breakdown

	// budget compatibility (30% weight)
	if budgetsOverlap(a, b) {
		bd.Budget = budgetWeight
	}

	// lifestyle compatibility (40% weight)
	lifestyle := 0.0
	lifestyle += ordinalProximity(a.Cleanliness, b.Cleanliness)
	lifestyle += ordinalProximity(a.NoiseTolerance, b.NoiseTolerance)
	if a.WakeTime != "" && a.WakeTime == b.WakeTime {
		lifestyle += exactMatchPoints
	}
	if a.StudyHabits != "" && a.StudyHabits == b.StudyHabits {
		lifestyle += exactMatchPoints
	}
	if lifestyle > lifestyleWeight {
		lifestyle = lifestyleWeight
	}
	bd.Lifestyle = lifestyle

	// interests compatibility (20% weight): 5 points per shared interest
	common := sharedInterests(a.Interests, b.Interests)
	interests := float64(common * interestPointsEach)
	if interests > interestCap {
		interests = interestCap
	}
	bd.Interests = interests

	// dealbreakers (-50 if any conflict, either direction)
	if hasDealbreakerConflict(a, b) {
		bd.Penalty = -dealbreakerPenalty
	}

	bd.Total = clamp(bd.Budget+bd.Lifestyle+bd.Interests+bd.Penalty, 0, 100)
	return bd
}

// budgetsOverlap reports whether the two ranges [min,max] intersect.
// Missing bounds are unconstrained, so incomplete surveys always overlap.
// The formula tolerates inverted ranges (min > max) by construction.
func budgetsOverlap(a, b *db.Survey) bool {
	if a.BudgetMax != nil && b.BudgetMin != nil && *a.BudgetMax < *b.BudgetMin {
		return false
	}
	if b.BudgetMax != nil && a.BudgetMin != nil && *b.BudgetMax < *a.BudgetMin {
		return false
	}
	return true
}

// ordinalProximity scores two 1-5 ordinals: 10 - 2|Δ| within tolerance,
// else 0. Zero means unset and scores 0 without penalizing.
func ordinalProximity(a, b int) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff > ordinalTolerance {
		return 0
	}
	return float64(ordinalMax - diff*2)
}

func sharedInterests(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			count++
		}
	}
	return count
}

// hasDealbreakerConflict checks each party's dealbreakers against the
// other's traits. The table is closed: smoke_vape, drink, pets.
// same_gender is a pool-filtering concern and is never scored here.
func hasDealbreakerConflict(a, b *db.Survey) bool {
	return conflictsWith(a.Dealbreakers, b) || conflictsWith(b.Dealbreakers, a)
}

func conflictsWith(dealbreakers []db.Dealbreaker, other *db.Survey) bool {
	for _, d := range dealbreakers {
		switch d {
		case db.DealbreakerSmokeVape:
			if other.SmokeVape {
				return true
			}
		case db.DealbreakerDrink:
			if other.Drink {
				return true
			}
		case db.DealbreakerPets:
			if other.PetPreference == db.PetHaveAPet {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
