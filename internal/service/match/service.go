package match

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/cache"
	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/matching"
	"github.com/meteormate/backend/internal/repository"
)

const (
	// DefaultPageSize applies when the caller omits a limit.
	DefaultPageSize = 10
	// MaxPageSize bounds per-request work; larger limits are clamped.
	MaxPageSize = 50

	// poolFactor over-fetches the candidate pool so post-filtering can
	// still fill a page without a second round-trip.
	poolFactor = 2
)

// Service implements candidate ranking and decision recording on top of
// the survey, interaction and user repositories.
type Service struct {
	appCtx       *app.AppContext
	surveys      *repository.SurveyRepository
	interactions *repository.InteractionRepository
	users        *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		surveys:      repository.NewSurveyRepository(appCtx.DB),
		interactions: repository.NewInteractionRepository(appCtx.DB),
		users:        repository.NewUserRepository(appCtx.DB),
	}
}

// CandidateSurvey is the redacted excerpt shown while browsing matches.
// The catch-all answers map is deliberately absent.
type CandidateSurvey struct {
	HousingIntent  db.HousingIntent `json:"housing_type"`
	BudgetRange    string           `json:"budget_range"`
	Cleanliness    int              `json:"cleanliness_level"`
	NoiseTolerance int              `json:"noise_level"`
	WakeTime       db.WakeTime      `json:"sleep_schedule"`
	Interests      []string         `json:"interests"`
}

// Candidate is one ranked match result. Ephemeral, never persisted.
type Candidate struct {
	User               repository.PublicUser `json:"user"`
	Survey             CandidateSurvey       `json:"survey"`
	CompatibilityScore float64               `json:"compatibility_score"`
	Breakdown          matching.Breakdown    `json:"score_breakdown"`
}

// DecisionResult reports the outcome of a recorded like or pass.
type DecisionResult struct {
	Status string `json:"status"` // "liked" or "passed"
	Mutual bool   `json:"mutual"`
}

// MutualMatch is one confirmed pair in the mutual-match listing.
type MutualMatch struct {
	User      repository.PublicUser `json:"user"`
	MatchedAt time.Time             `json:"matched_at"`
}

// FindPotentialMatches produces a bounded, ranked candidate list for the
// requester.
//
// Read-only: showing a candidate records nothing. The three reads are
// not a single snapshot; a slightly stale exclusion set is acceptable
// because matching is advisory.
func (s *Service) FindPotentialMatches(ctx context.Context, requesterID string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		return nil, svcErr.InvalidArgument("limit must be a positive integer")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	requesterSurvey, err := s.surveys.GetByUser(ctx, requesterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.PrerequisiteMissing("complete your survey first")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}

	excluded, err := s.interactions.ListInteractedTargets(ctx, requesterID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	excluded[requesterID] = struct{}{} // never match with yourself

	pool, err := s.surveys.ListExcluding(ctx, excluded, limit*poolFactor)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	candidates := make([]Candidate, 0, len(pool))
	for i := range pool {
		survey := &pool[i]

		user, err := s.users.GetPublicFields(ctx, survey.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// soft integrity inconsistency: skip, don't fail the request
			s.appCtx.Logger.Warn("candidate survey has no owning user", "user_id", survey.UserID)
			continue
		}
		if err != nil {
			return nil, svcErr.Map(err)
		}

		bd := matching.Score(requesterSurvey, survey)
		candidates = append(candidates, Candidate{
			User:               *user,
			Survey:             excerpt(survey),
			CompatibilityScore: bd.Total,
			Breakdown:          bd,
		})
	}

	// descending by score; ties broken by ascending user id so the
	// ordering is stable across repeated calls
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].CompatibilityScore != candidates[j].CompatibilityScore {
			return candidates[i].CompatibilityScore > candidates[j].CompatibilityScore
		}
		return candidates[i].User.ID < candidates[j].User.ID
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.appCtx.Logger.Info("found potential matches", "user_id", requesterID, "count", len(candidates))
	return candidates, nil
}

// RecordDecision appends a like/pass to the ledger and reports mutuality
// for likes. The repository runs the insert and the mutuality check as
// one transaction. A like toward someone who has ever liked back reports
// mutual=true; matches are terminal, so the report is idempotent.
func (s *Service) RecordDecision(ctx context.Context, actorID, targetID string, liked bool) (DecisionResult, error) {
	if actorID == targetID {
		return DecisionResult{}, svcErr.InvalidArgument("cannot decide on yourself")
	}
	if targetID == "" {
		return DecisionResult{}, svcErr.InvalidArgument("target user id is required")
	}

	mutual, prev, err := s.interactions.Append(ctx, actorID, targetID, liked)
	if err != nil {
		return DecisionResult{}, svcErr.Map(err)
	}

	// best-effort counter cache update, only when the effective like
	// state of the pair actually changed; repeats must not drift it
	key := s.appCtx.RedisCache.KeyForLikeCount(targetID)
	switch {
	case liked && (prev == nil || !*prev):
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
		_ = s.appCtx.RedisCache.Client.Expire(ctx, key, cache.LikeCountTTL).Err()
	case !liked && prev != nil && *prev:
		_, _ = s.appCtx.RedisCache.Decr(ctx, key)
		_ = s.appCtx.RedisCache.Client.Expire(ctx, key, cache.LikeCountTTL).Err()
	}

	status := "passed"
	if liked {
		status = "liked"
	}
	return DecisionResult{Status: status, Mutual: mutual}, nil
}

// ListMutualMatches returns the requester's confirmed matches with
// cursor pagination, enriched with public user fields.
func (s *Service) ListMutualMatches(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
) ([]MutualMatch, *string, error) {
	if limit <= 0 {
		return nil, nil, svcErr.InvalidArgument("limit must be a positive integer")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	rows, nextToken, err := s.interactions.ListMutualMatches(ctx, userID, paginationToken, limit)
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}

	matches := make([]MutualMatch, 0, len(rows))
	for _, row := range rows {
		user, err := s.users.GetPublicFields(ctx, row.TargetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.appCtx.Logger.Warn("mutual match with no owning user", "user_id", row.TargetID)
			continue
		}
		if err != nil {
			return nil, nil, svcErr.Map(err)
		}
		matches = append(matches, MutualMatch{User: *user, MatchedAt: row.CreatedAt})
	}

	return matches, nextToken, nil
}

// CountLikedYou returns how many users currently like the requester.
// Cache-first with a 1h TTL; the DB is the fallback and refills the cache.
func (s *Service) CountLikedYou(ctx context.Context, userID string) (int64, error) {
	if n, ok, err := s.appCtx.RedisCache.GetLikeCount(ctx, userID); err == nil && ok {
		return n, nil
	}

	count, err := s.interactions.CountLikers(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	_ = s.appCtx.RedisCache.UpdateLikeCount(ctx, userID, count)
	return count, nil
}

func excerpt(survey *db.Survey) CandidateSurvey {
	return CandidateSurvey{
		HousingIntent:  survey.HousingIntent,
		BudgetRange:    budgetRange(survey),
		Cleanliness:    survey.Cleanliness,
		NoiseTolerance: survey.NoiseTolerance,
		WakeTime:       survey.WakeTime,
		Interests:      survey.Interests,
	}
}

func budgetRange(survey *db.Survey) string {
	if survey.BudgetMin == nil || survey.BudgetMax == nil {
		return ""
	}
	return "$" + strconv.Itoa(*survey.BudgetMin) + "-$" + strconv.Itoa(*survey.BudgetMax)
}
