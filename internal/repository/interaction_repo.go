package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meteormate/backend/internal/db"
	"github.com/meteormate/backend/internal/utils/pagination"
)

// InteractionRepository provides data access for the like/pass ledger.
//
// The ledger is append-only: re-deciding on the same target inserts a
// new row, and the current state of an ordered pair is its most recent
// row. The exclusion set keys on row existence regardless of outcome.
// Matches are terminal: once reciprocal likes have existed, a later
// pass by either party does not remove the pair from the mutual listing.
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new repository bound to the given DB connection.
func NewInteractionRepository(database *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: database}
}

// latestRowFilter restricts alias i to the most recent row per
// (actor_id, target_id) pair.
const latestRowFilter = `i.id = (
	SELECT MAX(id) FROM interactions
	WHERE actor_id = i.actor_id AND target_id = i.target_id
)`

// Append inserts one ledger row and, for likes, reports whether the
// pair is mutually matched. A match forms once a like row exists in
// both directions and is never revoked by later passes.
//
// Also returns the actor's previous latest decision on the target (nil
// when this is their first), so callers can tell state transitions from
// repeats.
//
// The insert and the mutuality check run in a single transaction with a
// locking read of the reverse direction, so two concurrent reciprocal
// likes cannot both observe "the other side hasn't liked yet": exactly
// one of them commits second and sees the other's row.
func (r *InteractionRepository) Append(
	ctx context.Context,
	actorID, targetID string,
	liked bool,
) (bool, *bool, error) {
	var (
		mutual bool
		prev   *bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last db.Interaction
		err := tx.Where("actor_id = ? AND target_id = ?", actorID, targetID).
			Order("id DESC").
			First(&last).Error
		if err == nil {
			v := last.Liked
			prev = &v
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row := db.Interaction{ActorID: actorID, TargetID: targetID, Liked: liked}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if !liked {
			return nil // passes never check mutuality
		}

		query := tx.Where("actor_id = ? AND target_id = ? AND liked = ?", targetID, actorID, true)
		// SQLite serializes writers on its own; the lock only matters
		// under MySQL's snapshot isolation.
		if tx.Dialector.Name() == "mysql" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var reverse db.Interaction
		err = query.First(&reverse).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		mutual = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return mutual, prev, nil
}

// ListInteractedTargets returns every user id the actor has already
// decided on, liked or passed. Used as the candidate exclusion set.
func (r *InteractionRepository) ListInteractedTargets(
	ctx context.Context,
	actorID string,
) (map[string]struct{}, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&db.Interaction{}).
		Distinct("target_id").
		Where("actor_id = ?", actorID).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// HasLiked reports whether the actor's most recent decision on the
// target is a like.
func (r *InteractionRepository) HasLiked(
	ctx context.Context,
	actorID, targetID string,
) (bool, error) {
	var row db.Interaction
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return row.Liked, nil
}

// CountLikers returns how many users currently like the given user,
// latest row per pair winning. DB fallback behind the Redis counter.
func (r *InteractionRepository) CountLikers(
	ctx context.Context,
	userID string,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("interactions i").
		Where("i.target_id = ? AND i.liked = ?", userID, true).
		Where(latestRowFilter).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListMutualMatches returns the user's confirmed matches: pairs where a
// like row has ever existed in both directions. Matches are terminal,
// so later passes never shrink this listing.
//
// Each pair is represented by the user's first like toward the partner;
// its created_at doubles as the matched-at timestamp. Ordered by
// created_at DESC, target_id DESC with cursor-based pagination.
func (r *InteractionRepository) ListMutualMatches(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
) ([]db.Interaction, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("interactions i").
		Where("i.actor_id = ? AND i.liked = ?", userID, true).
		Where(`i.id = (
			SELECT MIN(id) FROM interactions
			WHERE actor_id = i.actor_id AND target_id = i.target_id AND liked = ?
		)`, true).
		Where(`EXISTS (
			SELECT 1 FROM interactions r
			WHERE r.actor_id = i.target_id
			  AND r.target_id = i.actor_id
			  AND r.liked = ?
		)`, true).
		Order("i.created_at DESC, i.target_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.UserID != "" && cursor.MatchedUnix > 0 {
		ts := time.UnixMilli(cursor.MatchedUnix)
		query = query.Where(
			"(i.created_at < ? OR (i.created_at = ? AND i.target_id < ?))",
			ts, ts, cursor.UserID,
		)
	}

	var rows []db.Interaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			UserID:      last.TargetID,
			MatchedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	return rows, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
