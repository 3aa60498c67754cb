package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/reaction"
)

// ReactionRepo stores reactions in Postgres. The two unique constraints on
// the reactions table are the only concurrency control: Insert relies on
// ON CONFLICT DO NOTHING and Delete on DELETE ... RETURNING.
type ReactionRepo struct {
	pool *pgxpool.Pool
	q    querier
}

func NewReactionRepo(pool *pgxpool.Pool) *ReactionRepo {
	return &ReactionRepo{pool: pool, q: pool}
}

// Atomic runs fn inside a transaction. Nested calls reuse the outer one.
func (r *ReactionRepo) Atomic(ctx context.Context, fn func(tx reaction.Store) error) error {
	if _, inTx := r.q.(pgx.Tx); inTx {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reaction tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&ReactionRepo{pool: r.pool, q: tx}); err != nil {
		return err
	}
	return translate(tx.Commit(ctx), "reaction")
}

func (r *ReactionRepo) Insert(ctx context.Context, rc reaction.Reaction) (bool, error) {
	var id uuid.UUID
	err := r.q.QueryRow(ctx, `
		INSERT INTO reactions (id, subject_type, subject_id, actor_id, kind, kind_group, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
		RETURNING id`,
		rc.ID, rc.SubjectType, rc.SubjectID, rc.ActorID, rc.Kind,
		reaction.Group(rc.SubjectType, rc.Kind), rc.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "reaction")
	}
	return true, nil
}

func (r *ReactionRepo) Delete(ctx context.Context, key reaction.Key, kinds []reaction.Kind) ([]reaction.Kind, error) {
	rows, err := r.q.Query(ctx, `
		DELETE FROM reactions
		WHERE subject_type = $1 AND subject_id = $2 AND actor_id = $3 AND kind = ANY($4)
		RETURNING kind`,
		key.SubjectType, key.SubjectID, key.ActorID, kindStrings(kinds))
	if err != nil {
		return nil, translate(err, "reaction")
	}
	removed, err := pgx.CollectRows(rows, pgx.RowTo[reaction.Kind])
	if err != nil {
		return nil, translate(err, "reaction")
	}
	return removed, nil
}

func (r *ReactionRepo) Count(ctx context.Context, t reaction.SubjectType, subjectID uuid.UUID, kind reaction.Kind) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM reactions
		WHERE subject_type = $1 AND subject_id = $2 AND kind = $3`,
		t, subjectID, kind).Scan(&n)
	return n, translate(err, "reaction")
}

func (r *ReactionRepo) Kinds(ctx context.Context, key reaction.Key) ([]reaction.Kind, error) {
	rows, err := r.q.Query(ctx, `
		SELECT kind FROM reactions
		WHERE subject_type = $1 AND subject_id = $2 AND actor_id = $3`,
		key.SubjectType, key.SubjectID, key.ActorID)
	if err != nil {
		return nil, translate(err, "reaction")
	}
	kinds, err := pgx.CollectRows(rows, pgx.RowTo[reaction.Kind])
	return kinds, translate(err, "reaction")
}

// ListByActor pages newest first. COUNT(*) OVER () carries the total on every
// row so a page costs one round trip; an out-of-range page falls back to a
// plain count.
func (r *ReactionRepo) ListByActor(ctx context.Context, q reaction.ActorQuery) ([]reaction.Reaction, int64, error) {
	kinds := kindStrings(q.Kinds)
	rows, err := r.q.Query(ctx, `
		SELECT id, subject_type, subject_id, actor_id, kind, created_at, COUNT(*) OVER () AS total
		FROM reactions
		WHERE actor_id = $1 AND subject_type = $2
		  AND (cardinality($3::text[]) = 0 OR kind = ANY($3))
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`,
		q.ActorID, q.SubjectType, kinds, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []reaction.Reaction{}
	var total int64
	for rows.Next() {
		var rc reaction.Reaction
		if err := rows.Scan(&rc.ID, &rc.SubjectType, &rc.SubjectID, &rc.ActorID, &rc.Kind, &rc.CreatedAt, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(out) == 0 && q.Offset > 0 {
		err = r.q.QueryRow(ctx, `
			SELECT COUNT(*) FROM reactions
			WHERE actor_id = $1 AND subject_type = $2
			  AND (cardinality($3::text[]) = 0 OR kind = ANY($3))`,
			q.ActorID, q.SubjectType, kinds).Scan(&total)
		if err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// CountByKind totals every reaction grouped by subject type and kind.
func (r *ReactionRepo) CountByKind(ctx context.Context) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT subject_type || ':' || kind, COUNT(*)
		FROM reactions
		GROUP BY subject_type, kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}

func kindStrings(kinds []reaction.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
