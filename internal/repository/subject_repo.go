package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/reaction"
)

// SubjectRepo resolves reaction subjects across the videos, comments, tweets
// and users tables.
type SubjectRepo struct {
	pool *pgxpool.Pool
}

func NewSubjectRepo(pool *pgxpool.Pool) *SubjectRepo {
	return &SubjectRepo{pool: pool}
}

func subjectTable(t reaction.SubjectType) (string, error) {
	switch t {
	case reaction.SubjectVideo:
		return "videos", nil
	case reaction.SubjectComment:
		return "comments", nil
	case reaction.SubjectTweet:
		return "tweets", nil
	case reaction.SubjectChannel:
		return "users", nil
	}
	return "", fmt.Errorf("no table for subject type %q", t)
}

func (r *SubjectRepo) Exists(ctx context.Context, t reaction.SubjectType, id uuid.UUID) (bool, error) {
	table, err := subjectTable(t)
	if err != nil {
		return false, err
	}
	var exists bool
	err = r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// OwnerOf returns the user who owns a subject. A channel owns itself.
func (r *SubjectRepo) OwnerOf(ctx context.Context, t reaction.SubjectType, id uuid.UUID) (uuid.UUID, error) {
	if t == reaction.SubjectChannel {
		return id, nil
	}
	table, err := subjectTable(t)
	if err != nil {
		return uuid.Nil, err
	}
	var owner uuid.UUID
	err = r.pool.QueryRow(ctx, `SELECT owner_id FROM `+table+` WHERE id = $1`, id).Scan(&owner)
	if err != nil {
		return uuid.Nil, translate(err, string(t))
	}
	return owner, nil
}

// Resolve loads display summaries with owner metadata. Missing ids are
// absent from the result.
func (r *SubjectRepo) Resolve(ctx context.Context, t reaction.SubjectType, ids []uuid.UUID) (map[uuid.UUID]reaction.Subject, error) {
	var query string
	switch t {
	case reaction.SubjectVideo:
		query = `
			SELECT v.id, v.title, v.description, v.thumbnail, v.duration, v.views, v.created_at,
			       u.id, u.username, u.full_name, u.avatar
			FROM videos v JOIN users u ON u.id = v.owner_id
			WHERE v.id = ANY($1)`
	case reaction.SubjectComment:
		query = `
			SELECT c.id, '', c.content, '', 0::float8, 0::int8, c.created_at,
			       u.id, u.username, u.full_name, u.avatar
			FROM comments c JOIN users u ON u.id = c.owner_id
			WHERE c.id = ANY($1)`
	case reaction.SubjectTweet:
		query = `
			SELECT t.id, '', t.content, '', 0::float8, 0::int8, t.created_at,
			       u.id, u.username, u.full_name, u.avatar
			FROM tweets t JOIN users u ON u.id = t.owner_id
			WHERE t.id = ANY($1)`
	case reaction.SubjectChannel:
		query = `
			SELECT u.id, u.username, u.full_name, u.avatar, 0::float8, 0::int8, u.created_at,
			       u.id, u.username, u.full_name, u.avatar
			FROM users u
			WHERE u.id = ANY($1)`
	default:
		return nil, fmt.Errorf("no table for subject type %q", t)
	}

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]reaction.Subject, len(ids))
	for rows.Next() {
		s := reaction.Subject{Type: t}
		var o reaction.Owner
		err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Thumbnail, &s.Duration, &s.Views, &s.CreatedAt,
			&o.ID, &o.Username, &o.FullName, &o.Avatar)
		if err != nil {
			return nil, err
		}
		s.Owner = &o
		out[s.ID] = s
	}
	return out, rows.Err()
}
