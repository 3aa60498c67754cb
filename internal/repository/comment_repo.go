package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/model"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentSelect = `
	SELECT c.id, c.content, c.video_id, c.tweet_id, c.owner_id, c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM reactions r
	         WHERE r.subject_type = 'comment' AND r.subject_id = c.id AND r.kind = 'like'),
	       u.id, u.username, u.full_name, u.avatar
	FROM comments c JOIN users u ON u.id = c.owner_id`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	var o model.Owner
	err := row.Scan(&c.ID, &c.Content, &c.VideoID, &c.TweetID, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt,
		&c.LikesCount, &o.ID, &o.Username, &o.FullName, &o.Avatar)
	if err != nil {
		return nil, err
	}
	c.Owner = &o
	return &c, nil
}

// parentColumn is "video_id" or "tweet_id".
func (r *CommentRepo) Create(ctx context.Context, id, ownerID, parentColumn, parentID, content string) (*model.Comment, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, owner_id, `+parentColumn+`, content) VALUES ($1, $2, $3, $4)`,
		id, ownerID, parentID, content)
	if err != nil {
		return nil, translate(err, "parent")
	}
	return r.FindByID(ctx, id)
}

func (r *CommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, translate(err, "Comment")
	}
	return c, nil
}

// ListFor pages the comments under a video or tweet, newest first.
func (r *CommentRepo) ListFor(ctx context.Context, parentColumn, parentID string, page, limit int) ([]model.Comment, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE `+parentColumn+` = $1`, parentID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, commentSelect+`
		WHERE c.`+parentColumn+` = $1
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $2 OFFSET $3`, parentID, limit, pageOffset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

func (r *CommentRepo) Update(ctx context.Context, id, content string) (*model.Comment, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, translate(pgx.ErrNoRows, "Comment")
	}
	return r.FindByID(ctx, id)
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reactions WHERE subject_type = 'comment' AND subject_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, "Comment")
	}
	return tx.Commit(ctx)
}
