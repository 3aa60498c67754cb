package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/model"
)

type TweetRepo struct {
	pool *pgxpool.Pool
}

func NewTweetRepo(pool *pgxpool.Pool) *TweetRepo {
	return &TweetRepo{pool: pool}
}

const tweetSelect = `
	SELECT t.id, t.content, t.owner_id, t.created_at, t.updated_at,
	       u.id, u.username, u.full_name, u.avatar
	FROM tweets t JOIN users u ON u.id = t.owner_id`

func scanTweet(row pgx.Row) (*model.Tweet, error) {
	var t model.Tweet
	var o model.Owner
	err := row.Scan(&t.ID, &t.Content, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
		&o.ID, &o.Username, &o.FullName, &o.Avatar)
	if err != nil {
		return nil, err
	}
	t.Owner = &o
	return &t, nil
}

func (r *TweetRepo) Create(ctx context.Context, id, ownerID, content string) (*model.Tweet, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO tweets (id, owner_id, content) VALUES ($1, $2, $3)`, id, ownerID, content)
	if err != nil {
		return nil, translate(err, "owner")
	}
	return r.FindByID(ctx, id)
}

func (r *TweetRepo) FindByID(ctx context.Context, id string) (*model.Tweet, error) {
	t, err := scanTweet(r.pool.QueryRow(ctx, tweetSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, translate(err, "Tweet")
	}
	return t, nil
}

// List pages tweets newest first. An empty ownerID lists every tweet.
func (r *TweetRepo) List(ctx context.Context, ownerID string, page, limit int) ([]model.Tweet, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tweets WHERE ($1 = '' OR owner_id::text = $1)`, ownerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, tweetSelect+`
		WHERE ($1 = '' OR t.owner_id::text = $1)
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3`, ownerID, limit, pageOffset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tweets := []model.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, 0, err
		}
		tweets = append(tweets, *t)
	}
	return tweets, total, rows.Err()
}

func (r *TweetRepo) Update(ctx context.Context, id, content string) (*model.Tweet, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE tweets SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, translate(pgx.ErrNoRows, "Tweet")
	}
	return r.FindByID(ctx, id)
}

func (r *TweetRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM reactions
		WHERE (subject_type = 'tweet' AND subject_id = $1)
		   OR (subject_type = 'comment' AND subject_id IN (SELECT id FROM comments WHERE tweet_id = $1))`, id)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, "Tweet")
	}
	return tx.Commit(ctx)
}
