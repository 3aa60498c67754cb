package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/model"
)

type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

// Unpublished videos stay visible in their owner's own history.
const historyFrom = `
	FROM watch_history h
	JOIN videos v ON v.id = h.video_id
	JOIN users u ON u.id = v.owner_id
	WHERE h.user_id = $1 AND (v.is_published OR v.owner_id = $1)`

// Add records that userID watched videoID. Watching again moves the video to
// the front of the history.
func (r *HistoryRepo) Add(ctx context.Context, userID, videoID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id) VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()`,
		userID, videoID)
	return translate(err, "Video")
}

// List pages through a user's history, most recent first.
func (r *HistoryRepo) List(ctx context.Context, userID string, page, limit int) ([]model.WatchedVideo, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+historyFrom, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail, v.duration,
		       v.views, v.is_published, v.created_at, v.updated_at,
		       u.id, u.username, u.full_name, u.avatar, h.watched_at`+historyFrom+`
		ORDER BY h.watched_at DESC, v.id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, pageOffset(page, limit))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.WatchedVideo{}
	for rows.Next() {
		var w model.WatchedVideo
		var o model.Owner
		err := rows.Scan(
			&w.ID, &w.OwnerID, &w.Title, &w.Description, &w.VideoFile, &w.Thumbnail, &w.Duration,
			&w.Views, &w.IsPublished, &w.CreatedAt, &w.UpdatedAt,
			&o.ID, &o.Username, &o.FullName, &o.Avatar, &w.WatchedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		w.Owner = &o
		out = append(out, w)
	}
	return out, total, rows.Err()
}
