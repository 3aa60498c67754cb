package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

const videoSelect = `
	SELECT v.id, v.owner_id, v.title, v.description, v.video_file, v.thumbnail, v.duration,
	       v.views, v.is_published, v.created_at, v.updated_at,
	       u.id, u.username, u.full_name, u.avatar
	FROM videos v JOIN users u ON u.id = v.owner_id`

func scanVideo(row pgx.Row) (*model.Video, error) {
	var v model.Video
	var o model.Owner
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoFile, &v.Thumbnail, &v.Duration,
		&v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
		&o.ID, &o.Username, &o.FullName, &o.Avatar,
	)
	if err != nil {
		return nil, err
	}
	v.Owner = &o
	return &v, nil
}

func collectVideos(rows pgx.Rows) ([]model.Video, error) {
	defer rows.Close()
	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

// Create inserts a new video and returns it with its owner.
func (r *VideoRepo) Create(ctx context.Context, id, ownerID string, req model.PublishVideoRequest) (*model.Video, error) {
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO videos (id, owner_id, title, description, video_file, thumbnail, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, ownerID, req.Title, req.Description, req.VideoFile, req.Thumbnail, req.Duration, published)
	if err != nil {
		return nil, translate(err, "owner")
	}
	return r.FindByID(ctx, id)
}

// FindByID returns a video regardless of its publish status.
func (r *VideoRepo) FindByID(ctx context.Context, id string) (*model.Video, error) {
	v, err := scanVideo(r.pool.QueryRow(ctx, videoSelect+` WHERE v.id = $1`, id))
	if err != nil {
		return nil, translate(err, "Video")
	}
	return v, nil
}

// IncrementViews bumps the view counter atomically and returns the video.
func (r *VideoRepo) IncrementViews(ctx context.Context, id string) (*model.Video, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, translate(pgx.ErrNoRows, "Video")
	}
	return r.FindByID(ctx, id)
}

// List returns published videos (or every video of q.OwnerID when
// includeUnpublished is set) matching the query, with the total count.
func (r *VideoRepo) List(ctx context.Context, q model.VideoQuery, includeUnpublished bool) ([]model.Video, int64, error) {
	column, ok := model.VideoSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if q.SortType == "asc" {
		direction = "ASC"
	}

	where := `WHERE ($1 OR v.is_published)
		AND ($2 = '' OR v.owner_id::text = $2)
		AND ($3 = '' OR v.title ILIKE '%' || $3 || '%' OR v.description ILIKE '%' || $3 || '%')`
	args := []any{includeUnpublished, q.OwnerID, escapeLike(q.Query)}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos v `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s %s ORDER BY v.%s %s, v.id DESC LIMIT $4 OFFSET $5`, videoSelect, where, column, direction)
	rows, err := r.pool.Query(ctx, query, append(args, q.Limit, pageOffset(q.Page, q.Limit))...)
	if err != nil {
		return nil, 0, err
	}
	videos, err := collectVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// Search returns up to limit published videos whose title or description matches.
func (r *VideoRepo) Search(ctx context.Context, q string, limit int) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx, videoSelect+`
		WHERE v.is_published
		  AND (v.title ILIKE '%' || $1 || '%' OR v.description ILIKE '%' || $1 || '%')
		ORDER BY v.views DESC, v.created_at DESC
		LIMIT $2`, escapeLike(q), limit)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

// Update changes the non-empty fields of req.
func (r *VideoRepo) Update(ctx context.Context, id string, req model.UpdateVideoRequest) (*model.Video, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE videos SET
			title = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description),
			thumbnail = COALESCE(NULLIF($4, ''), thumbnail),
			updated_at = NOW()
		WHERE id = $1`,
		id, req.Title, req.Description, req.Thumbnail)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, translate(pgx.ErrNoRows, "Video")
	}
	return r.FindByID(ctx, id)
}

// TogglePublish flips is_published and returns the new value.
func (r *VideoRepo) TogglePublish(ctx context.Context, id string) (bool, error) {
	var published bool
	err := r.pool.QueryRow(ctx, `
		UPDATE videos SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1
		RETURNING is_published`, id).Scan(&published)
	return published, translate(err, "Video")
}

// Delete removes a video along with its reactions, which have no foreign key.
func (r *VideoRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM reactions
		WHERE (subject_type = 'video' AND subject_id = $1)
		   OR (subject_type = 'comment' AND subject_id IN (SELECT id FROM comments WHERE video_id = $1))`, id)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, "Video")
	}
	return tx.Commit(ctx)
}
