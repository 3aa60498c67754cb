package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/model"
)

type PlaylistRepo struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepo(pool *pgxpool.Pool) *PlaylistRepo {
	return &PlaylistRepo{pool: pool}
}

const playlistSelect = `
	SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
	       COALESCE(ARRAY(SELECT pv.video_id::text FROM playlist_videos pv
	                      WHERE pv.playlist_id = p.id ORDER BY pv.position), '{}'),
	       u.id, u.username, u.full_name, u.avatar
	FROM playlists p JOIN users u ON u.id = p.owner_id`

func scanPlaylist(row pgx.Row) (*model.Playlist, error) {
	var p model.Playlist
	var o model.Owner
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
		&p.VideoIDs, &o.ID, &o.Username, &o.FullName, &o.Avatar)
	if err != nil {
		return nil, err
	}
	p.Owner = &o
	return &p, nil
}

func (r *PlaylistRepo) Create(ctx context.Context, id, ownerID string, req model.PlaylistRequest) (*model.Playlist, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO playlists (id, owner_id, name, description) VALUES ($1, $2, $3, $4)`,
		id, ownerID, req.Name, req.Description)
	if err != nil {
		return nil, translate(err, "owner")
	}
	return r.FindByID(ctx, id)
}

func (r *PlaylistRepo) FindByID(ctx context.Context, id string) (*model.Playlist, error) {
	p, err := scanPlaylist(r.pool.QueryRow(ctx, playlistSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, translate(err, "Playlist")
	}
	return p, nil
}

func (r *PlaylistRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	rows, err := r.pool.Query(ctx, playlistSelect+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []model.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *p)
	}
	return playlists, rows.Err()
}

// Videos returns the playlist's videos in playlist order.
func (r *PlaylistRepo) Videos(ctx context.Context, playlistID string) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx, videoSelect+`
		JOIN playlist_videos pv ON pv.video_id = v.id
		WHERE pv.playlist_id = $1
		ORDER BY pv.position`, playlistID)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

// AddVideo appends a video. It reports false when the video was already present.
func (r *PlaylistRepo) AddVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO playlist_videos (playlist_id, video_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM playlist_videos WHERE playlist_id = $1
		ON CONFLICT (playlist_id, video_id) DO NOTHING`, playlistID, videoID)
	if err != nil {
		return false, translate(err, "Video")
	}
	if tag.RowsAffected() > 0 {
		_, err = r.pool.Exec(ctx, `UPDATE playlists SET updated_at = NOW() WHERE id = $1`, playlistID)
	}
	return tag.RowsAffected() > 0, err
}

// RemoveVideo reports false when the video was not in the playlist.
func (r *PlaylistRepo) RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`, playlistID, videoID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PlaylistRepo) Update(ctx context.Context, id string, req model.PlaylistUpdateRequest) (*model.Playlist, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE playlists SET
			name = COALESCE(NULLIF($2, ''), name),
			description = COALESCE(NULLIF($3, ''), description),
			updated_at = NOW()
		WHERE id = $1`, id, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, translate(pgx.ErrNoRows, "Playlist")
	}
	return r.FindByID(ctx, id)
}

func (r *PlaylistRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, "Playlist")
	}
	return nil
}
