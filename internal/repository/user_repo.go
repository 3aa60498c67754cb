package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mathieu-neron/vixtube/internal/model"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, username, full_name, email, avatar, cover_image, created_at, last_active`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.Avatar, &u.CoverImage, &u.CreatedAt, &u.LastActive)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Touch creates the user from token claims on first sight and refreshes
// last_active afterwards. Profile fields set elsewhere are never overwritten.
func (r *UserRepo) Touch(ctx context.Context, id, username string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET last_active = NOW()`,
		id, strings.ToLower(username))
	return translate(err, "username")
}

// FindByID returns a single user.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "Channel")
	}
	return u, nil
}

// FindByUsername looks a user up by their lower-cased username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, strings.ToLower(username)))
	if err != nil {
		return nil, translate(err, "Channel")
	}
	return u, nil
}

// Search matches username or full name, case-insensitively.
func (r *UserRepo) Search(ctx context.Context, q string, limit int) ([]model.Owner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, full_name, avatar
		FROM users
		WHERE username ILIKE '%' || $1 || '%' OR full_name ILIKE '%' || $1 || '%'
		ORDER BY username
		LIMIT $2`, escapeLike(q), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.Owner{}
	for rows.Next() {
		var o model.Owner
		if err := rows.Scan(&o.ID, &o.Username, &o.FullName, &o.Avatar); err != nil {
			return nil, err
		}
		users = append(users, o)
	}
	return users, rows.Err()
}

// GetStats returns aggregate row counts from all tables.
func (r *UserRepo) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM videos WHERE is_published) AS total_videos,
			(SELECT COUNT(*) FROM comments) AS total_comments,
			(SELECT COUNT(*) FROM tweets) AS total_tweets,
			(SELECT COUNT(*) FROM playlists) AS total_playlists,
			(SELECT COUNT(*) FROM users WHERE last_active > NOW() - INTERVAL '24 hours') AS active_users_24h`

	var stats model.StatsResponse
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers, &stats.TotalVideos, &stats.TotalComments,
		&stats.TotalTweets, &stats.TotalPlaylists, &stats.ActiveUsers24h,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
