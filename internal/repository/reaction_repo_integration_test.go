//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/db"
	"github.com/mathieu-neron/vixtube/internal/reaction"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	check, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if exec.CommandContext(check, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "vixtube",
				"POSTGRES_PASSWORD": "vixtube",
				"POSTGRES_DB":       "vixtube",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://vixtube:vixtube@%s:%s/vixtube?sslmode=disable", host, port.Port())
	pool, err := db.NewPool(ctx, url, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool))
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, name string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, NewUserRepo(pool).Touch(context.Background(), id, name))
	return id
}

func TestReactionRepoIntegration(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	owner := seedUser(t, pool, "owner")
	video, err := NewVideoRepo(pool).Create(ctx, uuid.NewString(), owner, modelVideo("race"))
	require.NoError(t, err)

	ledger := reaction.NewLedger(NewReactionRepo(pool), NewSubjectRepo(pool))

	t.Run("like then dislike", func(t *testing.T) {
		actor := seedUser(t, pool, "alice")
		_, err := ledger.Toggle(ctx, reaction.SubjectVideo, video.ID, actor, reaction.KindLike)
		require.NoError(t, err)
		res, err := ledger.Toggle(ctx, reaction.SubjectVideo, video.ID, actor, reaction.KindDislike)
		require.NoError(t, err)
		assert.True(t, res.Active)
		assert.Equal(t, []reaction.Kind{reaction.KindLike}, res.Cleared)

		st, err := ledger.Status(ctx, reaction.SubjectVideo, video.ID, actor)
		require.NoError(t, err)
		assert.Equal(t, reaction.StateDisliked, st.State())
	})

	t.Run("concurrent toggles", func(t *testing.T) {
		actor := seedUser(t, pool, "bob")
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			kind := reaction.KindLike
			if i%3 == 0 {
				kind = reaction.KindDislike
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := ledger.Toggle(ctx, reaction.SubjectVideo, video.ID, actor, kind)
				if err != nil && !errors.Is(err, apperror.ErrConflict) {
					t.Errorf("toggle: %v", err)
				}
			}()
		}
		wg.Wait()

		var n int
		err := pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM reactions
			WHERE subject_type = 'video' AND subject_id = $1 AND actor_id = $2 AND kind IN ('like', 'dislike')`,
			video.ID, actor).Scan(&n)
		require.NoError(t, err)
		assert.LessOrEqual(t, n, 1)
	})

	t.Run("list resolves subjects", func(t *testing.T) {
		actor := seedUser(t, pool, "carol")
		_, err := ledger.Toggle(ctx, reaction.SubjectVideo, video.ID, actor, reaction.KindSaved)
		require.NoError(t, err)

		page, err := ledger.ListForActorKind(ctx, actor, reaction.SubjectVideo, reaction.KindSaved, 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.NotNil(t, page.Items[0].Subject)
		assert.Equal(t, "race", page.Items[0].Subject.Title)
		assert.Equal(t, "owner", page.Items[0].Subject.Owner.Username)

		empty, err := ledger.ListForActorKind(ctx, actor, reaction.SubjectVideo, reaction.KindSaved, 5, 10)
		require.NoError(t, err)
		assert.Empty(t, empty.Items)
		assert.EqualValues(t, 1, empty.Total)
	})

	t.Run("owner of subject", func(t *testing.T) {
		subjects := NewSubjectRepo(pool)
		got, err := subjects.OwnerOf(ctx, reaction.SubjectVideo, uuid.MustParse(video.ID))
		require.NoError(t, err)
		assert.Equal(t, owner, got.String())

		self, err := subjects.OwnerOf(ctx, reaction.SubjectChannel, uuid.MustParse(owner))
		require.NoError(t, err)
		assert.Equal(t, owner, self.String())

		_, err = subjects.OwnerOf(ctx, reaction.SubjectTweet, uuid.New())
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}
