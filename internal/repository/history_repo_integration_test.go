//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepoIntegration(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	videos := NewVideoRepo(pool)
	history := NewHistoryRepo(pool)

	owner := seedUser(t, pool, "uploader")
	viewer := seedUser(t, pool, "watcher")
	first, err := videos.Create(ctx, uuid.NewString(), owner, modelVideo("first"))
	require.NoError(t, err)
	second, err := videos.Create(ctx, uuid.NewString(), owner, modelVideo("second"))
	require.NoError(t, err)
	unpublished := false
	draftReq := modelVideo("draft")
	draftReq.IsPublished = &unpublished
	draft, err := videos.Create(ctx, uuid.NewString(), owner, draftReq)
	require.NoError(t, err)

	require.NoError(t, history.Add(ctx, viewer, first.ID))
	require.NoError(t, history.Add(ctx, viewer, second.ID))
	require.NoError(t, history.Add(ctx, viewer, first.ID))
	require.NoError(t, history.Add(ctx, viewer, draft.ID))

	items, total, err := history.List(ctx, viewer, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "unpublished videos of others are hidden")
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, "uploader", items[0].Owner.Username)
	assert.False(t, items[0].WatchedAt.Before(items[1].WatchedAt))

	err = history.Add(ctx, viewer, uuid.NewString())
	assert.Error(t, err, "unknown video violates the foreign key")
}
