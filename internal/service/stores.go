package service

import (
	"context"

	"github.com/mathieu-neron/vixtube/internal/model"
)

// The interfaces below are satisfied by the repository package and by fakes
// in tests.

type VideoStore interface {
	Create(ctx context.Context, id, ownerID string, req model.PublishVideoRequest) (*model.Video, error)
	FindByID(ctx context.Context, id string) (*model.Video, error)
	IncrementViews(ctx context.Context, id string) (*model.Video, error)
	List(ctx context.Context, q model.VideoQuery, includeUnpublished bool) ([]model.Video, int64, error)
	Search(ctx context.Context, q string, limit int) ([]model.Video, error)
	Update(ctx context.Context, id string, req model.UpdateVideoRequest) (*model.Video, error)
	TogglePublish(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type CommentStore interface {
	Create(ctx context.Context, id, ownerID, parentColumn, parentID, content string) (*model.Comment, error)
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	ListFor(ctx context.Context, parentColumn, parentID string, page, limit int) ([]model.Comment, int64, error)
	Update(ctx context.Context, id, content string) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
}

type TweetStore interface {
	Create(ctx context.Context, id, ownerID, content string) (*model.Tweet, error)
	FindByID(ctx context.Context, id string) (*model.Tweet, error)
	List(ctx context.Context, ownerID string, page, limit int) ([]model.Tweet, int64, error)
	Update(ctx context.Context, id, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id string) error
}

type PlaylistStore interface {
	Create(ctx context.Context, id, ownerID string, req model.PlaylistRequest) (*model.Playlist, error)
	FindByID(ctx context.Context, id string) (*model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error)
	Videos(ctx context.Context, playlistID string) ([]model.Video, error)
	AddVideo(ctx context.Context, playlistID, videoID string) (bool, error)
	RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error)
	Update(ctx context.Context, id string, req model.PlaylistUpdateRequest) (*model.Playlist, error)
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	Touch(ctx context.Context, id, username string) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Search(ctx context.Context, q string, limit int) ([]model.Owner, error)
	GetStats(ctx context.Context) (*model.StatsResponse, error)
}

type HistoryStore interface {
	Add(ctx context.Context, userID, videoID string) error
	List(ctx context.Context, userID string, page, limit int) ([]model.WatchedVideo, int64, error)
}

// ReactionTotals reports reaction totals for the stats endpoint.
type ReactionTotals interface {
	CountByKind(ctx context.Context) (map[string]int64, error)
}
