package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
)

type PlaylistService struct {
	repo   PlaylistStore
	videos VideoStore
	users  UserStore
}

func NewPlaylistService(repo PlaylistStore, videos VideoStore, users UserStore) *PlaylistService {
	return &PlaylistService{repo: repo, videos: videos, users: users}
}

func (s *PlaylistService) Create(ctx context.Context, actorID string, req model.PlaylistRequest) (*model.Playlist, error) {
	return s.repo.Create(ctx, uuid.NewString(), actorID, req)
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperror.Invalid("Invalid userId format")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, userID)
}

// Get returns a playlist with its videos populated in order.
func (s *PlaylistService) Get(ctx context.Context, playlistID string) (*model.Playlist, error) {
	p, err := s.repo.FindByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	videos, err := s.repo.Videos(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	p.Videos = videos
	return p, nil
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, actorID string) (*model.Playlist, error) {
	if err := s.requireOwner(ctx, playlistID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, err
	}
	added, err := s.repo.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, apperror.Invalid("Video already in playlist")
	}
	return s.repo.FindByID(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, actorID string) (*model.Playlist, error) {
	if err := s.requireOwner(ctx, playlistID, actorID); err != nil {
		return nil, err
	}
	removed, err := s.repo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperror.NotFoundf("Video not in playlist")
	}
	return s.repo.FindByID(ctx, playlistID)
}

func (s *PlaylistService) Update(ctx context.Context, playlistID, actorID string, req model.PlaylistUpdateRequest) (*model.Playlist, error) {
	if err := s.requireOwner(ctx, playlistID, actorID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, playlistID, req)
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, actorID string) error {
	if err := s.requireOwner(ctx, playlistID, actorID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, playlistID)
}

func (s *PlaylistService) requireOwner(ctx context.Context, playlistID, actorID string) error {
	p, err := s.repo.FindByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if p.OwnerID != actorID {
		return apperror.Forbidden("You are not allowed to modify this playlist")
	}
	return nil
}
