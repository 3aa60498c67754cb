package service

import (
	"context"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
)

// HistoryService keeps each user's watch history.
type HistoryService struct {
	repo   HistoryStore
	videos VideoStore
}

func NewHistoryService(repo HistoryStore, videos VideoStore) *HistoryService {
	return &HistoryService{repo: repo, videos: videos}
}

// Add records a view of videoID by actorID. Unpublished videos can only be
// recorded by their owner.
func (s *HistoryService) Add(ctx context.Context, actorID, videoID string) error {
	v, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !v.IsPublished && v.OwnerID != actorID {
		return apperror.NotFoundf("Video not found")
	}
	return s.repo.Add(ctx, actorID, videoID)
}

// List returns a page of actorID's history, most recent first.
func (s *HistoryService) List(ctx context.Context, actorID string, page, limit int) (model.PageResult[model.WatchedVideo], error) {
	items, total, err := s.repo.List(ctx, actorID, page, limit)
	if err != nil {
		return model.PageResult[model.WatchedVideo]{}, err
	}
	return model.NewPageResult(items, total, page, limit), nil
}
