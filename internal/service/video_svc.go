package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/reaction"
)

type VideoService struct {
	repo      VideoStore
	reactions *ReactionService
}

func NewVideoService(repo VideoStore, reactions *ReactionService) *VideoService {
	return &VideoService{repo: repo, reactions: reactions}
}

// Publish registers an uploaded video for ownerID.
func (s *VideoService) Publish(ctx context.Context, ownerID string, req model.PublishVideoRequest) (*model.Video, error) {
	return s.repo.Create(ctx, uuid.NewString(), ownerID, req)
}

// List returns published videos matching q.
func (s *VideoService) List(ctx context.Context, q model.VideoQuery) (model.PageResult[model.Video], error) {
	if q.SortBy != "" {
		if _, ok := model.VideoSortColumns[q.SortBy]; !ok {
			return model.PageResult[model.Video]{}, apperror.Invalid("sortBy must be one of createdAt, views, title, duration")
		}
	}
	if q.SortType != "" && q.SortType != "asc" && q.SortType != "desc" {
		return model.PageResult[model.Video]{}, apperror.Invalid("sortType must be asc or desc")
	}
	if q.OwnerID != "" {
		if _, err := uuid.Parse(q.OwnerID); err != nil {
			return model.PageResult[model.Video]{}, apperror.Invalid("Invalid userId format")
		}
	}
	videos, total, err := s.repo.List(ctx, q, false)
	if err != nil {
		return model.PageResult[model.Video]{}, err
	}
	return model.NewPageResult(videos, total, q.Page, q.Limit), nil
}

// ListMine returns every video of ownerID, published or not.
func (s *VideoService) ListMine(ctx context.Context, ownerID string, q model.VideoQuery) (model.PageResult[model.Video], error) {
	q.OwnerID = ownerID
	videos, total, err := s.repo.List(ctx, q, true)
	if err != nil {
		return model.PageResult[model.Video]{}, err
	}
	return model.NewPageResult(videos, total, q.Page, q.Limit), nil
}

// Get counts a view and returns the video with the caller's reaction state.
// Unpublished videos are visible to their owner only.
func (s *VideoService) Get(ctx context.Context, videoID, actorID string) (*model.VideoDetail, error) {
	v, err := s.repo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !v.IsPublished && v.OwnerID != actorID {
		return nil, apperror.NotFoundf("Video not found")
	}
	if v, err = s.repo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}

	detail := &model.VideoDetail{Video: *v, LikeState: string(reaction.StateNone)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.reactions.Count(gctx, reaction.SubjectVideo, videoID, reaction.KindLike)
		detail.LikesCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.reactions.Count(gctx, reaction.SubjectVideo, videoID, reaction.KindDislike)
		detail.DislikesCount = n
		return err
	})
	if actorID != "" {
		g.Go(func() error {
			st, err := s.reactions.Status(gctx, reaction.SubjectVideo, videoID, actorID)
			if err != nil {
				return err
			}
			detail.LikeState = string(st.State())
			detail.IsSaved = st.Has(reaction.KindSaved)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *VideoService) Update(ctx context.Context, videoID, actorID string, req model.UpdateVideoRequest) (*model.Video, error) {
	if err := s.requireOwner(ctx, videoID, actorID, "update"); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, videoID, req)
}

func (s *VideoService) Delete(ctx context.Context, videoID, actorID string) error {
	if err := s.requireOwner(ctx, videoID, actorID, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, videoID); err != nil {
		return err
	}
	s.reactions.Invalidate(ctx, reaction.SubjectVideo, videoID)
	return nil
}

// TogglePublish flips the publish status and returns the new value.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, actorID string) (bool, error) {
	if err := s.requireOwner(ctx, videoID, actorID, "update"); err != nil {
		return false, err
	}
	return s.repo.TogglePublish(ctx, videoID)
}

func (s *VideoService) requireOwner(ctx context.Context, videoID, actorID, action string) error {
	v, err := s.repo.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if v.OwnerID != actorID {
		return apperror.Forbidden("You are not allowed to %s this video", action)
	}
	return nil
}
