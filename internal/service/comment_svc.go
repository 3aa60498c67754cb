package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mathieu-neron/vixtube/internal/apperror"
	"github.com/mathieu-neron/vixtube/internal/model"
	"github.com/mathieu-neron/vixtube/internal/reaction"
)

type CommentService struct {
	repo      CommentStore
	videos    VideoStore
	tweets    TweetStore
	reactions *ReactionService
}

func NewCommentService(repo CommentStore, videos VideoStore, tweets TweetStore, reactions *ReactionService) *CommentService {
	return &CommentService{repo: repo, videos: videos, tweets: tweets, reactions: reactions}
}

func (s *CommentService) ListForVideo(ctx context.Context, videoID string, page, limit int) (model.PageResult[model.Comment], error) {
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return model.PageResult[model.Comment]{}, err
	}
	comments, total, err := s.repo.ListFor(ctx, "video_id", videoID, page, limit)
	if err != nil {
		return model.PageResult[model.Comment]{}, err
	}
	return model.NewPageResult(comments, total, page, limit), nil
}

func (s *CommentService) ListForTweet(ctx context.Context, tweetID string, page, limit int) (model.PageResult[model.Comment], error) {
	if _, err := s.tweets.FindByID(ctx, tweetID); err != nil {
		return model.PageResult[model.Comment]{}, err
	}
	comments, total, err := s.repo.ListFor(ctx, "tweet_id", tweetID, page, limit)
	if err != nil {
		return model.PageResult[model.Comment]{}, err
	}
	return model.NewPageResult(comments, total, page, limit), nil
}

func (s *CommentService) AddToVideo(ctx context.Context, videoID, actorID, content string) (*model.Comment, error) {
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, uuid.NewString(), actorID, "video_id", videoID, content)
}

func (s *CommentService) AddToTweet(ctx context.Context, tweetID, actorID, content string) (*model.Comment, error) {
	if _, err := s.tweets.FindByID(ctx, tweetID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, uuid.NewString(), actorID, "tweet_id", tweetID, content)
}

func (s *CommentService) Update(ctx context.Context, commentID, actorID, content string) (*model.Comment, error) {
	if err := s.requireOwner(ctx, commentID, actorID, "update"); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, commentID, content)
}

func (s *CommentService) Delete(ctx context.Context, commentID, actorID string) error {
	if err := s.requireOwner(ctx, commentID, actorID, "delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, commentID); err != nil {
		return err
	}
	s.reactions.Invalidate(ctx, reaction.SubjectComment, commentID)
	return nil
}

func (s *CommentService) requireOwner(ctx context.Context, commentID, actorID, action string) error {
	c, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.OwnerID != actorID {
		return apperror.Forbidden("You are not allowed to %s this comment", action)
	}
	return nil
}
